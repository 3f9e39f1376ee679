// Package app implements the application layer for wsm.
package app

import (
	"context"
	"errors"
	"io"
	"os"

	"go.trai.ch/wsm/internal/core/domain"
	"go.trai.ch/wsm/internal/core/ports"
	"go.trai.ch/wsm/internal/engine/installer"
	"go.trai.ch/wsm/internal/engine/resolver"
	"go.trai.ch/wsm/internal/engine/synchronizer"
	"go.trai.ch/wsm/internal/ui/report"
	"go.trai.ch/zerr"
)

// lookupConcurrency bounds parallel catalog lookups during search and info.
const lookupConcurrency = 4

// App represents the main application logic.
type App struct {
	settings     ports.SettingsStore
	store        ports.StateStore
	catalog      ports.Catalog
	credentials  ports.Credentials
	resolver     *resolver.Resolver
	synchronizer *synchronizer.Synchronizer
	installer    *installer.Installer
	logger       ports.Logger
	tracer       ports.Tracer
	out          io.Writer
}

// New creates a new App instance.
func New(
	settings ports.SettingsStore,
	store ports.StateStore,
	catalog ports.Catalog,
	credentials ports.Credentials,
	res *resolver.Resolver,
	sync *synchronizer.Synchronizer,
	inst *installer.Installer,
	log ports.Logger,
	tracer ports.Tracer,
) *App {
	return &App{
		settings:     settings,
		store:        store,
		catalog:      catalog,
		credentials:  credentials,
		resolver:     res,
		synchronizer: sync,
		installer:    inst,
		logger:       log,
		tracer:       tracer,
		out:          os.Stdout,
	}
}

// WithOutput redirects reports to w instead of stdout.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// InstallOptions configuration for the Install method.
type InstallOptions struct {
	// Yes skips the confirmation prompt. It also accepts a plan from which
	// ids unknown to the catalog were dropped.
	Yes bool
}

// Install resolves ids and their dependencies and installs everything not yet present.
func (a *App) Install(ctx context.Context, rawIDs []string, opts InstallOptions) error {
	ids := domain.NewItemIDs(rawIDs)
	if len(ids) == 0 {
		return domain.ErrNoItemsSpecified
	}

	settings, err := a.loadSettings(domain.SettingLogin, domain.SettingInstallDir, domain.SettingAppID)
	if err != nil {
		return err
	}

	state, err := a.store.Load()
	if err != nil {
		return err
	}

	plan, err := a.resolve(ctx, ids, state)
	if plan != nil {
		a.report().Plan(plan)
	}
	if err != nil {
		// Unknown ids leave the rest of the plan to the confirmation step.
		if plan == nil || plan.IsEmpty() || !errors.Is(err, domain.ErrCatalogLookup) {
			return err
		}
		a.logger.Warn("skipping items not found in the workshop")
	}

	if plan.IsEmpty() {
		a.logger.Info("Nothing to install.")
		return nil
	}

	result, err := a.installer.Apply(ctx, state, plan.Actions(), installer.ApplyOptions{
		Yes:      opts.Yes,
		Settings: settings,
	})
	return a.finish("Installed", result, err)
}

// RemoveOptions configuration for the Remove method.
type RemoveOptions struct {
	Yes bool
}

// Remove deletes the files of ids and forgets them. Dependencies they pulled in stay installed.
func (a *App) Remove(ctx context.Context, rawIDs []string, opts RemoveOptions) error {
	ids := domain.NewItemIDs(rawIDs)
	if len(ids) == 0 {
		return domain.ErrNoItemsSpecified
	}

	state, err := a.store.Load()
	if err != nil {
		return err
	}

	actions := make([]domain.Action, 0, len(ids))
	for _, id := range ids {
		if !state.Has(id) {
			a.logger.Warn(id.String() + " is not installed")
			continue
		}
		actions = append(actions, domain.RemoveAction(id))
	}
	if len(actions) == 0 {
		return nil
	}

	// Removal only needs the recorded paths, so incomplete settings are fine.
	settings, err := a.settings.Load()
	if err != nil {
		return err
	}

	result, err := a.installer.Apply(ctx, state, actions, installer.ApplyOptions{
		Yes:      opts.Yes,
		Settings: settings,
	})
	return a.finish("Removed", result, err)
}

// UpdateOptions configuration for the Update method.
type UpdateOptions struct {
	Yes bool
}

// Update refreshes installed items that have a newer catalog revision.
// With no ids every installed item is checked. Dependencies that an updated
// revision newly declares are installed alongside.
func (a *App) Update(ctx context.Context, rawIDs []string, opts UpdateOptions) error {
	settings, err := a.loadSettings(domain.SettingLogin, domain.SettingInstallDir, domain.SettingAppID)
	if err != nil {
		return err
	}

	state, err := a.store.Load()
	if err != nil {
		return err
	}
	if state.Len() == 0 {
		a.logger.Info("No workshop items installed.")
		return nil
	}

	statuses, err := a.diff(ctx, state, domain.NewItemIDs(rawIDs))
	if err != nil {
		return err
	}
	a.report().Statuses(statuses)

	outdated := domain.NeedsUpdate(statuses)
	actions := make([]domain.Action, 0, len(outdated))
	var declared []domain.ItemID
	for _, s := range outdated {
		actions = append(actions, domain.UpdateAction(*s.Remote))
		declared = append(declared, s.Remote.Dependencies...)
	}

	newDeps, err := a.newDependencies(ctx, state, declared)
	if err != nil {
		return err
	}
	actions = append(actions, newDeps...)

	if len(actions) == 0 {
		a.logger.Info("Everything is up to date.")
		return nil
	}

	result, err := a.installer.Apply(ctx, state, actions, installer.ApplyOptions{
		Yes:      opts.Yes,
		Settings: settings,
	})
	return a.finish("Updated", result, err)
}

// newDependencies returns install actions for declared ids that are not installed yet.
// Ids the catalog does not know are reported and skipped so the update itself still runs.
func (a *App) newDependencies(
	ctx context.Context,
	state *domain.LocalState,
	declared []domain.ItemID,
) ([]domain.Action, error) {
	var missing []domain.ItemID
	for _, id := range domain.NewItemIDs(idStrings(declared)) {
		if !state.Has(id) {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return nil, nil
	}

	plan, err := a.resolve(ctx, missing, state)
	if err != nil && (plan == nil || !errors.Is(err, domain.ErrCatalogLookup)) {
		return nil, err
	}
	if err != nil {
		a.logger.Warn(err.Error())
	}
	for _, item := range plan.ToInstall() {
		a.logger.Info("New dependency " + item.ID.String() + " " + item.Title)
	}
	return plan.Actions(), nil
}

func (a *App) resolve(ctx context.Context, ids []domain.ItemID, state *domain.LocalState) (*domain.Plan, error) {
	ctx, span := a.tracer.Start(ctx, "resolve", ports.WithAttribute("items", len(ids)))
	defer span.End()

	plan, err := a.resolver.Resolve(ctx, ids, state)
	if err != nil {
		span.RecordError(err)
	}
	return plan, err
}

func (a *App) diff(ctx context.Context, state *domain.LocalState, ids []domain.ItemID) ([]domain.ItemStatus, error) {
	ctx, span := a.tracer.Start(ctx, "diff", ports.WithAttribute("items", len(ids)))
	defer span.End()

	statuses, err := a.synchronizer.Diff(ctx, state, ids)
	if err != nil {
		span.RecordError(err)
	}
	return statuses, err
}

// finish reports a batch result and maps per-item failures to ErrBatchFailed.
func (a *App) finish(verb string, result *domain.Result, err error) error {
	if result != nil {
		a.report().Result(verb, result)
	}
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return zerr.With(zerr.Wrap(domain.ErrBatchFailed, verb+" incomplete"), "failed", len(result.Failed))
	}
	return nil
}

// loadSettings reads the settings and checks that keys are set.
func (a *App) loadSettings(keys ...domain.SettingKey) (domain.Settings, error) {
	settings, err := a.settings.Load()
	if err != nil {
		return domain.Settings{}, err
	}
	if err := settings.Require(keys...); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

func (a *App) report() *report.Report {
	return report.New(a.out)
}

func idStrings(ids []domain.ItemID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
