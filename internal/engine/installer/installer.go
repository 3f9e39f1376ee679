// Package installer applies install, remove and update actions to the local state.
package installer

import (
	"context"
	"errors"
	"time"

	"go.trai.ch/wsm/internal/core/domain"
	"go.trai.ch/wsm/internal/core/ports"
	"go.trai.ch/zerr"
)

// ApplyOptions controls a single Apply call.
type ApplyOptions struct {
	// Yes skips the confirmation prompt.
	Yes bool

	// Question is shown by the confirmer. Defaults to "Is this ok".
	Question string

	// Settings locate item files on disk.
	Settings domain.Settings
}

// Installer executes batches of actions through a transport and records the
// outcome in the local state.
type Installer struct {
	transport ports.Transport
	store     ports.StateStore
	confirmer ports.Confirmer
	logger    ports.Logger
	tracer    ports.Tracer
	now       func() time.Time
}

// New creates an Installer.
func New(
	transport ports.Transport,
	store ports.StateStore,
	confirmer ports.Confirmer,
	logger ports.Logger,
	tracer ports.Tracer,
) *Installer {
	return &Installer{
		transport: transport,
		store:     store,
		confirmer: confirmer,
		logger:    logger,
		tracer:    tracer,
		now:       time.Now,
	}
}

// Apply confirms and executes actions against state, then persists state once.
//
// Each action succeeds or fails on its own: a failed install or update leaves
// the item's state entry as it was and the batch continues. A remove always
// drops the state entry, even if the files could not be deleted; the delete
// error is reported as a warning. If the user declines, Apply returns
// domain.ErrAborted and neither state nor disk is touched.
//
// The returned Result is non-nil whenever actions were attempted, including
// when the final save fails or the context is canceled mid-batch.
func (i *Installer) Apply(
	ctx context.Context,
	state *domain.LocalState,
	actions []domain.Action,
	opts ApplyOptions,
) (*domain.Result, error) {
	result := &domain.Result{}
	if len(actions) == 0 {
		return result, nil
	}

	if !opts.Yes {
		question := opts.Question
		if question == "" {
			question = "Is this ok"
		}
		ok, err := i.confirmer.Confirm(ctx, question, domain.ActionIDs(actions))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrAborted
		}
	}

	changed := false
	var runErr error
	for _, action := range actions {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if i.apply(ctx, state, action, opts.Settings, result) {
			changed = true
		}
	}

	if changed {
		if err := i.store.Save(state); err != nil {
			saveErr := zerr.Wrap(err, "failed to record installed items")
			if runErr != nil {
				return result, errors.Join(runErr, saveErr)
			}
			return result, saveErr
		}
	}

	return result, runErr
}

// apply runs one action and reports whether state was modified.
// Removing an item that is not installed is a warning, not a success.
func (i *Installer) apply(
	ctx context.Context,
	state *domain.LocalState,
	action domain.Action,
	settings domain.Settings,
	result *domain.Result,
) bool {
	ctx, span := i.tracer.Start(ctx, string(action.Kind)+" "+action.ID.String(),
		ports.WithAttribute("item.id", action.ID.String()),
	)
	defer span.End()

	var (
		changed bool
		err     error
	)
	switch action.Kind {
	case domain.ActionInstall:
		changed, err = i.install(ctx, state, action, settings)
	case domain.ActionUpdate:
		changed, err = i.update(ctx, state, action, settings)
	case domain.ActionRemove:
		if !i.remove(ctx, state, action, settings, result) {
			return false
		}
		changed = true
	default:
		err = zerr.With(zerr.New("unknown action"), "kind", string(action.Kind))
	}

	if err != nil {
		span.RecordError(err)
		i.logger.Error(zerr.With(err, "id", action.ID.String()))
		result.Failed = append(result.Failed, domain.ItemFailure{ID: action.ID, Kind: action.Kind, Err: err})
		return changed
	}

	result.Succeeded = append(result.Succeeded, action.ID)
	return changed
}

func (i *Installer) install(
	ctx context.Context,
	state *domain.LocalState,
	action domain.Action,
	settings domain.Settings,
) (bool, error) {
	if action.Item == nil {
		return false, zerr.With(zerr.New("install action without item metadata"), "id", action.ID.String())
	}

	i.logger.Info("Installing " + action.ID.String() + " " + action.Item.Title)

	dest := settings.ContentDir(action.ID)
	if err := i.fetch(ctx, action.Item, dest, settings); err != nil {
		return false, err
	}

	state.Put(domain.NewInstalledItem(action.Item, dest, i.now()))
	return true, nil
}

func (i *Installer) update(
	ctx context.Context,
	state *domain.LocalState,
	action domain.Action,
	settings domain.Settings,
) (bool, error) {
	if action.Item == nil {
		return false, zerr.With(zerr.New("update action without item metadata"), "id", action.ID.String())
	}

	i.logger.Info("Updating " + action.ID.String() + " " + action.Item.Title)

	dest := settings.ContentDir(action.ID)
	if entry, ok := state.Get(action.ID); ok && entry.Path != "" {
		dest = entry.Path
	}

	if err := i.transport.Delete(ctx, dest); err != nil {
		i.logger.Warn("could not delete old files of " + action.ID.String() + ": " + err.Error())
	}

	if err := i.fetch(ctx, action.Item, dest, settings); err != nil {
		return false, err
	}

	state.Put(domain.NewInstalledItem(action.Item, dest, i.now()))
	return true, nil
}

func (i *Installer) remove(
	ctx context.Context,
	state *domain.LocalState,
	action domain.Action,
	settings domain.Settings,
	result *domain.Result,
) bool {
	entry, ok := state.Get(action.ID)
	if !ok {
		i.logger.Warn(action.ID.String() + " is not installed")
		result.Warnings = append(result.Warnings, domain.ItemFailure{
			ID:   action.ID,
			Kind: domain.ActionRemove,
			Err:  zerr.With(zerr.New("not installed"), "id", action.ID.String()),
		})
		return false
	}

	i.logger.Info("Removing " + action.ID.String() + " " + entry.Title)

	path := entry.Path
	if path == "" {
		path = settings.ContentDir(action.ID)
	}

	if err := i.transport.Delete(ctx, path); err != nil {
		err = transportError(err)
		i.logger.Warn("could not delete files of " + action.ID.String() + ": " + err.Error())
		result.Warnings = append(result.Warnings, domain.ItemFailure{
			ID:   action.ID,
			Kind: domain.ActionRemove,
			Err:  err,
		})
	}

	state.Delete(action.ID)
	return true
}

func (i *Installer) fetch(ctx context.Context, item *domain.Item, dest string, settings domain.Settings) error {
	err := i.transport.Fetch(ctx, ports.FetchRequest{
		ID:       item.ID,
		Version:  item.Version,
		Dest:     dest,
		Settings: settings,
	})
	if err != nil {
		return transportError(err)
	}
	return nil
}

func transportError(err error) error {
	if errors.Is(err, domain.ErrTransport) {
		return err
	}
	return zerr.Wrap(domain.ErrTransport, err.Error())
}
