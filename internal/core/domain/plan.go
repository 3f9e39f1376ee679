package domain

// Plan is the outcome of dependency resolution for one install invocation.
// Requested, Dependencies and Satisfied are disjoint.
type Plan struct {
	// Requested holds items the user asked for that are not installed yet.
	Requested []Item

	// Dependencies holds items pulled in only because something in the plan requires them.
	Dependencies []Item

	// Satisfied holds requested ids that are already installed.
	Satisfied []ItemID

	// Missing holds ids (requested or transitive) the catalog does not know.
	Missing []ItemID
}

// ToInstall returns the requested items followed by the dependency items.
func (p *Plan) ToInstall() []Item {
	items := make([]Item, 0, len(p.Requested)+len(p.Dependencies))
	items = append(items, p.Requested...)
	return append(items, p.Dependencies...)
}

// IsEmpty reports whether the plan has nothing to install.
func (p *Plan) IsEmpty() bool {
	return len(p.Requested) == 0 && len(p.Dependencies) == 0
}

// Size is the total download size of everything to install.
func (p *Plan) Size() int64 {
	var total int64
	for _, item := range p.ToInstall() {
		total += item.Size
	}
	return total
}

// Actions converts the plan into install actions.
func (p *Plan) Actions() []Action {
	items := p.ToInstall()
	actions := make([]Action, 0, len(items))
	for i := range items {
		actions = append(actions, InstallAction(items[i]))
	}
	return actions
}

// ActionKind selects what the installer does with an item.
type ActionKind string

const (
	// ActionInstall fetches an item and records it.
	ActionInstall ActionKind = "install"
	// ActionRemove deletes an item's files and forgets it.
	ActionRemove ActionKind = "remove"
	// ActionUpdate replaces an installed item with a newer revision.
	ActionUpdate ActionKind = "update"
)

// Action is a single unit of work for the installer.
type Action struct {
	Kind ActionKind
	ID   ItemID
	// Item carries the catalog metadata for install and update actions.
	Item *Item
}

// InstallAction creates an install action for item.
func InstallAction(item Item) Action {
	return Action{Kind: ActionInstall, ID: item.ID, Item: &item}
}

// UpdateAction creates an update action for item.
func UpdateAction(item Item) Action {
	return Action{Kind: ActionUpdate, ID: item.ID, Item: &item}
}

// RemoveAction creates a remove action for id.
func RemoveAction(id ItemID) Action {
	return Action{Kind: ActionRemove, ID: id}
}

// ActionIDs returns the ids touched by actions, in order.
func ActionIDs(actions []Action) []ItemID {
	ids := make([]ItemID, len(actions))
	for i, a := range actions {
		ids[i] = a.ID
	}
	return ids
}

// ItemFailure records an action that did not complete.
type ItemFailure struct {
	ID   ItemID
	Kind ActionKind
	Err  error
}

// Result summarises an applied batch.
type Result struct {
	// Succeeded lists ids whose action completed, in action order.
	Succeeded []ItemID

	// Failed lists actions that left the item's state entry unchanged.
	Failed []ItemFailure

	// Warnings lists non-fatal problems, such as files that could not be deleted
	// for an item that was nevertheless removed from the state.
	Warnings []ItemFailure
}

// HasFailures reports whether any action failed.
func (r *Result) HasFailures() bool {
	return len(r.Failed) > 0
}

// FailedIDs returns the ids of failed actions.
func (r *Result) FailedIDs() []ItemID {
	ids := make([]ItemID, len(r.Failed))
	for i, f := range r.Failed {
		ids[i] = f.ID
	}
	return ids
}

// SyncStatus classifies an installed item against the catalog.
type SyncStatus string

const (
	// StatusUpToDate means the installed revision matches the catalog.
	StatusUpToDate SyncStatus = "up-to-date"
	// StatusNeedsUpdate means the catalog has a newer revision.
	StatusNeedsUpdate SyncStatus = "needs-update"
	// StatusOrphaned means the catalog no longer knows the item.
	StatusOrphaned SyncStatus = "orphaned"
	// StatusUnreachable means the catalog lookup failed for another reason.
	StatusUnreachable SyncStatus = "unreachable"
	// StatusNotInstalled means the id was asked for but is not installed.
	StatusNotInstalled SyncStatus = "not-installed"
)

// ItemStatus is the synchronizer's verdict for one id.
type ItemStatus struct {
	ID             ItemID
	Status         SyncStatus
	CurrentVersion Version
	RemoteVersion  Version
	// Remote is the catalog metadata when the lookup succeeded.
	Remote *Item
	// Err is set for unreachable items.
	Err error
}

// NeedsUpdate filters statuses down to the ones with a newer remote revision.
func NeedsUpdate(statuses []ItemStatus) []ItemStatus {
	var out []ItemStatus
	for _, s := range statuses {
		if s.Status == StatusNeedsUpdate {
			out = append(out, s)
		}
	}
	return out
}
