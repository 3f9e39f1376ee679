// Package report renders command results for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/wsm/internal/core/domain"
	"go.trai.ch/wsm/internal/ui/output"
	"go.trai.ch/wsm/internal/ui/style"
)

const labelRule = "=============================="


// Report writes human-readable summaries of plans, items and results.
type Report struct {
	out *termenv.Output
}

// New creates a Report writing to w. Colors are used only when w is a terminal.
func New(w io.Writer) *Report {
	return &Report{out: output.New(w)}
}

// SearchResults prints one row per hit followed by its dependency total.
func (r *Report) SearchResults(query string, hits []domain.SearchHit) {
	if len(hits) == 0 {
		r.line(r.muted(fmt.Sprintf("No workshop items found for %q.", query)))
		return
	}

	r.line(r.heading("Found:"))
	for _, hit := range hits {
		r.line(itemRow(hit.Item.ID, hit.Item.Size, hit.Item.Title))
		if len(hit.Dependencies) == 0 {
			continue
		}
		names := make([]string, len(hit.Dependencies))
		for i, dep := range hit.Dependencies {
			names[i] = displayTitle(dep.ID, dep.Title)
		}
		deps := fmt.Sprintf(" Dependencies: %8.2f MB   %s", megabytes(hit.DependencySize()), strings.Join(names, ", "))
		r.line(r.muted(deps))
	}
}

// Plan prints what an install will do and its summary.
func (r *Report) Plan(plan *domain.Plan) {
	if len(plan.Requested) > 0 {
		r.line(r.heading("Installing:"))
		for _, item := range plan.Requested {
			r.line(itemRow(item.ID, item.Size, item.Title))
		}
	}
	if len(plan.Dependencies) > 0 {
		r.line(r.heading("Installing dependencies:"))
		for _, item := range plan.Dependencies {
			r.line(itemRow(item.ID, item.Size, item.Title))
		}
	}

	r.summaryHeader()
	if n := len(plan.Satisfied); n > 0 {
		r.line(countRow("Existing", n))
	}
	if n := len(plan.Missing); n > 0 {
		r.line(r.colored(fmt.Sprintf("%10s %12d %s", "Not Found", n, joinIDs(plan.Missing)), style.Red))
	}
	r.line(countRow("Install", len(plan.ToInstall())))
	r.line(sizeRow(plan.Size()))
	r.line("")
}

// Info prints the detail block of one item.
// deps holds the metadata of the item's dependencies in catalog order.
func (r *Report) Info(item *domain.Item, deps []domain.Item, installed *domain.InstalledItem) {
	r.line(field("id", item.ID.String()))
	r.line(field("name", item.Title))
	r.line(field("preview", item.PreviewURL))
	r.line(field("size", domain.FormatSize(item.Size)))
	r.line(field("updated", item.Version.String()))

	switch {
	case installed == nil:
		r.line(field("installed", "no"))
	case item.Version.NewerThan(installed.Version):
		r.line(field("installed", installed.Version.String()+" "+r.colored(style.Up+" update available", style.Yellow)))
	default:
		r.line(field("installed", installed.Version.String()))
	}

	r.line(field("require", "["))
	for _, dep := range deps {
		r.line(fmt.Sprintf("%14s %-10s %s,", "", dep.ID, displayTitle(dep.ID, dep.Title)))
	}
	r.line(fmt.Sprintf("%12s  ]", ""))
}

// List prints the installed items and a summary.
func (r *Report) List(entries []domain.InstalledItem) {
	if len(entries) == 0 {
		r.line(r.muted("No workshop items installed."))
		return
	}

	var total int64
	r.line(r.heading("Installed:"))
	for _, entry := range entries {
		r.line(itemRow(entry.ID, entry.Size, entry.Title))
		total += entry.Size
	}

	r.summaryHeader()
	r.line(countRow("Installed", len(entries)))
	r.line(sizeRow(total))
	r.line("")
}

// Statuses prints the synchronizer verdict for each item and a count per status.
func (r *Report) Statuses(statuses []domain.ItemStatus) {
	counts := make(map[domain.SyncStatus]int)
	for _, s := range statuses {
		counts[s.Status]++

		icon, color, detail := style.Check, style.Green, s.CurrentVersion.String()
		switch s.Status {
		case domain.StatusNeedsUpdate:
			icon, color = style.Up, style.Yellow
			detail = s.CurrentVersion.String() + " " + style.Arrow + " " + s.RemoteVersion.String()
		case domain.StatusOrphaned:
			icon, color, detail = style.Warning, style.Red, "no longer in the catalog"
		case domain.StatusUnreachable:
			icon, color, detail = style.Cross, style.Red, "lookup failed"
			if s.Err != nil {
				detail += ": " + firstLine(s.Err.Error())
			}
		case domain.StatusNotInstalled:
			icon, color, detail = style.Minus, style.Muted, "not installed"
		case domain.StatusUpToDate:
		}

		r.line(fmt.Sprintf(" %-*s %s %-12s %s", style.IDWidth, s.ID, r.colored(icon, color), s.Status, detail))
	}

	r.line("")
	r.line(fmt.Sprintf("%d up to date, %d to update, %d orphaned, %d unreachable",
		counts[domain.StatusUpToDate],
		counts[domain.StatusNeedsUpdate],
		counts[domain.StatusOrphaned],
		counts[domain.StatusUnreachable],
	))
}

// Result prints the outcome of an applied batch. verb is the past tense of the action, e.g. "Installed".
func (r *Report) Result(verb string, result *domain.Result) {
	if result == nil {
		return
	}

	if n := len(result.Succeeded); n > 0 {
		r.line(r.colored(fmt.Sprintf("%s %s %d item(s)", style.Check, verb, n), style.Green))
	}
	if n := len(result.Warnings); n > 0 {
		ids := make([]domain.ItemID, n)
		for i, w := range result.Warnings {
			ids[i] = w.ID
		}
		r.line(r.colored(fmt.Sprintf("%s %d warning(s): %s", style.Warning, n, joinIDs(ids)), style.Yellow))
	}
	if n := len(result.Failed); n > 0 {
		r.line(r.colored(fmt.Sprintf("%s %d failed: %s", style.Cross, n, joinIDs(result.FailedIDs())), style.Red))
	}
}

func (r *Report) summaryHeader() {
	r.line("")
	r.line(r.heading("Summary"))
	r.line(labelRule)
}

func (r *Report) heading(s string) string {
	return r.out.String(s).Foreground(r.out.Color(string(style.Steam))).Bold().String()
}

func (r *Report) muted(s string) string {
	return r.colored(s, style.Muted)
}

func (r *Report) colored(s string, c lipgloss.Color) string {
	return r.out.String(s).Foreground(r.out.Color(string(c))).String()
}

func (r *Report) line(s string) {
	_, _ = r.out.WriteString(s + "\n")
}

// itemRow renders the one-line "id  size  title" form.
func itemRow(id domain.ItemID, size int64, title string) string {
	return fmt.Sprintf(" %-*s %*s   %s", style.IDWidth, id, style.SizeWidth, domain.FormatSize(size), title)
}

func countRow(label string, n int) string {
	plural := "s"
	if n == 1 {
		plural = ""
	}
	return fmt.Sprintf("%10s %12d Workshop mod%s", label, n, plural)
}

func sizeRow(bytes int64) string {
	return fmt.Sprintf("%10s %12.2f MB", "Size", megabytes(bytes))
}

func field(label, value string) string {
	return fmt.Sprintf("%12s: %s", label, value)
}

func megabytes(bytes int64) float64 {
	return float64(bytes) / domain.Mebibyte
}

func displayTitle(id domain.ItemID, title string) string {
	if title == "" {
		return "(" + id.String() + " not found)"
	}
	return title
}

func joinIDs(ids []domain.ItemID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
