package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/wsm/internal/ui/output"
	"go.trai.ch/wsm/internal/ui/style"
)

// band is the prefix and colour used for records at or above min.
type band struct {
	min    slog.Level
	prefix string
	color  lipgloss.Color
}

// bands is ordered from most to least severe. Anything below the last band
// is rendered like it.
var bands = []band{
	{min: slog.LevelError, prefix: style.Cross + " ", color: style.Red},
	{min: slog.LevelWarn, prefix: style.Warning + " ", color: style.Yellow},
	{min: slog.LevelInfo, prefix: "", color: style.Slate},
	{min: slog.LevelDebug, prefix: "  ", color: style.Muted},
}

func bandFor(level slog.Level) band {
	for _, b := range bands {
		if level >= b.min {
			return b
		}
	}
	return bands[len(bands)-1]
}

// PrettyHandler is a slog.Handler that writes one colored line per record:
// an icon for warnings and errors, the message, then key=value attributes.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	// attrs holds attributes added with WithAttrs, already rendered.
	attrs string
	// groups is the dotted prefix for keys added after WithGroup.
	groups string
}

// NewPrettyHandler creates a new PrettyHandler writing to the provided writer.
// The level is read on every record, so passing a *slog.LevelVar allows
// changing verbosity after construction.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	b := bandFor(r.Level)

	var sb strings.Builder
	sb.WriteString(b.prefix)
	sb.WriteString(r.Message)
	sb.WriteString(h.attrs)
	r.Attrs(func(attr slog.Attr) bool {
		writeAttr(&sb, h.groups, attr)
		return true
	})

	line := h.out.String(sb.String()).Foreground(h.out.Color(string(b.color)))
	_, err := h.out.WriteString(line.String() + "\n")
	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
// They keep the group prefix in effect at the time of the call.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	var sb strings.Builder
	sb.WriteString(h.attrs)
	for _, attr := range attrs {
		writeAttr(&sb, h.groups, attr)
	}

	next := *h
	next.attrs = sb.String()
	return &next
}

// WithGroup returns a new Handler that qualifies later keys with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	next := *h
	next.groups = h.groups + name + "."
	return &next
}

// writeAttr appends " group.key=value". Group attributes are flattened.
func writeAttr(sb *strings.Builder, groups string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}

	if attr.Value.Kind() == slog.KindGroup {
		prefix := groups
		if attr.Key != "" {
			prefix += attr.Key + "."
		}
		for _, a := range attr.Value.Group() {
			writeAttr(sb, prefix, a)
		}
		return
	}

	sb.WriteString(" ")
	sb.WriteString(groups)
	sb.WriteString(attr.Key)
	sb.WriteString("=")
	sb.WriteString(attr.Value.String())
}
