// Package prompt asks the user to approve a batch before anything is changed.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.trai.ch/wsm/internal/core/domain"
	"go.trai.ch/wsm/internal/core/ports"
	"golang.org/x/term"
)

var _ ports.Confirmer = (*Confirmer)(nil)

// Confirmer implements ports.Confirmer on a terminal.
type Confirmer struct {
	in          io.Reader
	out         io.Writer
	interactive func() bool
}

// New creates a Confirmer reading answers from in and writing prompts to out.
// Prompts are refused unless in is a terminal and CI is not set.
func New(in *os.File, out io.Writer) *Confirmer {
	return &Confirmer{
		in:  in,
		out: out,
		interactive: func() bool {
			return term.IsTerminal(int(in.Fd())) && !isCI() //nolint:gosec // fd fits in int
		},
	}
}

// NewWithReader creates a Confirmer that always treats in as interactive.
func NewWithReader(in io.Reader, out io.Writer) *Confirmer {
	return &Confirmer{in: in, out: out, interactive: func() bool { return true }}
}

// Confirm lists ids and asks question until it gets a yes or no answer.
// An empty answer means yes. End of input means no.
func (c *Confirmer) Confirm(ctx context.Context, question string, ids []domain.ItemID) (bool, error) {
	if !c.interactive() {
		return false, domain.ErrConfirmationRequired
	}

	if len(ids) > 0 {
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = id.String()
		}
		_, _ = fmt.Fprintf(c.out, "\n%d item(s): %s\n", len(ids), strings.Join(parts, " "))
	}

	answers := make(chan string, 1)
	errs := make(chan error, 1)
	reader := bufio.NewReader(c.in)

	for {
		_, _ = fmt.Fprintf(c.out, "%s [Y/n]: ", question)

		go func() {
			line, err := reader.ReadString('\n')
			if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
				errs <- err
				return
			}
			answers <- line
		}()

		select {
		case <-ctx.Done():
			_, _ = fmt.Fprintln(c.out)
			return false, ctx.Err()
		case err := <-errs:
			_, _ = fmt.Fprintln(c.out)
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, err
		case line := <-answers:
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "", "y", "yes":
				return true, nil
			case "n", "no":
				return false, nil
			}
		}
	}
}

func isCI() bool {
	ci := os.Getenv("CI")
	return ci == "true" || ci == "1"
}
