// export_test.go exports private functions for white-box testing.
package prompt

import "io"

// NewNonInteractive creates a Confirmer that behaves as if stdin is not a terminal.
func NewNonInteractive(in io.Reader, out io.Writer) *Confirmer {
	return &Confirmer{in: in, out: out, interactive: func() bool { return false }}
}
