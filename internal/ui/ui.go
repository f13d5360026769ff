// Package ui owns user-facing terminal output: an Out printer for results
// and an Err printer for status/errors, with color handled by termenv.
package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	// Color is one of auto|always|never.
	Color string
}

type ParseError struct {
	msg string
}

func (e *ParseError) Error() string {
	return e.msg
}

type UI struct {
	out *Printer
	err *Printer
}

func New(opts Options) (*UI, error) {
	var outputOpts []termenv.OutputOption
	switch opts.Color {
	case "", "auto":
		// termenv detects the profile from the writer and environment.
	case "always":
		outputOpts = append(outputOpts, termenv.WithProfile(termenv.ANSI))
	case "never":
		outputOpts = append(outputOpts, termenv.WithProfile(termenv.Ascii))
	default:
		return nil, &ParseError{msg: fmt.Sprintf("invalid --color %q (expected auto|always|never)", opts.Color)}
	}

	return &UI{
		out: &Printer{w: opts.Stdout, output: termenv.NewOutput(opts.Stdout, outputOpts...)},
		err: &Printer{w: opts.Stderr, output: termenv.NewOutput(opts.Stderr, outputOpts...)},
	}, nil
}

func (u *UI) Out() *Printer { return u.out }
func (u *UI) Err() *Printer { return u.err }

type Printer struct {
	w      io.Writer
	output *termenv.Output
}

func (p *Printer) Println(msg string) {
	fmt.Fprintln(p.w, msg)
}

func (p *Printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Error prints a red error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.w, p.output.String(msg).Foreground(termenv.ANSIRed).String())
}

type ctxKey struct{}

func WithUI(ctx context.Context, u *UI) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext returns the context's UI, or nil when none was attached.
func FromContext(ctx context.Context) *UI {
	u, _ := ctx.Value(ctxKey{}).(*UI)
	return u
}
