// Package outfmt selects the output mode (text, JSON, or plain TSV) and
// carries it through the command context.
package outfmt

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
)

// EnvVar pre-selects an output mode without flags (values: json|plain|text).
const EnvVar = "SHEETS_OUTPUT"

type Mode struct {
	JSON  bool
	Plain bool
}

type ParseError struct {
	msg string
}

func (e *ParseError) Error() string {
	return e.msg
}

type ctxKey struct{}

func FromEnv() Mode {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvVar))) {
	case "json":
		return Mode{JSON: true}
	case "plain":
		return Mode{Plain: true}
	default:
		return Mode{}
	}
}

func FromFlags(jsonFlag, plainFlag bool) (Mode, error) {
	if jsonFlag && plainFlag {
		return Mode{}, &ParseError{msg: "--json and --plain are mutually exclusive"}
	}
	return Mode{JSON: jsonFlag, Plain: plainFlag}, nil
}

func WithMode(ctx context.Context, m Mode) context.Context {
	return context.WithValue(ctx, ctxKey{}, m)
}

func modeFrom(ctx context.Context) Mode {
	if m, ok := ctx.Value(ctxKey{}).(Mode); ok {
		return m
	}
	return Mode{}
}

func IsJSON(ctx context.Context) bool {
	return modeFrom(ctx).JSON
}

func IsPlain(ctx context.Context) bool {
	return modeFrom(ctx).Plain
}

func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
