package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/paddock/internal/apperrors"
	"github.com/example/paddock/internal/core/roster"
)

var (
	okMark    = color.New(color.FgGreen).Sprint("✓")
	warnColor = color.New(color.FgYellow)
	dimColor  = color.New(color.Faint)
)

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// swatch renders a block in the team's brand color, or a blank when the
// color is unset or malformed.
func swatch(hex string) string {
	r, g, b, ok := roster.ParseColor(hex)
	if !ok {
		return " "
	}
	return color.RGB(int(r), int(g), int(b)).Sprint("■")
}

// position highlights the podium.
func position(pos int) string {
	switch pos {
	case 1:
		return color.New(color.FgHiYellow, color.Bold).Sprint(pos)
	case 2, 3:
		return color.New(color.Bold).Sprint(pos)
	}
	return fmt.Sprint(pos)
}

func points(p float64) string {
	return fmt.Sprintf("%g", p)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// DescribeError turns a service error into a one-line message for the terminal.
func DescribeError(err error) string {
	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		return fmt.Sprintf("invalid %s", verr.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		return err.Error()
	case errors.Is(err, apperrors.ErrConflict):
		return "already exists: " + err.Error()
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return "store unavailable, check the database and retry: " + err.Error()
	}
	return err.Error()
}
