package penalty

import (
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Field   string
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

func deny(field, reason string) GuardResult {
	return GuardResult{Allowed: false, Field: field, Reason: reason}
}

// WriteContext carries pre-fetched facts for create and update guards.
type WriteContext struct {
	Data         Data
	Target       Target
	HasTarget    bool // false on updates that keep the current target
	RaceExists   bool
	TargetExists bool
}

// CanWrite evaluates whether a penalty may be created or updated.
// Rules:
// - Race id must be given and the race must exist
// - Date must be a YYYY-MM-DD date; time, when given, HH:MM
// - Kind must not be blank
// - A given target must name an existing competitor or team
func CanWrite(ctx WriteContext) GuardResult {
	if strings.TrimSpace(ctx.Data.RaceID) == "" {
		return deny("race_id", "race is required")
	}
	if !ctx.RaceExists {
		return deny("race_id", fmt.Sprintf("race %s not found", ctx.Data.RaceID))
	}

	if strings.TrimSpace(ctx.Data.Date) == "" {
		return deny("date", "date is required")
	}
	if _, err := time.Parse(dateLayout, ctx.Data.Date); err != nil {
		return deny("date", fmt.Sprintf("date %q is not YYYY-MM-DD", ctx.Data.Date))
	}
	if ctx.Data.Time != "" {
		if _, err := time.Parse(timeLayout, ctx.Data.Time); err != nil {
			return deny("time", fmt.Sprintf("time %q is not HH:MM", ctx.Data.Time))
		}
	}

	if strings.TrimSpace(ctx.Data.Kind) == "" {
		return deny("kind", "kind is required")
	}

	if !ctx.HasTarget {
		return GuardResult{Allowed: true}
	}
	if ctx.Target.IsZero() {
		return deny("target", "a competitor or team target is required")
	}
	if !ctx.TargetExists {
		return deny("target", fmt.Sprintf("%s %s not found", ctx.Target.Kind(), ctx.Target.ID()))
	}

	return GuardResult{Allowed: true}
}
