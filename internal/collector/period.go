package collector

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/newthinker/mercado/internal/core"
)

// PeriodStart resolves a lookback period such as "1y", "6mo", "30d" or "ytd"
// to its start date relative to now.
func PeriodStart(period string, now time.Time) (time.Time, error) {
	p := strings.ToLower(strings.TrimSpace(period))
	if p == "ytd" {
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), nil
	}

	var unit string
	switch {
	case strings.HasSuffix(p, "mo"):
		unit = "mo"
	case strings.HasSuffix(p, "y"):
		unit = "y"
	case strings.HasSuffix(p, "d"):
		unit = "d"
	default:
		return time.Time{}, core.WrapError(core.ErrInvalidRequest, fmt.Errorf("invalid period %q", period))
	}

	n, err := strconv.Atoi(strings.TrimSuffix(p, unit))
	if err != nil || n <= 0 {
		return time.Time{}, core.WrapError(core.ErrInvalidRequest, fmt.Errorf("invalid period %q", period))
	}

	switch unit {
	case "y":
		return now.AddDate(-n, 0, 0), nil
	case "mo":
		return now.AddDate(0, -n, 0), nil
	default:
		return now.AddDate(0, 0, -n), nil
	}
}
