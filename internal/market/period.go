package market

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PeriodStart returns the beginning of a look-back period ending at end.
// Periods are "Nd", "Nwk", "Nmo", "Ny", "ytd" or "max".
func PeriodStart(end time.Time, period string) (time.Time, error) {
	p := strings.ToLower(strings.TrimSpace(period))
	switch p {
	case "max":
		return time.Unix(0, 0).UTC(), nil
	case "ytd":
		return time.Date(end.Year(), 1, 1, 0, 0, 0, 0, end.Location()), nil
	}

	i := strings.IndexFunc(p, func(r rune) bool { return r < '0' || r > '9' })
	if i <= 0 {
		return time.Time{}, fmt.Errorf("invalid period %q", period)
	}
	n, err := strconv.Atoi(p[:i])
	if err != nil || n < 1 {
		return time.Time{}, fmt.Errorf("invalid period %q", period)
	}
	switch p[i:] {
	case "d":
		return end.AddDate(0, 0, -n), nil
	case "wk":
		return end.AddDate(0, 0, -7*n), nil
	case "mo":
		return end.AddDate(0, -n, 0), nil
	case "y":
		return end.AddDate(-n, 0, 0), nil
	}
	return time.Time{}, fmt.Errorf("invalid period unit in %q", period)
}
