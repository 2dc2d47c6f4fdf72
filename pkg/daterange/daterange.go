// Package daterange resolves relative and absolute date expressions into
// concrete UTC timestamps bounding an extraction window.
//
// Accepted forms:
//   - "today" or "0": now minus 30 minutes
//   - a negative integer such as "-7": start of today (UTC) minus N days
//   - "YYYY-MM-DD": midnight UTC of that date
package daterange

import (
	"strconv"
	"strings"
	"time"

	"github.com/ajitpratap0/daktela-extract/pkg/errors"
)

const dateLayout = "2006-01-02"

// Resolve turns a date expression into a UTC timestamp. It is deterministic
// given a fixed now and has no side effects.
func Resolve(expr string, now time.Time) (time.Time, error) {
	expr = strings.TrimSpace(expr)
	now = now.UTC()

	if strings.EqualFold(expr, "today") || expr == "0" {
		return now.Add(-30 * time.Minute), nil
	}

	if strings.HasPrefix(expr, "-") {
		days, err := strconv.Atoi(expr)
		if err == nil {
			startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
			return startOfDay.AddDate(0, 0, days), nil
		}
	}

	if t, err := time.Parse(dateLayout, expr); err == nil {
		return t.UTC(), nil
	}

	return time.Time{}, errors.Newf(errors.ErrorTypeValidation,
		"invalid date expression %q: expected 'today', '0', a negative integer (e.g. '-7'), or 'YYYY-MM-DD'", expr)
}

// Window resolves both bounds of a [from, to) extraction window and
// enforces from < to.
func Window(fromExpr, toExpr string, now time.Time) (from, to time.Time, err error) {
	from, err = Resolve(fromExpr, now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	to, err = Resolve(toExpr, now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if !from.Before(to) {
		return time.Time{}, time.Time{}, errors.Newf(errors.ErrorTypeValidation,
			"invalid date range: start date (%s) must be before end date (%s)",
			from.Format(dateLayout), to.Format(dateLayout))
	}

	return from, to, nil
}
