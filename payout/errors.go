/*
errors.go - Centralized error types for the payout engine

ERROR CATEGORIES:
  1. NotFound        - calendar absent: read paths return nil, never an error;
                       write paths return ErrNoSuchCalendar because they have
                       nothing else to return
  2. Validation      - malformed input rejected at the API boundary
  3. Store errors    - propagate unwrapped from the CalendarStore; no retries
                       anywhere in this package

USAGE:
  if errors.Is(err, payout.ErrNoSuchCalendar) { ... }
*/
package payout

import "errors"

var (
	// ErrNoSuchCalendar is returned by store write operations targeting a
	// calendar that does not exist.
	ErrNoSuchCalendar = errors.New("no such calendar")

	// ErrCalendarExists is returned when creating a calendar whose ID is taken.
	ErrCalendarExists = errors.New("calendar already exists")

	// ErrInvalidFrequency is returned when a payment frequency is not one of
	// daily, weekly, biweekly, monthly.
	ErrInvalidFrequency = errors.New("invalid payment frequency")

	// ErrInvalidDate is returned when an ISO date string cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")
)

// IsNotFound reports whether the error indicates a missing calendar.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoSuchCalendar)
}
