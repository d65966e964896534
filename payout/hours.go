package payout

import "context"

// AggregateHoursForPeriod sums worked hours over a period's boundaries.
// Thin pass-through to the event store collaborator.
func AggregateHoursForPeriod(ctx context.Context, events EventStore, calendarID string, period Period, onlyCompleted bool) (float64, error) {
	return events.CalculateWorkHours(ctx, calendarID, period.Start, period.End, onlyCompleted)
}
