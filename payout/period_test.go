package payout

import (
	"testing"
	"time"
)

// =============================================================================
// PERIOD KEY ENCODING TESTS
// =============================================================================

func TestPeriodKey_ISOWeek_FirstWeekOfYear(t *testing.T) {
	// GIVEN: 2025-01-01, a Wednesday in the ISO week containing the year's
	// first Thursday
	// THEN: it belongs to ISO week 1 of 2025

	key := PeriodKey(FrequencyWeekly, NewTimePoint(2025, time.January, 1))
	if key != "2025-W01" {
		t.Errorf("expected 2025-W01, got %s", key)
	}
}

func TestPeriodKey_ISOWeek_YearBoundary(t *testing.T) {
	// 2024-12-30 (Monday) is already in ISO week 1 of 2025
	key := PeriodKey(FrequencyWeekly, NewTimePoint(2024, time.December, 30))
	if key != "2025-W01" {
		t.Errorf("expected 2025-W01, got %s", key)
	}
}

func TestPeriodKey_Biweekly_FebruarySplit(t *testing.T) {
	// GIVEN: February 2025 (28 days)
	// THEN: day 15 -> Q1, day 16 -> Q2, day 28 -> Q2

	cases := []struct {
		day  int
		want string
	}{
		{15, "2025-02-Q1"},
		{16, "2025-02-Q2"},
		{28, "2025-02-Q2"},
	}
	for _, c := range cases {
		key := PeriodKey(FrequencyBiweekly, NewTimePoint(2025, time.February, c.day))
		if key != c.want {
			t.Errorf("day %d: expected %s, got %s", c.day, c.want, key)
		}
	}
}

func TestPeriodKey_MonthlyAndDaily(t *testing.T) {
	date := NewTimePoint(2025, time.October, 20)
	if key := PeriodKey(FrequencyMonthly, date); key != "2025-10" {
		t.Errorf("monthly: expected 2025-10, got %s", key)
	}
	if key := PeriodKey(FrequencyDaily, date); key != "2025-10-20" {
		t.Errorf("daily: expected 2025-10-20, got %s", key)
	}
}

// =============================================================================
// PERIOD BOUNDARY TESTS
// =============================================================================

func TestPeriodFor_CurrentContainsReference(t *testing.T) {
	// For every frequency and a spread of reference dates, the computed
	// period must contain the reference date with start <= end.

	frequencies := []PaymentFrequency{FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly}
	dates := []TimePoint{
		NewTimePoint(2025, time.January, 1),
		NewTimePoint(2025, time.February, 28),
		NewTimePoint(2025, time.June, 15),
		NewTimePoint(2025, time.June, 16),
		NewTimePoint(2025, time.December, 31),
		NewTimePoint(2024, time.February, 29), // leap day
	}

	for _, freq := range frequencies {
		for _, date := range dates {
			p := PeriodFor(freq, nil, date)
			if p.Start.After(p.End) {
				t.Errorf("%s at %s: start %s after end %s", freq, date, p.Start, p.End)
			}
			if !p.Contains(date) {
				t.Errorf("%s at %s: period %s does not contain reference", freq, date, p)
			}
		}
	}
}

func TestPeriodFor_NextIsContiguous(t *testing.T) {
	frequencies := []PaymentFrequency{FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly}
	date := NewTimePoint(2025, time.March, 10)

	for _, freq := range frequencies {
		current := PeriodFor(freq, nil, date)
		next := PeriodFor(freq, nil, current.End.AddDays(1))
		if !next.Start.Equal(current.End.AddDays(1)) {
			t.Errorf("%s: next period starts %s, expected %s", freq, next.Start, current.End.AddDays(1))
		}
		if next.Key == current.Key {
			t.Errorf("%s: next period shares key %s with current", freq, next.Key)
		}
	}
}

func TestPeriodFor_WeeklyBoundaries(t *testing.T) {
	// 2025-10-20 is a Monday, start of ISO week 43
	p := PeriodFor(FrequencyWeekly, nil, NewTimePoint(2025, time.October, 22))
	if p.Key != "2025-W43" {
		t.Errorf("expected key 2025-W43, got %s", p.Key)
	}
	if p.Start.String() != "2025-10-20" || p.End.String() != "2025-10-26" {
		t.Errorf("expected [2025-10-20, 2025-10-26], got [%s, %s]", p.Start, p.End)
	}
}

func TestMonthlyPeriod_PaymentDayCutoff(t *testing.T) {
	// GIVEN: monthly frequency with cutoff day 15
	// THEN: periods run from the 16th to the next month's 15th, keyed by
	// the month of the period's end

	day := 15

	before := PeriodFor(FrequencyMonthly, &day, NewTimePoint(2025, time.March, 10))
	if before.Start.String() != "2025-02-16" || before.End.String() != "2025-03-15" {
		t.Errorf("on/before cutoff: got [%s, %s]", before.Start, before.End)
	}
	if before.Key != "2025-03" {
		t.Errorf("on/before cutoff: expected key 2025-03, got %s", before.Key)
	}

	after := PeriodFor(FrequencyMonthly, &day, NewTimePoint(2025, time.March, 20))
	if after.Start.String() != "2025-03-16" || after.End.String() != "2025-04-15" {
		t.Errorf("after cutoff: got [%s, %s]", after.Start, after.End)
	}
	if after.Key != "2025-04" {
		t.Errorf("after cutoff: expected key 2025-04, got %s", after.Key)
	}
}

func TestMonthlyPeriod_PaymentDayClampedToShortMonth(t *testing.T) {
	// Cutoff 31 in February clamps to the 28th; periods stay contiguous
	day := 31

	feb := PeriodFor(FrequencyMonthly, &day, NewTimePoint(2025, time.February, 10))
	if feb.End.String() != "2025-02-28" {
		t.Errorf("expected end 2025-02-28, got %s", feb.End)
	}

	march := PeriodFor(FrequencyMonthly, &day, feb.End.AddDays(1))
	if !march.Start.Equal(feb.End.AddDays(1)) {
		t.Errorf("expected contiguous start %s, got %s", feb.End.AddDays(1), march.Start)
	}
}

// =============================================================================
// PERIOD CONTEXT TESTS
// =============================================================================

func TestBuildPeriodContext_MissingConfig(t *testing.T) {
	if ctx := BuildPeriodContext(nil, NewTimePoint(2025, time.January, 1), false); ctx != nil {
		t.Error("expected nil context without payout details")
	}
	details := &PayoutDetails{PaymentType: "fortnightly"}
	if ctx := BuildPeriodContext(details, NewTimePoint(2025, time.January, 1), false); ctx != nil {
		t.Error("expected nil context for unknown frequency")
	}
}

func TestBuildPeriodContext_CurrentContainsReference(t *testing.T) {
	// Without allowFutureStart, start <= referenceDate <= end must hold for
	// every supported frequency.

	ref := NewTimePoint(2025, time.July, 4)
	for _, freq := range []PaymentFrequency{FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly} {
		ctx := BuildPeriodContext(&PayoutDetails{PaymentType: freq}, ref, false)
		if ctx == nil {
			t.Fatalf("%s: expected context", freq)
		}
		if !ctx.Current.Contains(ref) {
			t.Errorf("%s: current %s does not contain %s", freq, ctx.Current, ref)
		}
	}
}

func TestBuildPeriodContext_IntervalAndNextCycle(t *testing.T) {
	ctx := BuildPeriodContext(&PayoutDetails{PaymentType: FrequencyMonthly}, NewTimePoint(2025, time.January, 15), false)
	if ctx.IntervalDays != 31 {
		t.Errorf("expected 31 interval days for January, got %d", ctx.IntervalDays)
	}
	if ctx.NextCycleStart.String() != "2025-02-01" || ctx.NextCycleEnd.String() != "2025-02-28" {
		t.Errorf("expected next cycle [2025-02-01, 2025-02-28], got [%s, %s]",
			ctx.NextCycleStart, ctx.NextCycleEnd)
	}
	if ctx.Next.Key != "2025-02" {
		t.Errorf("expected next key 2025-02, got %s", ctx.Next.Key)
	}
}
