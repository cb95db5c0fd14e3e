package quota

import "time"

// Action defines behavior when a user's search quota is exhausted.
type Action string

const (
	// ActionReject blocks the search.
	ActionReject Action = "reject"
	// ActionWarn logs a warning but allows the search.
	ActionWarn Action = "warn"
)

// IsValid reports whether a is a known action.
func (a Action) IsValid() bool { return a == ActionReject || a == ActionWarn }

// Window is a counting period.
type Window string

// Counting windows.
const (
	WindowDaily   Window = "daily"
	WindowMonthly Window = "monthly"
)

// Stamp formats t as the window's bucket label (UTC).
func (w Window) Stamp(t time.Time) string {
	if w == WindowDaily {
		return t.UTC().Format("2006-01-02")
	}
	return t.UTC().Format("2006-01")
}

// Status is a point-in-time view of one user's counters. A zero limit means unlimited.
type Status struct {
	Premium      bool
	DailyUsed    int64
	DailyLimit   int64
	MonthlyUsed  int64
	MonthlyLimit int64
}

// RemainingDaily returns searches left today (-1 if unlimited).
func (s Status) RemainingDaily() int64 {
	return remaining(s.Premium, s.DailyLimit, s.DailyUsed)
}

// RemainingMonthly returns searches left this month (-1 if unlimited).
func (s Status) RemainingMonthly() int64 {
	return remaining(s.Premium, s.MonthlyLimit, s.MonthlyUsed)
}

// DailyExceeded reports whether the daily cap is reached.
func (s Status) DailyExceeded() bool {
	return !s.Premium && s.DailyLimit > 0 && s.DailyUsed >= s.DailyLimit
}

// MonthlyExceeded reports whether the monthly cap is reached.
func (s Status) MonthlyExceeded() bool {
	return !s.Premium && s.MonthlyLimit > 0 && s.MonthlyUsed >= s.MonthlyLimit
}

// Decide turns the status into a Decision at time now.
// The reported window is the exceeded one; daily wins over monthly.
// When nothing is exceeded the monthly window is reported if capped, else the daily one.
func (s Status) Decide(now time.Time) Decision {
	d := Decision{Premium: s.Premium, Remaining: -1}
	if s.Premium {
		d.Allowed = true
		d.Used = s.MonthlyUsed
		return d
	}

	switch {
	case s.DailyExceeded():
		d.fill(s.DailyUsed, s.DailyLimit, NextDay(now))
	case s.MonthlyExceeded():
		d.fill(s.MonthlyUsed, s.MonthlyLimit, NextMonth(now))
	case s.MonthlyLimit > 0:
		d.fill(s.MonthlyUsed, s.MonthlyLimit, NextMonth(now))
	case s.DailyLimit > 0:
		d.fill(s.DailyUsed, s.DailyLimit, NextDay(now))
	default:
		d.Used = s.MonthlyUsed
	}
	d.Allowed = !s.DailyExceeded() && !s.MonthlyExceeded()
	return d
}

// Decision is the outcome of a quota check.
type Decision struct {
	Allowed   bool
	Premium   bool
	Used      int64
	Limit     int64 // 0 = unlimited
	Remaining int64 // -1 = unlimited
	ResetsAt  int64 // unix millis, 0 when no window applies
}

func (d *Decision) fill(used, limit int64, resetsAt time.Time) {
	d.Used = used
	d.Limit = limit
	d.Remaining = max(limit-used, 0)
	d.ResetsAt = resetsAt.UnixMilli()
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfMonth truncates t to the first day of its month, UTC.
func StartOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NextDay returns the next midnight UTC after t.
func NextDay(t time.Time) time.Time { return StartOfDay(t).AddDate(0, 0, 1) }

// NextMonth returns the first day of the month after t, UTC.
func NextMonth(t time.Time) time.Time { return StartOfMonth(t).AddDate(0, 1, 0) }

func remaining(premium bool, limit, used int64) int64 {
	if premium || limit == 0 {
		return -1
	}
	return max(limit-used, 0)
}
