package quota

import (
	"testing"
	"time"
)

var now = time.Date(2026, time.March, 14, 15, 4, 5, 0, time.UTC)

func TestStatus_Remaining(t *testing.T) {
	tests := []struct {
		name        string
		s           Status
		wantDaily   int64
		wantMonthly int64
	}{
		{"unlimited", Status{DailyUsed: 3, MonthlyUsed: 3}, -1, -1},
		{"monthly cap", Status{MonthlyUsed: 10, MonthlyLimit: 15}, -1, 5},
		{"over cap clamps to zero", Status{DailyUsed: 9, DailyLimit: 5}, 0, -1},
		{"premium ignores caps", Status{Premium: true, DailyLimit: 1, MonthlyLimit: 1, MonthlyUsed: 20}, -1, -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.s.RemainingDaily(); got != tc.wantDaily {
				t.Errorf("RemainingDaily() = %d, want %d", got, tc.wantDaily)
			}
			if got := tc.s.RemainingMonthly(); got != tc.wantMonthly {
				t.Errorf("RemainingMonthly() = %d, want %d", got, tc.wantMonthly)
			}
		})
	}
}

func TestStatus_Decide_UnderMonthlyCap(t *testing.T) {
	d := Status{MonthlyUsed: 14, MonthlyLimit: 15}.Decide(now)

	if !d.Allowed {
		t.Fatal("expected allowed")
	}
	if d.Used != 14 || d.Limit != 15 || d.Remaining != 1 {
		t.Errorf("decision = %+v", d)
	}
	want := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	if d.ResetsAt != want {
		t.Errorf("ResetsAt = %d, want %d", d.ResetsAt, want)
	}
}

func TestStatus_Decide_MonthlyExhausted(t *testing.T) {
	d := Status{MonthlyUsed: 15, MonthlyLimit: 15}.Decide(now)

	if d.Allowed {
		t.Fatal("expected denied")
	}
	if d.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", d.Remaining)
	}
}

func TestStatus_Decide_DailyWinsOverMonthly(t *testing.T) {
	d := Status{DailyUsed: 5, DailyLimit: 5, MonthlyUsed: 15, MonthlyLimit: 15}.Decide(now)

	if d.Allowed {
		t.Fatal("expected denied")
	}
	if d.Limit != 5 {
		t.Errorf("Limit = %d, want daily limit 5", d.Limit)
	}
	want := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC).UnixMilli()
	if d.ResetsAt != want {
		t.Errorf("ResetsAt = %d, want %d", d.ResetsAt, want)
	}
}

func TestStatus_Decide_Premium(t *testing.T) {
	d := Status{Premium: true, MonthlyUsed: 100, MonthlyLimit: 15}.Decide(now)

	if !d.Allowed || !d.Premium {
		t.Fatalf("decision = %+v", d)
	}
	if d.Remaining != -1 || d.Limit != 0 {
		t.Errorf("premium should be unlimited, got %+v", d)
	}
}

func TestStatus_Decide_Unlimited(t *testing.T) {
	d := Status{MonthlyUsed: 3}.Decide(now)
	if !d.Allowed || d.Remaining != -1 || d.ResetsAt != 0 {
		t.Errorf("decision = %+v", d)
	}
}

func TestAction_IsValid(t *testing.T) {
	if !ActionReject.IsValid() || !ActionWarn.IsValid() {
		t.Error("known actions should be valid")
	}
	if Action("drop").IsValid() {
		t.Error("unknown action should be invalid")
	}
}

func TestWindowBoundaries_December(t *testing.T) {
	dec := time.Date(2026, time.December, 31, 23, 59, 0, 0, time.UTC)
	if got := NextMonth(dec); !got.Equal(time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("NextMonth = %v", got)
	}
	if got := NextDay(dec); !got.Equal(time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("NextDay = %v", got)
	}
}

func TestWindow_Stamp(t *testing.T) {
	if got := WindowDaily.Stamp(now); got != "2026-03-14" {
		t.Errorf("daily stamp = %q", got)
	}
	if got := WindowMonthly.Stamp(now); got != "2026-03" {
		t.Errorf("monthly stamp = %q", got)
	}
}
