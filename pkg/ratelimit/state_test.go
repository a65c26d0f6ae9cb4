package ratelimit

import (
	"testing"
	"time"
)

func TestQuotaState_NeedsCriticalBlock(t *testing.T) {
	future := time.Now().Add(30 * time.Minute)

	tests := []struct {
		name      string
		remaining int
		reset     time.Time
		want      bool
	}{
		{"quota exhausted", 0, future, true},
		{"one left", 1, future, true},
		{"at critical threshold", ThresholdCritical, future, false},
		{"healthy", 30, future, false},
		{"unknown quota", -1, future, false},
		{"window rolled over", 0, time.Now().Add(-1 * time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &QuotaState{Remaining: tt.remaining, WindowReset: tt.reset}
			if got := state.NeedsCriticalBlock(); got != tt.want {
				t.Errorf("NeedsCriticalBlock() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuotaState_NeedsThrottling(t *testing.T) {
	future := time.Now().Add(30 * time.Minute)

	tests := []struct {
		name      string
		remaining int
		want      bool
	}{
		{"below warning", ThresholdWarning - 1, true},
		{"at warning threshold", ThresholdWarning, false},
		{"critical takes precedence", 0, false},
		{"healthy", 30, false},
		{"unknown quota", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &QuotaState{Remaining: tt.remaining, WindowReset: future}
			if got := state.NeedsThrottling(); got != tt.want {
				t.Errorf("NeedsThrottling() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuotaState_UpdateHealth(t *testing.T) {
	tests := []struct {
		name      string
		remaining int
		want      bool
	}{
		{"healthy", ThresholdHealthy, true},
		{"low", ThresholdHealthy - 1, false},
		{"unknown is healthy", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &QuotaState{Remaining: tt.remaining}
			state.UpdateHealth()
			if state.IsHealthy != tt.want {
				t.Errorf("IsHealthy = %v, want %v", state.IsHealthy, tt.want)
			}
		})
	}
}

func TestQuotaState_TimeUntilReset(t *testing.T) {
	state := &QuotaState{WindowReset: time.Now().Add(10 * time.Minute)}
	if d := state.TimeUntilReset(); d < 9*time.Minute || d > 10*time.Minute {
		t.Errorf("TimeUntilReset() = %v, want ~10m", d)
	}

	state = &QuotaState{WindowReset: time.Now().Add(-1 * time.Minute)}
	if d := state.TimeUntilReset(); d != 0 {
		t.Errorf("TimeUntilReset() = %v for past reset, want 0", d)
	}
}

func TestQuotaState_IsStale(t *testing.T) {
	state := &QuotaState{LastUpdate: time.Now().Add(-2 * time.Hour)}
	if !state.IsStale(1 * time.Hour) {
		t.Error("IsStale() = false for 2h old state with 1h max age")
	}

	state = &QuotaState{LastUpdate: time.Now()}
	if state.IsStale(1 * time.Hour) {
		t.Error("IsStale() = true for fresh state")
	}
}

func TestNextWindowReset(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 25, 30, 0, time.UTC)
	want := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	if got := nextWindowReset(now); !got.Equal(want) {
		t.Errorf("nextWindowReset(%v) = %v, want %v", now, got, want)
	}
}
