package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	const threshold = 7

	tests := []struct {
		name string
		due  time.Time
		want Status
	}{
		{"one second past due is overdue", now.Add(-time.Second), Overdue},
		{"ten days past due is overdue", now.AddDate(0, 0, -10), Overdue},
		{"due exactly now is due soon", now, DueSoon},
		{"due inside the window is due soon", now.AddDate(0, 0, 3), DueSoon},
		{"due at the window edge is due soon", now.AddDate(0, 0, threshold), DueSoon},
		{"due just past the window is current", now.AddDate(0, 0, threshold).Add(time.Second), Current},
		{"due far out is current", now.AddDate(0, 6, 0), Current},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.due, now, threshold))
		})
	}
}

// The three buckets partition the timeline: every instant lands in exactly
// one of them.
func TestClassifyPartition(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	for days := -30; days <= 30; days++ {
		due := now.AddDate(0, 0, days)
		got := Classify(due, now, 7)
		switch {
		case days < 0:
			assert.Equal(t, Overdue, got, "days=%d", days)
		case days <= 7:
			assert.Equal(t, DueSoon, got, "days=%d", days)
		default:
			assert.Equal(t, Current, got, "days=%d", days)
		}
	}
}

func TestClassifyZeroThreshold(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, DueSoon, Classify(now, now, 0))
	assert.Equal(t, Current, Classify(now.AddDate(0, 0, 1), now, 0))
	assert.Equal(t, Overdue, Classify(now.AddDate(0, 0, -1), now, 0))
}
