package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpired(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	grace := 15 * 24 * time.Hour

	ptr := func(t time.Time) *time.Time { return &t }

	tests := []struct {
		name      string
		deletedAt *time.Time
		want      bool
	}{
		{name: "never deleted", deletedAt: nil, want: false},
		{name: "deleted just over the grace period", deletedAt: ptr(now.Add(-grace - time.Second)), want: true},
		{name: "deleted exactly at the cutoff", deletedAt: ptr(now.Add(-grace)), want: true},
		{name: "deleted within the grace period", deletedAt: ptr(now.Add(-14 * 24 * time.Hour)), want: false},
		{name: "deleted moments ago", deletedAt: ptr(now.Add(-time.Minute)), want: false},
		{name: "clock skew puts deletion in the future", deletedAt: ptr(now.Add(time.Hour)), want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Expired(tc.deletedAt, now, grace))
		})
	}
}
