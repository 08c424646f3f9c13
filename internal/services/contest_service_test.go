// internal/services/contest_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/isabitv/isabitv-backend/internal/apperrors"
)

func TestValidateSchedule(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		deadline time.Time
		ok       bool
	}{
		{"deadline inside window", start, end, end.AddDate(0, 0, -7), true},
		{"deadline at start", start, end, start, true},
		{"deadline at end", start, end, end, true},
		{"end before start", end, start, start, false},
		{"start equals end", start, start, start, false},
		{"deadline before start", start, end, start.AddDate(0, 0, -1), false},
		{"deadline after end", start, end, end.AddDate(0, 0, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSchedule(tt.start, tt.end, tt.deadline)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.True(t, apperrors.IsValidation(err))
			}
		})
	}
}
