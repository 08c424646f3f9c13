// internal/models/contest_test.go
package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isabitv/isabitv-backend/internal/apperrors"
)

func TestContestLifecycle(t *testing.T) {
	tests := []struct {
		name string
		from ContestStatus
		to   ContestStatus
		ok   bool
	}{
		{"draft to active", ContestStatusDraft, ContestStatusActive, true},
		{"draft to cancelled", ContestStatusDraft, ContestStatusCancelled, true},
		{"draft to judging", ContestStatusDraft, ContestStatusJudging, false},
		{"draft to completed", ContestStatusDraft, ContestStatusCompleted, false},
		{"active to judging", ContestStatusActive, ContestStatusJudging, true},
		{"active to cancelled", ContestStatusActive, ContestStatusCancelled, true},
		{"active to completed", ContestStatusActive, ContestStatusCompleted, false},
		{"active to draft", ContestStatusActive, ContestStatusDraft, false},
		{"judging to completed", ContestStatusJudging, ContestStatusCompleted, true},
		{"judging to cancelled", ContestStatusJudging, ContestStatusCancelled, false},
		{"judging to active", ContestStatusJudging, ContestStatusActive, false},
		{"completed is terminal", ContestStatusCompleted, ContestStatusActive, false},
		{"cancelled is terminal", ContestStatusCancelled, ContestStatusActive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Contest{Status: tt.from}
			err := c.Transition(tt.to)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.to, c.Status)
			} else {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
				assert.Equal(t, tt.from, c.Status, "status must not change on a refused transition")
			}
		})
	}
}

func TestContestTerminalStates(t *testing.T) {
	assert.True(t, (&Contest{Status: ContestStatusCompleted}).IsTerminal())
	assert.True(t, (&Contest{Status: ContestStatusCancelled}).IsTerminal())
	assert.False(t, (&Contest{Status: ContestStatusActive}).IsTerminal())
	assert.False(t, (&Contest{Status: ContestStatusDraft}).IsTerminal())
}

func TestContestSubmissionOpen(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	base := Contest{
		Status:             ContestStatusActive,
		SubmissionDeadline: now.Add(24 * time.Hour),
		MaxEntries:         100,
		CurrentEntries:     10,
	}

	open := base
	assert.True(t, open.SubmissionOpen(now))

	draft := base
	draft.Status = ContestStatusDraft
	assert.False(t, draft.SubmissionOpen(now))

	past := base
	past.SubmissionDeadline = now.Add(-time.Minute)
	assert.False(t, past.SubmissionOpen(now))

	atDeadline := base
	atDeadline.SubmissionDeadline = now
	assert.True(t, atDeadline.SubmissionOpen(now), "deadline instant itself is still open")

	full := base
	full.CurrentEntries = full.MaxEntries
	assert.False(t, full.SubmissionOpen(now))
}

func TestEntryModeration(t *testing.T) {
	t.Run("approve pending", func(t *testing.T) {
		e := &ContestEntry{Status: EntryStatusPending}
		require.NoError(t, e.Moderate(EntryStatusApproved, ""))
		assert.Equal(t, EntryStatusApproved, e.Status)
	})

	t.Run("reject requires notes", func(t *testing.T) {
		e := &ContestEntry{Status: EntryStatusPending}
		err := e.Moderate(EntryStatusRejected, "")
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, EntryStatusPending, e.Status)

		require.NoError(t, e.Moderate(EntryStatusRejected, "off-topic content"))
		assert.Equal(t, EntryStatusRejected, e.Status)
		assert.Equal(t, "off-topic content", e.ModeratorNotes)
	})

	t.Run("flag requires notes", func(t *testing.T) {
		e := &ContestEntry{Status: EntryStatusApproved}
		err := e.Moderate(EntryStatusFlagged, "")
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))

		require.NoError(t, e.Moderate(EntryStatusFlagged, "copyright complaint"))
		assert.Equal(t, EntryStatusFlagged, e.Status)
	})

	t.Run("return flagged to pending requires notes", func(t *testing.T) {
		e := &ContestEntry{Status: EntryStatusFlagged}
		err := e.Moderate(EntryStatusPending, "")
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))

		require.NoError(t, e.Moderate(EntryStatusPending, "complaint withdrawn"))
		assert.Equal(t, EntryStatusPending, e.Status)
	})

	t.Run("rejected is terminal", func(t *testing.T) {
		e := &ContestEntry{Status: EntryStatusRejected}
		err := e.Moderate(EntryStatusApproved, "changed our minds")
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
	})

	t.Run("winner unreachable through moderation", func(t *testing.T) {
		e := &ContestEntry{Status: EntryStatusApproved}
		err := e.Moderate(EntryStatusWinner, "great video")
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
	})
}

func TestEntryMarkWinner(t *testing.T) {
	e := &ContestEntry{Status: EntryStatusApproved}
	require.NoError(t, e.MarkWinner())
	assert.Equal(t, EntryStatusWinner, e.Status)

	for _, status := range []EntryStatus{EntryStatusPending, EntryStatusRejected, EntryStatusFlagged, EntryStatusWinner} {
		e := &ContestEntry{Status: status}
		err := e.MarkWinner()
		require.Error(t, err, "status %s", status)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
	}
}

func TestEntryCanScore(t *testing.T) {
	assert.True(t, (&ContestEntry{Status: EntryStatusPending}).CanScore())
	assert.True(t, (&ContestEntry{Status: EntryStatusApproved}).CanScore())
	assert.False(t, (&ContestEntry{Status: EntryStatusRejected}).CanScore())
	assert.False(t, (&ContestEntry{Status: EntryStatusFlagged}).CanScore())
	assert.False(t, (&ContestEntry{Status: EntryStatusWinner}).CanScore())
}
