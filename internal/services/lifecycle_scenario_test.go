// internal/services/lifecycle_scenario_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isabitv/isabitv-backend/internal/models"
)

// Walks a contest from draft through publication at the domain level:
// launch, submissions, moderation, a report escalation, judging, ranking,
// tier assignment and the winner transition.
func TestContestLifecycleScenario(t *testing.T) {
	now := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	contest := &models.Contest{
		Title:              "Naija Dance Challenge",
		Status:             models.ContestStatusDraft,
		StartDate:          now,
		EndDate:            now.AddDate(0, 1, 0),
		SubmissionDeadline: now.AddDate(0, 0, 21),
		MaxEntries:         3,
	}

	// Launch
	require.NoError(t, contest.Transition(models.ContestStatusActive))

	// Three creators submit while the window is open
	entries := make([]*models.ContestEntry, 0, 3)
	for i := 0; i < 3; i++ {
		require.True(t, contest.SubmissionOpen(now.Add(time.Duration(i)*time.Hour)))
		e := &models.ContestEntry{Status: models.EntryStatusPending}
		e.ID = uuid.New()
		e.CreatedAt = now.Add(time.Duration(i) * time.Hour)
		entries = append(entries, e)
		contest.CurrentEntries++
	}
	assert.False(t, contest.SubmissionOpen(now.Add(3*time.Hour)), "capacity reached")

	// Moderation: approve two, flag one after a critical report, then reject it
	require.NoError(t, entries[0].Moderate(models.EntryStatusApproved, ""))
	require.NoError(t, entries[1].Moderate(models.EntryStatusApproved, ""))

	report := &models.Report{
		TargetType: models.ReportTargetEntry,
		TargetID:   entries[2].ID,
		Severity:   models.ReportSeverityCritical,
		Status:     models.ReportStatusPending,
	}
	require.True(t, report.Escalates())
	require.NoError(t, entries[2].Moderate(models.EntryStatusFlagged, "critical severity report"))
	require.NoError(t, entries[2].Moderate(models.EntryStatusRejected, "confirmed stolen content"))
	require.NoError(t, report.Close(models.ReportStatusResolved, "entry removed from contest", now.AddDate(0, 0, 5)))

	// Judging
	require.NoError(t, contest.Transition(models.ContestStatusJudging))
	high, low := 9.4, 7.1
	entries[1].JudgeScore = &high
	entries[0].JudgeScore = &low

	// Rank the approved entries and assign tiers
	approved := []models.ContestEntry{*entries[0], *entries[1]}
	ranked := RankCandidates(approved)
	require.Len(t, ranked, 2)
	assert.Equal(t, entries[1].ID, ranked[0].ID)

	selection := models.NewSelection()
	require.NoError(t, selection.Assign(models.PrizeTierFirst, ranked[0].ID))
	require.NoError(t, selection.Assign(models.PrizeTierSecond, ranked[1].ID))
	require.NoError(t, selection.Validate())

	// Publish: winners marked, contest completed, both terminal
	require.NoError(t, entries[1].MarkWinner())
	require.NoError(t, entries[0].MarkWinner())
	require.NoError(t, contest.Transition(models.ContestStatusCompleted))
	contest.Winners = selection.Winners()

	assert.True(t, contest.IsTerminal())
	assert.Equal(t, models.EntryStatusWinner, entries[0].Status)
	assert.Error(t, entries[1].Moderate(models.EntryStatusFlagged, "too late"), "winners are frozen")
	assert.Equal(t, ranked[0].ID.String(), contest.Winners["first"])
}
