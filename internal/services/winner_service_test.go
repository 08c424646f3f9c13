// internal/services/winner_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isabitv/isabitv-backend/internal/apperrors"
	"github.com/isabitv/isabitv-backend/internal/models"
)

func scoredEntry(title string, score *float64, createdAt time.Time) models.ContestEntry {
	e := models.ContestEntry{
		Title:      title,
		JudgeScore: score,
		Status:     models.EntryStatusApproved,
	}
	e.CreatedAt = createdAt
	return e
}

func floatPtr(v float64) *float64 { return &v }

func TestRankCandidates(t *testing.T) {
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	entries := []models.ContestEntry{
		scoredEntry("unscored late", nil, base.Add(3*time.Hour)),
		scoredEntry("tied, submitted second", floatPtr(8.8), base.Add(2*time.Hour)),
		scoredEntry("top score", floatPtr(9.2), base.Add(4*time.Hour)),
		scoredEntry("tied, submitted first", floatPtr(8.8), base.Add(time.Hour)),
		scoredEntry("unscored early", nil, base),
	}

	ranked := RankCandidates(entries)
	require.Len(t, ranked, 5)

	titles := make([]string, len(ranked))
	for i, e := range ranked {
		titles[i] = e.Title
	}
	assert.Equal(t, []string{
		"top score",
		"tied, submitted first",
		"tied, submitted second",
		"unscored early",
		"unscored late",
	}, titles)
}

func TestRankCandidatesIsStable(t *testing.T) {
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	entries := []models.ContestEntry{
		scoredEntry("b", floatPtr(7.5), base.Add(time.Minute)),
		scoredEntry("a", floatPtr(7.5), base),
		scoredEntry("c", floatPtr(7.5), base.Add(2*time.Minute)),
	}

	first := RankCandidates(entries)
	second := RankCandidates(entries)
	assert.Equal(t, first, second, "ranking the same entries twice must give the same order")
	assert.Equal(t, "a", first[0].Title)
	assert.Equal(t, "c", first[2].Title)
}

func TestBuildSelection(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	t.Run("valid tiers", func(t *testing.T) {
		selection, err := buildSelection(map[models.PrizeTier]uuid.UUID{
			models.PrizeTierFirst:  first,
			models.PrizeTierSecond: second,
		})
		require.NoError(t, err)
		id, ok := selection.Entry(models.PrizeTierFirst)
		require.True(t, ok)
		assert.Equal(t, first, id)
	})

	t.Run("missing first place", func(t *testing.T) {
		_, err := buildSelection(map[models.PrizeTier]uuid.UUID{
			models.PrizeTierSecond: second,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("same entry in two tiers always rejected", func(t *testing.T) {
		entry := uuid.New()
		winners := map[models.PrizeTier]uuid.UUID{
			models.PrizeTierFirst:  entry,
			models.PrizeTierSecond: entry,
		}

		// Map iteration order varies between runs; the outcome must not.
		for i := 0; i < 50; i++ {
			_, err := buildSelection(winners)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		}
	})

	t.Run("duplicate across first and third", func(t *testing.T) {
		entry := uuid.New()
		_, err := buildSelection(map[models.PrizeTier]uuid.UUID{
			models.PrizeTierFirst: entry,
			models.PrizeTierThird: entry,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestRankCandidatesDoesNotMutateInput(t *testing.T) {
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	entries := []models.ContestEntry{
		scoredEntry("low", floatPtr(1.0), base),
		scoredEntry("high", floatPtr(9.9), base.Add(time.Minute)),
	}

	_ = RankCandidates(entries)
	assert.Equal(t, "low", entries[0].Title, "caller's slice order must be preserved")
}
