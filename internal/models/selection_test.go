// internal/models/selection_test.go
package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isabitv/isabitv-backend/internal/apperrors"
)

func TestSelectionAssign(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	s := NewSelection()
	require.NoError(t, s.Assign(PrizeTierFirst, first))
	require.NoError(t, s.Assign(PrizeTierSecond, second))

	id, ok := s.Entry(PrizeTierFirst)
	require.True(t, ok)
	assert.Equal(t, first, id)
	assert.Len(t, s.EntryIDs(), 2)
}

func TestSelectionReassignClearsOldTier(t *testing.T) {
	entry := uuid.New()

	s := NewSelection()
	require.NoError(t, s.Assign(PrizeTierSecond, entry))
	require.NoError(t, s.Assign(PrizeTierFirst, entry))

	_, ok := s.Entry(PrizeTierSecond)
	assert.False(t, ok, "moving an entry to another tier must vacate the old one")
	id, ok := s.Entry(PrizeTierFirst)
	require.True(t, ok)
	assert.Equal(t, entry, id)
	assert.Len(t, s.EntryIDs(), 1)
}

func TestSelectionRejectsBadInput(t *testing.T) {
	s := NewSelection()

	err := s.Assign(PrizeTier("grand"), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	err = s.Assign(PrizeTierFirst, uuid.Nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestSelectionValidateRequiresFirstPlace(t *testing.T) {
	s := NewSelection()
	require.NoError(t, s.Assign(PrizeTierSecond, uuid.New()))
	require.NoError(t, s.Assign(PrizeTierThird, uuid.New()))

	err := s.Validate()
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	require.NoError(t, s.Assign(PrizeTierFirst, uuid.New()))
	assert.NoError(t, s.Validate())
}

func TestSelectionClearAndWinners(t *testing.T) {
	first := uuid.New()
	third := uuid.New()

	s := NewSelection()
	require.NoError(t, s.Assign(PrizeTierFirst, first))
	require.NoError(t, s.Assign(PrizeTierThird, third))
	s.Clear(PrizeTierThird)

	winners := s.Winners()
	assert.Equal(t, JSONB{"first": first.String()}, winners)
}
