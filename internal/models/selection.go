// internal/models/selection.go
package models

import (
	"github.com/google/uuid"

	"github.com/isabitv/isabitv-backend/internal/apperrors"
)

// Selection is the in-progress winner assignment for a contest: at most one
// entry per prize tier, no entry in two tiers at once.
type Selection struct {
	tiers map[PrizeTier]uuid.UUID
}

func NewSelection() *Selection {
	return &Selection{tiers: make(map[PrizeTier]uuid.UUID)}
}

func validTier(tier PrizeTier) bool {
	return tier == PrizeTierFirst || tier == PrizeTierSecond || tier == PrizeTierThird
}

// Assign places an entry in a tier. If the entry already holds another tier
// the previous assignment is cleared in the same step, so an entry can never
// occupy two tiers.
func (s *Selection) Assign(tier PrizeTier, entryID uuid.UUID) error {
	if !validTier(tier) {
		return apperrors.NewValidation("tier", "unknown prize tier")
	}
	if entryID == uuid.Nil {
		return apperrors.NewValidation("entry_id", "entry id is required")
	}
	for t, id := range s.tiers {
		if id == entryID && t != tier {
			delete(s.tiers, t)
		}
	}
	s.tiers[tier] = entryID
	return nil
}

// Clear removes the assignment for a tier, if any.
func (s *Selection) Clear(tier PrizeTier) {
	delete(s.tiers, tier)
}

// Entry returns the entry assigned to a tier.
func (s *Selection) Entry(tier PrizeTier) (uuid.UUID, bool) {
	id, ok := s.tiers[tier]
	return id, ok
}

// EntryIDs returns all assigned entry ids.
func (s *Selection) EntryIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.tiers))
	for _, id := range s.tiers {
		ids = append(ids, id)
	}
	return ids
}

// Validate enforces the publish precondition: a first-place winner must be
// assigned. Second and third are optional.
func (s *Selection) Validate() error {
	if _, ok := s.tiers[PrizeTierFirst]; !ok {
		return apperrors.NewValidation("first", "first place required")
	}
	return nil
}

// Winners renders the selection as the persisted winners map.
func (s *Selection) Winners() JSONB {
	winners := make(JSONB, len(s.tiers))
	for tier, id := range s.tiers {
		winners[string(tier)] = id.String()
	}
	return winners
}
