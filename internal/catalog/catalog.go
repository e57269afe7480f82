package catalog

import (
	"cardleague/internal/domain"
)

// FindByName resolves a card by display name.
func FindByName(cards map[string]*domain.Card, name string) (*domain.Card, error) {
	for _, c := range cards {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, &domain.NotFoundError{Kind: "card", Ref: name}
}

// ApplyDelta adjusts a card's current rating by delta, clamping at zero,
// and re-grades it. Returns the resulting change record.
func ApplyDelta(c *domain.Card, delta float64) domain.PatchChange {
	c.Rating += delta
	if c.Rating < 0 {
		c.Rating = 0
	}
	c.Grade = GradeFor(c.Rating)
	return domain.PatchChange{
		CardID:    c.ID,
		CardName:  c.Name,
		Delta:     delta,
		NewRating: c.Rating,
	}
}

// PruneRetired drops retired cards that no roster references, keeping the
// pool under its hard cap. Rostered retirees stay until replaced.
func PruneRetired(l *domain.League) int {
	rostered := make(map[string]bool)
	for _, t := range l.Teams {
		for _, id := range t.Roster() {
			rostered[id] = true
		}
	}
	pruned := 0
	for id, c := range l.Cards {
		if c.Retired && !rostered[id] {
			delete(l.Cards, id)
			pruned++
		}
	}
	return pruned
}
