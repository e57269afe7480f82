package roster

import (
	"cardleague/internal/catalog"
	"cardleague/internal/config"
	"cardleague/internal/constants"
	"cardleague/internal/domain"
)

// ComputeChemistry derives a team's chemistry score from the synergy matrix
// over its three starters: 50 baseline plus the average pairwise bonus,
// clamped to 0-100. Deterministic given roster and matrix; callers must
// re-run it after any roster change.
func ComputeChemistry(l *domain.League, t *domain.Team) (float64, error) {
	if len(t.Starters) < constants.StartersPerTeam {
		return 50, nil
	}
	var sum float64
	var pairs int
	for i := 0; i < len(t.Starters); i++ {
		for j := i + 1; j < len(t.Starters); j++ {
			a, err := l.Card(t.Starters[i])
			if err != nil {
				return 0, err
			}
			b, err := l.Card(t.Starters[j])
			if err != nil {
				return 0, err
			}
			sum += catalog.PairSynergy(a, b)
			pairs++
		}
	}
	chem := 50 + sum/float64(pairs)
	if chem < 0 {
		chem = 0
	} else if chem > 100 {
		chem = 100
	}
	return chem, nil
}

// RosterCost sums the card costs for a proposed set of roster IDs.
func RosterCost(l *domain.League, ids []string) (float64, error) {
	var total float64
	for _, id := range ids {
		c, err := l.Card(id)
		if err != nil {
			return 0, err
		}
		total += c.Cost
	}
	return total, nil
}

// ValidateCap checks a proposed roster against the salary cap, counting the
// team's standing boost allocation. Used by trades, shop purchases and
// substitution; it never mutates.
func ValidateCap(l *domain.League, t *domain.Team, proposed []string) error {
	cost, err := RosterCost(l, proposed)
	if err != nil {
		return err
	}
	if cost+t.BoostSpent > constants.SalaryCap {
		return &domain.CapExceededError{Team: t.Name, Cost: cost + t.BoostSpent, Cap: constants.SalaryCap}
	}
	return nil
}

// Lineup picks the three cards that actually play a game. Starters whose
// fatigue has dropped below the substitution threshold are replaced by the
// backup when that stays cap-safe; the backup covers at most one slot, the
// most fatigued one. Slots that cannot be covered keep their starter, who
// plays fatigued. The swap is per-game only.
func Lineup(l *domain.League, t *domain.Team, bal config.Balance) (active []string, benched []string, err error) {
	active = make([]string, len(t.Starters))
	copy(active, t.Starters)

	if t.Backup == "" {
		return active, nil, nil
	}
	backup, err := l.Card(t.Backup)
	if err != nil {
		return nil, nil, err
	}
	if backup.Fatigue < bal.SubstitutionThreshold {
		// backup is no fresher than the starters, nobody sits
		return active, nil, nil
	}

	subSlot := -1
	lowest := bal.SubstitutionThreshold
	for i, id := range t.Starters {
		c, err := l.Card(id)
		if err != nil {
			return nil, nil, err
		}
		if c.Fatigue < lowest {
			lowest = c.Fatigue
			subSlot = i
		}
	}
	if subSlot < 0 {
		return active, nil, nil
	}

	candidate := make([]string, len(active))
	copy(candidate, active)
	candidate[subSlot] = t.Backup
	if err := ValidateCap(l, t, candidate); err != nil {
		// cap-unsafe swap: the tired starter plays anyway
		return active, nil, nil
	}
	benched = []string{active[subSlot]}
	active[subSlot] = t.Backup
	return active, benched, nil
}
