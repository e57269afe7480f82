package economy

import (
	"fmt"

	"cardleague/internal/constants"
	"cardleague/internal/domain"
	"cardleague/internal/roster"

	"github.com/rs/zerolog"
)

// ShopItem is a purchasable temporary effect, priced in leftover cap points.
type ShopItem struct {
	Key          string  `json:"key"`
	Label        string  `json:"label"`
	Pts          float64 `json:"pts"`
	Amount       float64 `json:"amount"`
	Games        int     `json:"games"`
	TeamWide     bool    `json:"team_wide"`
	FatigueReset bool    `json:"fatigue_reset"`
}

// Catalog is the fixed shop inventory.
var Catalog = []ShopItem{
	{Key: "boost_rating_3_2g", Label: "Rating +3 (2 games)", Pts: 1.5, Amount: 3, Games: 2},
	{Key: "boost_rating_5_1g", Label: "Rating +5 (1 game)", Pts: 2, Amount: 5, Games: 1},
	{Key: "team_all_2_2g", Label: "Team +2 (2 games)", Pts: 3, Amount: 2, Games: 2, TeamWide: true},
	{Key: "stamina_reset", Label: "Reset Fatigue (single card)", Pts: 0.75, FatigueReset: true},
}

// Manager enforces the salary-cap economy: shop purchases and the
// one-trade-per-season rule. All validation happens before any mutation.
type Manager struct {
	logger zerolog.Logger
}

func New(logger zerolog.Logger) *Manager {
	return &Manager{logger: logger}
}

// Purchase buys a shop item for a team. Boosts register as standing
// modifiers with a game countdown; a fatigue reset applies immediately.
// The item's price is held against the cap for as long as the season runs.
func (m *Manager) Purchase(l *domain.League, teamID, itemKey, targetCard string) error {
	if l.Phase != domain.PhaseRegular {
		return &domain.InvalidPhaseError{Op: "shop purchase", Phase: l.Phase}
	}
	t, err := l.Team(teamID)
	if err != nil {
		return err
	}
	var item *ShopItem
	for i := range Catalog {
		if Catalog[i].Key == itemKey {
			item = &Catalog[i]
			break
		}
	}
	if item == nil {
		return &domain.NotFoundError{Kind: "shop item", Ref: itemKey}
	}
	if t.CostSpent+t.BoostSpent+item.Pts > constants.SalaryCap {
		return &domain.CapExceededError{
			Team: t.Name,
			Cost: t.CostSpent + t.BoostSpent + item.Pts,
			Cap:  constants.SalaryCap,
		}
	}
	if !item.TeamWide {
		if targetCard == "" {
			return &domain.NotFoundError{Kind: "target card", Ref: ""}
		}
		if !t.Owns(targetCard) {
			return &domain.NotFoundError{Kind: "card on roster", Ref: targetCard}
		}
	}

	if item.FatigueReset {
		c, err := l.Card(targetCard)
		if err != nil {
			return err
		}
		c.Fatigue = 100
		t.BoostSpent += item.Pts
		t.ShopPoints = shopPoints(t)
		l.Log(fmt.Sprintf("Shop: %s reset fatigue for %s", t.Name, c.Name))
		m.logger.Info().Str("team", t.Name).Str("card", c.Name).Msg("fatigue reset purchased")
		return nil
	}

	t.Boosts = append(t.Boosts, domain.Boost{
		Key:       item.Key,
		Amount:    item.Amount,
		GamesLeft: item.Games,
		TeamWide:  item.TeamWide,
		Target:    targetCard,
	})
	t.BoostSpent += item.Pts
	t.ShopPoints = shopPoints(t)
	l.Log(fmt.Sprintf("Shop: %s purchased %s", t.Name, item.Label))
	m.logger.Info().Str("team", t.Name).Str("item", item.Key).Msg("boost purchased")
	return nil
}

// ProposeTrade swaps one card between two teams. Both teams must be
// cap-safe after the swap and neither may have used its season trade; a
// failed proposal leaves both rosters untouched.
func (m *Manager) ProposeTrade(l *domain.League, teamA, cardOut, teamB, cardIn string) error {
	if l.Phase != domain.PhaseRegular {
		return &domain.InvalidPhaseError{Op: "trade", Phase: l.Phase}
	}
	a, err := l.Team(teamA)
	if err != nil {
		return err
	}
	b, err := l.Team(teamB)
	if err != nil {
		return err
	}
	if a.TradeUsed {
		return &domain.TradeLimitError{Team: a.Name}
	}
	if b.TradeUsed {
		return &domain.TradeLimitError{Team: b.Name}
	}
	if !a.Owns(cardOut) {
		return &domain.NotFoundError{Kind: "card on roster", Ref: cardOut}
	}
	if !b.Owns(cardIn) {
		return &domain.NotFoundError{Kind: "card on roster", Ref: cardIn}
	}
	out, err := l.Card(cardOut)
	if err != nil {
		return err
	}
	in, err := l.Card(cardIn)
	if err != nil {
		return err
	}

	if err := roster.ValidateCap(l, a, swapped(a.Roster(), cardOut, cardIn)); err != nil {
		return err
	}
	if err := roster.ValidateCap(l, b, swapped(b.Roster(), cardIn, cardOut)); err != nil {
		return err
	}

	// validated; both rosters update together
	replace(a, cardOut, cardIn)
	replace(b, cardIn, cardOut)
	a.TradeUsed = true
	b.TradeUsed = true
	if err := refresh(l, a); err != nil {
		return err
	}
	if err := refresh(l, b); err != nil {
		return err
	}

	l.Log(fmt.Sprintf("Trade: %s sent %s to %s for %s", a.Name, out.Name, b.Name, in.Name))
	m.logger.Info().
		Str("team_a", a.Name).
		Str("team_b", b.Name).
		Str("card_out", out.Name).
		Str("card_in", in.Name).
		Msg("trade executed")
	return nil
}

func swapped(ids []string, out, in string) []string {
	next := make([]string, len(ids))
	copy(next, ids)
	for i, id := range next {
		if id == out {
			next[i] = in
		}
	}
	return next
}

func replace(t *domain.Team, out, in string) {
	for i, id := range t.Starters {
		if id == out {
			t.Starters[i] = in
			return
		}
	}
	if t.Backup == out {
		t.Backup = in
	}
}

// refresh recomputes the derived roster fields after a composition change.
func refresh(l *domain.League, t *domain.Team) error {
	cost, err := roster.RosterCost(l, t.Roster())
	if err != nil {
		return err
	}
	t.CostSpent = cost
	chem, err := roster.ComputeChemistry(l, t)
	if err != nil {
		return err
	}
	t.Chemistry = chem
	t.ShopPoints = shopPoints(t)
	return nil
}

func shopPoints(t *domain.Team) float64 {
	left := constants.SalaryCap - t.CostSpent - t.BoostSpent
	if left < 0 {
		return 0
	}
	return left
}
