package schedule

import (
	"fmt"
	"math/rand"
	"testing"

	"cardleague/internal/config"
	"cardleague/internal/constants"
	"cardleague/internal/domain"
	"cardleague/internal/sim"

	"github.com/rs/zerolog"
)

func testScheduler(seed int64) *Scheduler {
	cfg := &config.Config{Seed: seed, Balance: config.DefaultBalance()}
	rng := rand.New(rand.NewSource(seed))
	return New(rng, sim.New(cfg, rng, zerolog.Nop()), zerolog.Nop())
}

func buildLeague(teams int) *domain.League {
	l := &domain.League{
		Season:    1,
		Phase:     domain.PhaseRegular,
		Cards:     make(map[string]*domain.Card),
		Rivalries: make(map[string]*domain.RivalryRecord),
	}
	for i := 0; i < teams; i++ {
		t := &domain.Team{
			ID:        fmt.Sprintf("t%02d", i),
			Name:      fmt.Sprintf("Team %02d", i),
			Chemistry: 50,
		}
		for s := 0; s < constants.StartersPerTeam; s++ {
			id := fmt.Sprintf("%s-s%d", t.ID, s)
			l.Cards[id] = &domain.Card{
				ID: id, Name: id, Archetype: domain.Tank, AttackType: domain.Melee,
				Rating: 60 + float64((i*7+s*3)%30), Cost: 3, Fatigue: 100,
			}
			t.Starters = append(t.Starters, id)
		}
		bid := t.ID + "-b"
		l.Cards[bid] = &domain.Card{
			ID: bid, Name: bid, Archetype: domain.Hybrid, AttackType: domain.Magic,
			Rating: 60, Cost: 2, Fatigue: 100,
		}
		t.Backup = bid
		t.CostSpent = 11
		l.Teams = append(l.Teams, t)
	}
	return l
}

func TestGenerateCalendar_Shape(t *testing.T) {
	s := testScheduler(1)
	l := buildLeague(constants.NumTeams)
	s.GenerateCalendar(l)

	perTeam := make(map[string]int)
	for _, g := range l.Calendar {
		if g.Home == g.Away {
			t.Fatalf("team %s scheduled against itself in week %d", g.Home, g.Week)
		}
		if g.Week < 1 || g.Week > constants.RegularSeasonWeeks {
			t.Fatalf("game week %d out of range", g.Week)
		}
		perTeam[g.Home]++
		perTeam[g.Away]++
	}
	for _, team := range l.Teams {
		if perTeam[team.ID] != constants.GamesPerTeam {
			t.Errorf("team %s has %d games, want %d", team.ID, perTeam[team.ID], constants.GamesPerTeam)
		}
	}
}

func TestGenerateCalendar_RivalryFlagsSymmetric(t *testing.T) {
	s := testScheduler(2)
	l := buildLeague(constants.NumTeams)
	s.GenerateCalendar(l)

	rivals := RivalMap(l)
	flagged := 0
	for _, g := range l.Calendar {
		want := rivals[g.Home] == g.Away
		if g.Rivalry != want {
			t.Fatalf("game %s vs %s rivalry flag = %v, want %v", g.Home, g.Away, g.Rivalry, want)
		}
		if g.Rivalry {
			flagged++
		}
	}
	if flagged == 0 {
		t.Error("no rivalry games scheduled across a full season")
	}
	// the pairing itself is symmetric
	for a, b := range rivals {
		if rivals[b] != a {
			t.Errorf("rival map asymmetric: %s -> %s -> %s", a, b, rivals[b])
		}
	}
}

func TestAdvanceWeek_SevenWeeks(t *testing.T) {
	s := testScheduler(3)
	l := buildLeague(constants.NumTeams)
	s.GenerateCalendar(l)

	for i := 0; i < 7; i++ {
		report, err := s.AdvanceWeek(l)
		if err != nil {
			t.Fatalf("AdvanceWeek %d: %v", i+1, err)
		}
		if report.Week != i+1 {
			t.Errorf("report week = %d, want %d", report.Week, i+1)
		}
	}
	if l.Week != 7 {
		t.Fatalf("league week = %d, want 7", l.Week)
	}
	for _, team := range l.Teams {
		games := team.Wins + team.Losses
		if games != 7*constants.GamesPerTeamWeek {
			t.Errorf("team %s played %d games, want %d", team.ID, games, 7*constants.GamesPerTeamWeek)
		}
	}
}

func TestAdvanceWeek_NoReplayOfPlayedWeek(t *testing.T) {
	s := testScheduler(4)
	l := buildLeague(constants.NumTeams)
	s.GenerateCalendar(l)

	first, err := s.AdvanceWeek(l)
	if err != nil {
		t.Fatalf("AdvanceWeek: %v", err)
	}
	if first.Played == 0 {
		t.Fatal("first advance played no games")
	}

	// point the counter back at the played week: nothing must replay
	l.Week = 0
	wins := make(map[string]int)
	for _, team := range l.Teams {
		wins[team.ID] = team.Wins
	}
	again, err := s.AdvanceWeek(l)
	if err != nil {
		t.Fatalf("AdvanceWeek replay: %v", err)
	}
	if again.Played != 0 {
		t.Errorf("replayed %d games, want 0", again.Played)
	}
	for _, team := range l.Teams {
		if team.Wins != wins[team.ID] {
			t.Errorf("team %s wins changed on replay", team.ID)
		}
	}
}

func TestAdvanceWeek_RejectsBeyondRegularSeason(t *testing.T) {
	s := testScheduler(5)
	l := buildLeague(constants.NumTeams)
	s.GenerateCalendar(l)

	for i := 0; i < constants.RegularSeasonWeeks; i++ {
		if _, err := s.AdvanceWeek(l); err != nil {
			t.Fatalf("AdvanceWeek %d: %v", i+1, err)
		}
	}
	if l.Phase != domain.PhasePlayoffs {
		t.Fatalf("phase = %s, want playoffs after week %d", l.Phase, constants.RegularSeasonWeeks)
	}

	_, err := s.AdvanceWeek(l)
	if err == nil {
		t.Fatal("expected error advancing past the regular season")
	}
	if _, ok := err.(*domain.InvalidPhaseError); !ok {
		t.Errorf("error = %T, want *domain.InvalidPhaseError", err)
	}
}

func TestStandings_Ordering(t *testing.T) {
	s := testScheduler(6)
	l := buildLeague(4)
	l.Teams[0].Wins, l.Teams[0].Losses = 5, 5
	l.Teams[1].Wins, l.Teams[1].Losses = 8, 2
	l.Teams[2].Wins, l.Teams[2].Losses = 5, 5
	l.Teams[2].PointsFor, l.Teams[2].PointsAgainst = 100, 80
	l.Teams[3].Wins, l.Teams[3].Losses = 1, 9

	rows := s.Standings(l)
	if rows[0].TeamID != l.Teams[1].ID {
		t.Errorf("rank 1 = %s, want the 8-win team", rows[0].TeamID)
	}
	if rows[1].TeamID != l.Teams[2].ID {
		t.Errorf("rank 2 = %s, want the better point differential", rows[1].TeamID)
	}
	if rows[3].TeamID != l.Teams[3].ID {
		t.Errorf("rank 4 = %s, want the 1-win team", rows[3].TeamID)
	}
	for i, r := range rows {
		if r.Rank != i+1 {
			t.Errorf("row %d rank = %d", i, r.Rank)
		}
	}
}

func TestStandings_WinLossTotalsConsistent(t *testing.T) {
	s := testScheduler(7)
	l := buildLeague(constants.NumTeams)
	s.GenerateCalendar(l)

	for i := 0; i < 3; i++ {
		if _, err := s.AdvanceWeek(l); err != nil {
			t.Fatalf("AdvanceWeek: %v", err)
		}
	}
	var wins, losses int
	for _, r := range s.Standings(l) {
		wins += r.Wins
		losses += r.Losses
	}
	if wins != losses {
		t.Errorf("total wins %d != total losses %d", wins, losses)
	}
	wantGames := constants.NumTeams * 3 * constants.GamesPerTeamWeek / 2
	if wins != wantGames {
		t.Errorf("total wins %d, want %d games decided", wins, wantGames)
	}
}
