package league

import (
	"encoding/json"
	"math/rand"
	"path/filepath"
	"testing"

	"cardleague/internal/catalog"
	"cardleague/internal/config"
	"cardleague/internal/constants"
	"cardleague/internal/domain"
	"cardleague/internal/economy"
	"cardleague/internal/playoff"
	"cardleague/internal/schedule"
	"cardleague/internal/season"
	"cardleague/internal/sim"
	"cardleague/internal/store"

	"github.com/rs/zerolog"
)

func testService(t *testing.T, seed int64, savePath string) *Service {
	t.Helper()
	if savePath == "" {
		savePath = filepath.Join(t.TempDir(), "league.json")
	}
	cfg := &config.Config{
		Seed:     seed,
		SavePath: savePath,
		Balance:  config.DefaultBalance(),
	}
	logger := zerolog.Nop()
	rng := rand.New(rand.NewSource(seed))
	gen := catalog.NewGenerator(rng, logger)
	simulator := sim.New(cfg, rng, logger)
	sched := schedule.New(rng, simulator, logger)
	return New(
		cfg, logger, rng, gen, sched,
		playoff.New(simulator, logger),
		economy.New(logger),
		season.New(gen, rng, logger),
		store.New(cfg, logger),
	)
}

func stateOf(t *testing.T, s *Service) *domain.League {
	t.Helper()
	b, err := s.StateJSON()
	if err != nil {
		t.Fatalf("StateJSON: %v", err)
	}
	var l domain.League
	if err := json.Unmarshal(b, &l); err != nil {
		t.Fatalf("state unmarshal: %v", err)
	}
	return &l
}

func TestBootstrap_GeneratesLegalLeague(t *testing.T) {
	s := testService(t, 7, "")
	if err := s.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	l := stateOf(t, s)

	if len(l.Teams) != constants.NumTeams {
		t.Fatalf("teams = %d, want %d", len(l.Teams), constants.NumTeams)
	}
	if len(l.Cards) < constants.MinCardPool || len(l.Cards) > constants.MaxCardPool {
		t.Errorf("pool size %d outside [%d, %d]", len(l.Cards), constants.MinCardPool, constants.MaxCardPool)
	}
	if l.Season != 1 || l.Week != 0 || l.Phase != domain.PhaseRegular {
		t.Errorf("fresh league at S%d W%d %s", l.Season, l.Week, l.Phase)
	}

	owner := make(map[string]string)
	for _, team := range l.Teams {
		if len(team.Starters) != constants.StartersPerTeam || team.Backup == "" {
			t.Fatalf("team %s roster incomplete: %v + %q", team.Name, team.Starters, team.Backup)
		}
		var cost float64
		for _, id := range team.Roster() {
			c, ok := l.Cards[id]
			if !ok {
				t.Fatalf("team %s drafted unknown card %s", team.Name, id)
			}
			if prev, dup := owner[id]; dup {
				t.Fatalf("card %s drafted by both %s and %s", id, prev, team.Name)
			}
			owner[id] = team.Name
			cost += c.Cost
		}
		if cost > constants.SalaryCap {
			t.Errorf("team %s drafted over the cap: %.2f", team.Name, cost)
		}
		if team.Chemistry <= 0 {
			t.Errorf("team %s chemistry = %v", team.Name, team.Chemistry)
		}
	}

	wantGames := constants.NumTeams * constants.GamesPerTeam / 2
	if len(l.Calendar) != wantGames {
		t.Errorf("calendar holds %d games, want %d", len(l.Calendar), wantGames)
	}
	if len(l.Transactions) == 0 {
		t.Error("genesis draft left no transaction log")
	}
}

func TestBootstrap_ResumesFromSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "league.json")

	first := testService(t, 11, path)
	if err := first.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if _, err := first.AdvanceWeek(); err != nil {
		t.Fatalf("AdvanceWeek: %v", err)
	}
	if err := first.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	saved := stateOf(t, first)

	second := testService(t, 11, path)
	if err := second.Bootstrap(); err != nil {
		t.Fatalf("second Bootstrap: %v", err)
	}
	resumed := stateOf(t, second)
	if resumed.Week != 1 {
		t.Errorf("resumed at week %d, want 1", resumed.Week)
	}
	if len(resumed.Teams) != len(saved.Teams) || resumed.Teams[0].ID != saved.Teams[0].ID {
		t.Error("resumed league does not match the saved one")
	}
}

func TestAdvanceWeek_ThroughService(t *testing.T) {
	s := testService(t, 13, "")
	if err := s.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	report, err := s.AdvanceWeek()
	if err != nil {
		t.Fatalf("AdvanceWeek: %v", err)
	}
	if report.Week != 1 || report.Played != constants.NumTeams*constants.GamesPerTeamWeek/2 {
		t.Errorf("report = week %d / %d games", report.Week, report.Played)
	}

	rows := s.Standings()
	if len(rows) != constants.NumTeams {
		t.Fatalf("standings rows = %d", len(rows))
	}
	var wins int
	for _, r := range rows {
		wins += r.Wins
	}
	if wins != report.Played {
		t.Errorf("standings show %d wins for %d games", wins, report.Played)
	}
}

func TestRunSeason_FullCycle(t *testing.T) {
	s := testService(t, 17, "")
	if err := s.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	archive, err := s.RunSeason()
	if err != nil {
		t.Fatalf("RunSeason: %v", err)
	}
	if archive.Season != 1 {
		t.Errorf("archived season %d, want 1", archive.Season)
	}
	if archive.Champion == "" || archive.ChampionName == "" {
		t.Error("archive has no champion")
	}
	if archive.Awards.MVP == "" {
		t.Error("archive has no MVP")
	}
	if len(archive.Standings) != constants.NumTeams {
		t.Errorf("archived standings rows = %d", len(archive.Standings))
	}
	if len(archive.Rookies) != constants.RookiesPerSeason {
		t.Errorf("archived rookies = %d, want %d", len(archive.Rookies), constants.RookiesPerSeason)
	}
	if len(archive.Retirements) < constants.RetirementsPerSeason {
		t.Errorf("archived retirements = %d, want at least %d",
			len(archive.Retirements), constants.RetirementsPerSeason)
	}

	l := stateOf(t, s)
	if l.Season != 2 || l.Week != 0 || l.Phase != domain.PhaseRegular {
		t.Errorf("post-season state = S%d W%d %s, want S2 W0 regular", l.Season, l.Week, l.Phase)
	}
	for _, g := range l.Calendar {
		if g.Played {
			t.Fatal("season-two calendar contains played games")
		}
	}
	if history := s.History(); len(history) != 1 {
		t.Errorf("history length = %d, want 1", len(history))
	}
}

func TestRunSeason_BackToBackSeasons(t *testing.T) {
	s := testService(t, 19, "")
	if err := s.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := s.RunSeason(); err != nil {
			t.Fatalf("RunSeason %d: %v", i+1, err)
		}
	}
	l := stateOf(t, s)
	if l.Season != 3 {
		t.Errorf("season = %d, want 3", l.Season)
	}
	if len(l.History) != 2 {
		t.Errorf("history = %d seasons, want 2", len(l.History))
	}
	// champions stay resolvable and the HOF table is populated
	hof := s.HOF()
	if len(hof) == 0 {
		t.Fatal("empty HOF table after two seasons")
	}
	for i := 1; i < len(hof); i++ {
		if hof[i].Prob > hof[i-1].Prob {
			t.Fatal("HOF table not sorted by probability")
		}
	}
}

func TestProposeTrade_QuotaThroughService(t *testing.T) {
	s := testService(t, 23, "")
	if err := s.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	l := stateOf(t, s)

	// find a pair of teams whose backup swap is cap-safe both ways
	var teamA, teamB *domain.Team
	for i := 0; i < len(l.Teams) && teamA == nil; i++ {
		for j := i + 1; j < len(l.Teams); j++ {
			a, b := l.Teams[i], l.Teams[j]
			ca := l.Cards[a.Backup].Cost
			cb := l.Cards[b.Backup].Cost
			if a.CostSpent-ca+cb <= constants.SalaryCap && b.CostSpent-cb+ca <= constants.SalaryCap {
				teamA, teamB = a, b
				break
			}
		}
	}
	if teamA == nil {
		t.Skip("no cap-safe backup swap in this draft")
	}

	if err := s.ProposeTrade(teamA.ID, teamA.Backup, teamB.ID, teamB.Backup); err != nil {
		t.Fatalf("ProposeTrade: %v", err)
	}
	err := s.ProposeTrade(teamA.ID, teamB.Backup, teamB.ID, teamA.Backup)
	if err == nil {
		t.Fatal("expected the second trade of the season to fail")
	}
	if _, ok := err.(*domain.TradeLimitError); !ok {
		t.Errorf("error = %T, want *domain.TradeLimitError", err)
	}

	after := stateOf(t, s)
	for _, team := range after.Teams {
		if team.ID == teamA.ID && team.Backup != teamB.Backup {
			t.Errorf("team A backup = %s, want %s", team.Backup, teamB.Backup)
		}
		if team.ID == teamB.ID && team.Backup != teamA.Backup {
			t.Errorf("team B backup = %s, want %s", team.Backup, teamA.Backup)
		}
	}
}

func TestRecords_FoldsArchivedSeasons(t *testing.T) {
	s := testService(t, 37, "")
	if err := s.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	if rec := s.Records(); rec.BestSeason != nil || rec.WorstSeason != nil {
		t.Errorf("record book populated before any season archived: %+v", rec)
	}

	if _, err := s.RunSeason(); err != nil {
		t.Fatalf("RunSeason: %v", err)
	}
	rec := s.Records()
	if rec.BestSeason == nil || rec.WorstSeason == nil {
		t.Fatal("record book empty after an archived season")
	}
	if rec.BestSeason.Wins < rec.WorstSeason.Wins {
		t.Errorf("best mark %d-%d below worst mark %d-%d",
			rec.BestSeason.Wins, rec.BestSeason.Losses,
			rec.WorstSeason.Wins, rec.WorstSeason.Losses)
	}
	if rec.BestSeason.Season != 1 || rec.WorstSeason.Season != 1 {
		t.Errorf("marks cite seasons %d and %d, want 1",
			rec.BestSeason.Season, rec.WorstSeason.Season)
	}
	if rec.TitleCount != 1 || len(rec.MostTitles) == 0 {
		t.Errorf("title record = %d for %v, want the season-one champion",
			rec.TitleCount, rec.MostTitles)
	}
}

func TestReset_RegeneratesSeasonOne(t *testing.T) {
	s := testService(t, 29, "")
	if err := s.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if _, err := s.RunSeason(); err != nil {
		t.Fatalf("RunSeason: %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	l := stateOf(t, s)
	if l.Season != 1 || l.Week != 0 || l.Phase != domain.PhaseRegular {
		t.Errorf("reset state = S%d W%d %s", l.Season, l.Week, l.Phase)
	}
	if len(l.History) != 0 {
		t.Errorf("reset kept %d archived seasons", len(l.History))
	}
	if len(l.Teams) != constants.NumTeams {
		t.Errorf("reset teams = %d", len(l.Teams))
	}
}
