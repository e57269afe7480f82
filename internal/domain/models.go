package domain

// Archetype is a card's battlefield role. Synergy between archetypes drives
// team chemistry.
type Archetype string

const (
	Tank    Archetype = "Tank"
	DPS     Archetype = "DPS"
	Control Archetype = "Control"
	Support Archetype = "Support"
	Hybrid  Archetype = "Hybrid"
)

var Archetypes = []Archetype{Tank, DPS, Control, Support, Hybrid}

type AttackType string

const (
	Melee  AttackType = "Melee"
	Ranged AttackType = "Ranged"
	Splash AttackType = "Splash"
	Magic  AttackType = "Magic"
)

var AttackTypes = []AttackType{Melee, Ranged, Splash, Magic}

// CardStats accumulates over one season and is reset at archive time.
type CardStats struct {
	GamesPlayed        int     `json:"games_played"`
	ContributionSum    float64 `json:"contribution_sum"`
	BackupGames        int     `json:"backup_games"`
	PlayoffGames       int     `json:"playoff_games"`
	FinalsGames        int     `json:"finals_games"`
	FinalsContribution float64 `json:"finals_contribution"`
}

// AvgContribution is the per-game share of team output, 0-100.
func (s CardStats) AvgContribution() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return s.ContributionSum / float64(s.GamesPlayed)
}

type Card struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Archetype  Archetype  `json:"archetype"`
	AttackType AttackType `json:"attack_type"`

	BaseRating float64 `json:"base_rating"`
	Rating     float64 `json:"rating"` // mutated by patches, never below 0
	Defense    float64 `json:"defense"`
	Grade      string  `json:"grade"`

	Cost     float64 `json:"cost"`
	BaseCost float64 `json:"base_cost"`

	Age      int  `json:"age"`
	Lifespan int  `json:"lifespan"`
	Rookie   bool `json:"rookie"`
	Retired  bool `json:"retired"`

	Fatigue  float64   `json:"fatigue"` // 0-100, below the threshold the backup is preferred
	PickRate float64   `json:"pick_rate"`
	Stats    CardStats `json:"stats"`

	Awards    []string `json:"awards"`
	HOFProb   float64  `json:"hof_prob"`
	HOFFrozen bool     `json:"hof_frozen"`
}

// Boost is a purchased temporary modifier, ticked down per game played.
type Boost struct {
	Key       string  `json:"key"`
	Amount    float64 `json:"amount"`
	GamesLeft int     `json:"games_left"`
	TeamWide  bool    `json:"team_wide"`
	Target    string  `json:"target,omitempty"` // card ID when not team-wide
}

type Team struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Logo  string `json:"logo"`
	Color string `json:"color"`
	GM    string `json:"gm"`

	Starters []string `json:"starters"` // exactly 3 card IDs
	Backup   string   `json:"backup"`

	Wins          int `json:"wins"`
	Losses        int `json:"losses"`
	Streak        int `json:"streak"`
	PointsFor     int `json:"points_for"`
	PointsAgainst int `json:"points_against"`

	CostSpent  float64 `json:"cost_spent"`
	BoostSpent float64 `json:"boost_spent"`
	ShopPoints float64 `json:"shop_points"`
	Boosts     []Boost `json:"boosts"`
	TradeUsed  bool    `json:"trade_used"`

	Chemistry float64 `json:"chemistry"`

	Titles     int `json:"titles"`
	SeasonsRun int `json:"seasons_run"`
}

// Roster returns the starters plus backup, backup last.
func (t *Team) Roster() []string {
	ids := make([]string, 0, len(t.Starters)+1)
	ids = append(ids, t.Starters...)
	if t.Backup != "" {
		ids = append(ids, t.Backup)
	}
	return ids
}

func (t *Team) Owns(cardID string) bool {
	for _, id := range t.Starters {
		if id == cardID {
			return true
		}
	}
	return t.Backup == cardID
}

// Game is a single scheduled matchup. Once Played is set the result fields
// are never rewritten.
type Game struct {
	Week      int    `json:"week"`
	Home      string `json:"home"`
	Away      string `json:"away"`
	Rivalry   bool   `json:"rivalry"`
	Played    bool   `json:"played"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	Winner    string `json:"winner,omitempty"`
}

type Series struct {
	Round      int    `json:"round"`
	HomeSeed   int    `json:"home_seed"`
	AwaySeed   int    `json:"away_seed"`
	Home       string `json:"home"`
	Away       string `json:"away"`
	WinsNeeded int    `json:"wins_needed"`
	HomeWins   int    `json:"home_wins"`
	AwayWins   int    `json:"away_wins"`
	Games      []Game `json:"games"`
	Winner     string `json:"winner,omitempty"`
}

type Playoffs struct {
	Seeds    []string   `json:"seeds"` // 16 team IDs, seed 1 first
	Rounds   [][]Series `json:"rounds"`
	Champion string     `json:"champion,omitempty"`
}

type StandingRow struct {
	Rank          int    `json:"rank"`
	TeamID        string `json:"team_id"`
	Name          string `json:"name"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	PointsFor     int    `json:"points_for"`
	PointsAgainst int    `json:"points_against"`
	Diff          int    `json:"diff"`
	Streak        int    `json:"streak"`
}

type PatchChange struct {
	CardID    string  `json:"card_id"`
	CardName  string  `json:"card_name"`
	Delta     float64 `json:"delta"`
	NewRating float64 `json:"new_rating"`
}

type Patch struct {
	Season   int           `json:"season"`
	Nickname string        `json:"nickname"`
	Changes  []PatchChange `json:"changes"`
}

// AwardSet holds card IDs; an empty field means nobody qualified.
type AwardSet struct {
	MVP       string `json:"mvp,omitempty"`
	DPOY      string `json:"dpoy,omitempty"`
	SixthMan  string `json:"sixth_man,omitempty"`
	Rookie    string `json:"rookie,omitempty"`
	FinalsMVP string `json:"finals_mvp,omitempty"`
}

type Retirement struct {
	CardID string `json:"card_id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type RookieNote struct {
	CardID string `json:"card_id"`
	Name   string `json:"name"`
}

type SeasonArchive struct {
	Season       int           `json:"season"`
	Champion     string        `json:"champion"`
	ChampionName string        `json:"champion_name"`
	Standings    []StandingRow `json:"standings"`
	Awards       AwardSet      `json:"awards"`
	Patch        Patch         `json:"patch"`
	Retirements  []Retirement  `json:"retirements"`
	Rookies      []RookieNote  `json:"rookies"`
	Transactions []string      `json:"transactions"`
}

// RecordMark is one all-time record holder: a team's mark in one season.
type RecordMark struct {
	Season   int    `json:"season"`
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
}

// LeagueRecords is the all-time record book over archived seasons.
type LeagueRecords struct {
	BestSeason  *RecordMark `json:"best_season,omitempty"`
	WorstSeason *RecordMark `json:"worst_season,omitempty"`
	MostTitles  []string    `json:"most_titles,omitempty"` // team names, ties included
	TitleCount  int         `json:"title_count"`
}

type RivalryRecord struct {
	Games    int `json:"games"`
	HomeWins int `json:"home_wins"` // wins for the lexicographically smaller team ID
	AwayWins int `json:"away_wins"`
}

type Phase string

const (
	PhaseRegular  Phase = "regular"
	PhasePlayoffs Phase = "playoffs"
	PhaseComplete Phase = "complete"
)

// League is the aggregate root: one instance is the entire persisted world.
type League struct {
	Seed   int64 `json:"seed"`
	Season int   `json:"season"`
	Week   int   `json:"week"` // fully played weeks this season
	Phase  Phase `json:"phase"`

	Cards map[string]*Card `json:"cards"`
	Teams []*Team          `json:"teams"`

	Calendar  []*Game                   `json:"calendar"`
	Rivalries map[string]*RivalryRecord `json:"rivalries"`

	Transactions []string        `json:"transactions"`
	Playoffs     *Playoffs       `json:"playoffs,omitempty"`
	History      []SeasonArchive `json:"history"`
	PatchLog     []Patch         `json:"patch_log"`
}

func (l *League) Team(id string) (*Team, error) {
	for _, t := range l.Teams {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, &NotFoundError{Kind: "team", Ref: id}
}

func (l *League) Card(id string) (*Card, error) {
	if c, ok := l.Cards[id]; ok {
		return c, nil
	}
	return nil, &NotFoundError{Kind: "card", Ref: id}
}

// RivalryKey is order-independent so both meetings of a pairing share one
// record.
func RivalryKey(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}

func (l *League) Log(msg string) {
	l.Transactions = append(l.Transactions, msg)
}
