package constants

import "time"

// League structure. These are structural, not balance knobs: changing them
// changes what the league is, not how games swing.
const (
	NumTeams        = 30
	StartersPerTeam = 3
	SalaryCap       = 20.0

	RegularSeasonWeeks = 20
	GamesPerTeam       = 40
	GamesPerTeamWeek   = GamesPerTeam / RegularSeasonWeeks

	PlayoffField  = 16
	PlayoffRounds = 4

	RetirementsPerSeason = 3
	RookiesPerSeason     = 4
	MinCardPool          = 160
	MaxCardPool          = 170

	DraftRounds = StartersPerTeam + 1 // 3 starters + 1 backup

	MVPMinGames      = 10
	SixthManMinGames = 5
	PatchCardCount   = 10 // buffed + nerfed cards per season patch
)

// SeriesBestOf is the series length per playoff round, round of 16 first.
var SeriesBestOf = [PlayoffRounds]int{3, 5, 5, 7}

const (
	RequestTimeout  = 30 * time.Second
	SaveTimeout     = 5 * time.Second
	ShutdownTimeout = 5 * time.Second
)
