package fx

import (
	"math/rand"

	"cardleague/internal/catalog"
	"cardleague/internal/config"
	"cardleague/internal/economy"
	"cardleague/internal/league"
	"cardleague/internal/logger"
	"cardleague/internal/playoff"
	"cardleague/internal/schedule"
	"cardleague/internal/season"
	"cardleague/internal/server"
	"cardleague/internal/sim"
	"cardleague/internal/store"

	"go.uber.org/fx"
)

// ProvideRand builds the single process-wide random source. Every engine
// component draws from it sequentially, so a fixed seed replays a run.
func ProvideRand(cfg *config.Config) *rand.Rand {
	return rand.New(rand.NewSource(cfg.Seed))
}

func ProvideProcessor(p *season.Processor) league.SeasonProcessor {
	return p
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(ProvideRand),
	// engine
	fx.Provide(catalog.NewGenerator),
	fx.Provide(sim.New),
	fx.Provide(schedule.New),
	fx.Provide(playoff.New),
	fx.Provide(economy.New),
	fx.Provide(season.New),
	fx.Provide(ProvideProcessor),
	// persistence
	fx.Provide(store.New),
	// svc
	fx.Provide(league.New),
	// server
	fx.Provide(server.New),
)
