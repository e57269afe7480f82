package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Balance holds the gameplay tunables. The defaults match the calibrated
// values the league shipped with; all of them can be overridden from the
// environment for rebalancing without a rebuild.
type Balance struct {
	SubstitutionThreshold float64 // fatigue below this prefers the backup
	FatigueCostMin        float64 // fatigue lost per game played
	FatigueCostMax        float64
	RestRecoveryMin       float64 // fatigue regained by benched starters
	RestRecoveryMax       float64
	FatigueFloor          float64 // effective-rating multiplier at zero fatigue
	HomeEdge              float64 // home-side rating multiplier
	NoiseSpread           float64 // per-side uniform perturbation, +/-
	RivalryVariance       float64 // noise spread multiplier for rivalry games
	ChemistryScale        float64 // chemistry points -> rating multiplier
	ScoreDivisor          float64 // team power -> score scale
}

type Config struct {
	ServerPort string
	SavePath   string
	LogLevel   string
	Seed       int64
	Balance    Balance
}

// DefaultBalance returns the shipped tuning.
func DefaultBalance() Balance {
	return Balance{
		SubstitutionThreshold: 25,
		FatigueCostMin:        8,
		FatigueCostMax:        15,
		RestRecoveryMin:       10,
		RestRecoveryMax:       18,
		FatigueFloor:          0.5,
		HomeEdge:              1.03,
		NoiseSpread:           0.05,
		RivalryVariance:       2.0,
		ChemistryScale:        0.001,
		ScoreDivisor:          10,
	}
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	def := DefaultBalance()
	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		SavePath:   getEnv("SAVE_PATH", "league_state.json"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		Seed:       getEnvInt64("LEAGUE_SEED", 1337),
		Balance: Balance{
			SubstitutionThreshold: getEnvFloat("BAL_SUB_THRESHOLD", def.SubstitutionThreshold),
			FatigueCostMin:        getEnvFloat("BAL_FATIGUE_COST_MIN", def.FatigueCostMin),
			FatigueCostMax:        getEnvFloat("BAL_FATIGUE_COST_MAX", def.FatigueCostMax),
			RestRecoveryMin:       getEnvFloat("BAL_REST_RECOVERY_MIN", def.RestRecoveryMin),
			RestRecoveryMax:       getEnvFloat("BAL_REST_RECOVERY_MAX", def.RestRecoveryMax),
			FatigueFloor:          getEnvFloat("BAL_FATIGUE_FLOOR", def.FatigueFloor),
			HomeEdge:              getEnvFloat("BAL_HOME_EDGE", def.HomeEdge),
			NoiseSpread:           getEnvFloat("BAL_NOISE_SPREAD", def.NoiseSpread),
			RivalryVariance:       getEnvFloat("BAL_RIVALRY_VARIANCE", def.RivalryVariance),
			ChemistryScale:        getEnvFloat("BAL_CHEMISTRY_SCALE", def.ChemistryScale),
			ScoreDivisor:          getEnvFloat("BAL_SCORE_DIVISOR", def.ScoreDivisor),
		},
	}

	logger.Info().
		Str("save_path", cfg.SavePath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Int64("seed", cfg.Seed).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

var Module = fx.Provide(Load)
