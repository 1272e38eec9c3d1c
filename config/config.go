package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Settings holds every tunable the engines read. Seat caps, buy-in
// ladder and round counts drifted across the legacy room variants, so
// they are env-overridable here instead of constants in the engines.
type Settings struct {
	Port        string
	DatabaseURL string

	SeatCaps map[string]int // gameType -> max seats

	DefaultBuyIn    int64 // blackjack / override table stake
	BlackjackRounds int
	OverrideRounds  int
	UnoForfeit      int64 // points each unfinished seat forfeits to a finisher

	ReliefFloor int64 // wealth below this triggers relief
	ReliefTopUp int64 // wealth after relief

	TeardownDelay  time.Duration // room removal after game over
	NextRoundDelay time.Duration // pause between card-game rounds
	CPUThinkMin    time.Duration // uno bot pacing; zero disables
	CPUThinkMax    time.Duration

	SnapshotInterval time.Duration // best-effort persistence flush
}

// Load reads .env plus environment variables and validates required vars.
func Load() *Settings {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, reading environment variables")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("[FATAL] DATABASE_URL is required in .env or environment")
	}

	s := &Settings{
		Port:        envStr("PORT", "4000"),
		DatabaseURL: dsn,
		SeatCaps: map[string]int{
			"othello":   2,
			"connect4":  2,
			"uno":       envInt("UNO_SEATS", 4),
			"blackjack": envInt("BLACKJACK_SEATS", 6),
			"override":  envInt("OVERRIDE_SEATS", 6),
		},
		DefaultBuyIn:     envInt64("DEFAULT_BUYIN", 500),
		BlackjackRounds:  envInt("BLACKJACK_ROUNDS", 5),
		OverrideRounds:   envInt("OVERRIDE_ROUNDS", 7),
		UnoForfeit:       envInt64("UNO_FORFEIT", 200),
		ReliefFloor:      envInt64("RELIEF_FLOOR", 100),
		ReliefTopUp:      envInt64("RELIEF_TOPUP", 1000),
		TeardownDelay:    envDur("TEARDOWN_DELAY", 15*time.Second),
		NextRoundDelay:   envDur("NEXT_ROUND_DELAY", 5*time.Second),
		CPUThinkMin:      envDur("CPU_THINK_MIN", 400*time.Millisecond),
		CPUThinkMax:      envDur("CPU_THINK_MAX", 2400*time.Millisecond),
		SnapshotInterval: envDur("SNAPSHOT_INTERVAL", 30*time.Second),
	}
	return s
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("[WARN] invalid %s=%q, using default %d", key, v, def)
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
		log.Printf("[WARN] invalid %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("[WARN] invalid %s=%q, using default %s", key, v, def)
	}
	return def
}
