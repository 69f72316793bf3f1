package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port string

	StoreDriver string // "postgres" or "memory"

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	RabbitMQURL string
	EventsQueue string

	JWTSecret string

	LedgerMaxRetries int
	LedgerBackoff    time.Duration
	SweepInterval    time.Duration
	Timezone         *time.Location
}

// Load reads .env (if present) and the process environment.
func Load(files ...string) Config {
	if len(files) == 0 {
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		log.Println("File .env tidak ditemukan, menggunakan variabel OS bawaan.")
	}

	cfg := Config{
		Env:              getenv("APP_ENV", "dev"),
		Port:             getenv("APP_PORT", "8080"),
		StoreDriver:      strings.ToLower(getenv("STORE_DRIVER", "postgres")),
		DBHost:           getenv("DB_HOST", "localhost"),
		DBPort:           getenv("DB_PORT", "5432"),
		DBUser:           getenv("DB_USER", "postgres"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           getenv("DB_NAME", "gym_booking"),
		RedisHost:        getenv("REDIS_HOST", "localhost"),
		RedisPort:        getenv("REDIS_PORT", "6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          envInt("REDIS_DB", 0),
		CacheTTL:         envDur("CACHE_TTL", 30*time.Second),
		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		EventsQueue:      getenv("EVENTS_QUEUE", "gym.events"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		LedgerMaxRetries: envInt("LEDGER_MAX_RETRIES", 8),
		LedgerBackoff:    envDur("LEDGER_BACKOFF", 5*time.Millisecond),
		SweepInterval:    envDur("SWEEP_INTERVAL", time.Minute),
		Timezone:         envLocation("APP_TIMEZONE", time.UTC),
	}

	if cfg.LedgerMaxRetries < 1 {
		cfg.LedgerMaxRetries = 1
	}
	return cfg
}

func (c Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	log.Printf("invalid int for %s: %q, using %d", key, v, def)
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	log.Printf("invalid duration for %s: %q, using %s", key, v, def)
	return def
}

func envLocation(key string, def *time.Location) *time.Location {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	loc, err := time.LoadLocation(v)
	if err != nil {
		log.Printf("invalid timezone for %s: %q, using %s", key, v, def)
		return def
	}
	return loc
}
