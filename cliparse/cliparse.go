package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            int
	DatabaseURL     string
	DatabaseType    string
	AdminAddress    string
	CallerTokenSalt string
	RabbitMQURL     string
	RabbitMQQueue   string
	RedisURL        string
	RedisChannel    string
	SeedPoll        bool
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string

	fs := flag.NewFlagSet("ballotbox", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&envFile, "env-file", ".env", "Optional dotenv file")

	// Identity
	fs.StringVar(&cfg.AdminAddress, "admin", "", "Administrator address")
	fs.StringVar(&cfg.CallerTokenSalt, "token-salt", "", "Caller token salt (prefer env)")

	// Event sinks
	fs.StringVar(&cfg.RabbitMQURL, "amqp", "", "RabbitMQ URL for poll events")
	fs.StringVar(&cfg.RedisURL, "redis", "", "Redis address for poll events")

	fs.BoolVar(&cfg.SeedPoll, "seed", false, "Create the sample poll when the store is empty")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// .env never overrides variables already set
	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == "postgres" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "file:ballotbox.db"
	}

	// The administrator is fixed for the life of the store - MUST be provided
	if cfg.AdminAddress == "" {
		cfg.AdminAddress = os.Getenv("ADMIN_ADDRESS")
	}
	if cfg.AdminAddress == "" {
		return Config{}, errors.New("ADMIN_ADDRESS required")
	}

	if cfg.CallerTokenSalt == "" {
		cfg.CallerTokenSalt = os.Getenv("CALLER_TOKEN_SALT")
	}

	if cfg.RabbitMQURL == "" {
		cfg.RabbitMQURL = os.Getenv("RABBITMQ_URL")
	}
	cfg.RabbitMQQueue = os.Getenv("RABBITMQ_QUEUE")
	if cfg.RabbitMQQueue == "" {
		cfg.RabbitMQQueue = "poll-events"
	}

	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}
	cfg.RedisChannel = os.Getenv("REDIS_CHANNEL")
	if cfg.RedisChannel == "" {
		cfg.RedisChannel = "poll-events"
	}

	if !cfg.SeedPoll {
		if seed := os.Getenv("SEED_POLL"); seed != "" {
			v, err := strconv.ParseBool(seed)
			if err != nil {
				return Config{}, errors.New("invalid SEED_POLL env variable")
			}
			cfg.SeedPoll = v
		}
	}

	return cfg, nil
}

// loadEnvFile loads path into the environment. A missing file is fine.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
