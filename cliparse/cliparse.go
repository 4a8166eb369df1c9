package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

type Config struct {
	Port           int
	DatabaseURL    string
	DatabaseType   string
	InviteCodeSalt string
	TMDBAPIKey     string
	TMDBBaseURL    string
	PoolSize       int
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("reelmatch", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.IntVar(&cfg.PoolSize, "pool-size", 0, "Default candidates per round")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.InviteCodeSalt, "invite-salt", "", "Invite code salt (prefer env)")
	fs.StringVar(&cfg.TMDBAPIKey, "tmdb-key", "", "TMDB API bearer token (prefer env)")

	if err := fs.Parse(args); err != nil {
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
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "postgres"
		}
	}
	if cfg.DatabaseType != "postgres" && cfg.DatabaseType != "sqlite" {
		return Config{}, errors.New("database type must be postgres or sqlite")
	}

	if cfg.PoolSize == 0 {
		if sizeStr := os.Getenv("POOL_SIZE"); sizeStr != "" {
			size, err := strconv.Atoi(sizeStr)
			if err != nil || size < 1 {
				return Config{}, errors.New("invalid POOL_SIZE env variable")
			}
			cfg.PoolSize = size
		} else {
			cfg.PoolSize = 10
		}
	}

	// Secrets - MUST be provided
	if cfg.InviteCodeSalt == "" {
		cfg.InviteCodeSalt = os.Getenv("INVITE_CODE_SALT")
	}
	if cfg.InviteCodeSalt == "" {
		return Config{}, errors.New("INVITE_CODE_SALT required")
	}

	if cfg.TMDBAPIKey == "" {
		cfg.TMDBAPIKey = os.Getenv("TMDB_API_KEY")
	}
	if cfg.TMDBAPIKey == "" {
		return Config{}, errors.New("TMDB_API_KEY required")
	}

	if cfg.TMDBBaseURL == "" {
		cfg.TMDBBaseURL = os.Getenv("TMDB_BASE_URL")
		if cfg.TMDBBaseURL == "" {
			cfg.TMDBBaseURL = "https://api.themoviedb.org/3"
		}
	}

	return cfg, nil
}
