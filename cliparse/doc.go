// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

LoadDotEnv fills the environment from a .env file, then ParseFlags returns
a Config struct with all settings:

	cliparse.LoadDotEnv()
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: sqlite, postgres or memory (default: sqlite)
  - DatabaseURL: file path or connection string (required unless memory)
  - JWTSecret: token signing secret (required)
  - TokenTTL: token lifetime (default: 24h, 0 disables expiry)
  - BcryptCost: password hashing cost (default: 10)
  - MaxVoteRetries: attempts for a conflicting vote update (default: 5)
  - LogLevel, LogFormat: slog level and handler (default: info, text)

# Precedence

CLI flags > environment variables > .env file > defaults.

	PORT             → -p
	DATABASE_URL     → -d
	DATABASE_TYPE    → -t
	JWT_SECRET       → --jwt-secret
	TOKEN_TTL        → --token-ttl
	MAX_VOTE_RETRIES → --vote-retries
	LOG_LEVEL        → --log-level
	LOG_FORMAT       → --log-format
	BCRYPT_COST      (env only)
*/
package cliparse
