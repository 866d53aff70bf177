// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - DatabaseURL: connection string (default for sqlite: file:ballotbox.db)
  - AdminAddress: the single identity allowed to create and close polls (required)
  - CallerTokenSalt: HMAC secret for caller tokens (optional)
  - RabbitMQURL, RabbitMQQueue: optional poll event queue
  - RedisURL, RedisChannel: optional poll event channel
  - SeedPoll: create the sample poll on an empty store

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-admin        Administrator address
	-token-salt   Caller token salt
	-amqp         RabbitMQ URL
	-redis        Redis address
	-seed         Seed the sample poll
	-env-file     dotenv file to load (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT              → -p
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	ADMIN_ADDRESS     → -admin
	CALLER_TOKEN_SALT → -token-salt
	RABBITMQ_URL      → -amqp
	REDIS_URL         → -redis
	SEED_POLL         → -seed
	RABBITMQ_QUEUE, REDIS_CHANNEL (env only, default: poll-events)

CLI flags take precedence over environment variables, which take
precedence over the dotenv file.

# Validation

ParseFlags returns an error if:

  - ADMIN_ADDRESS is missing
  - the database type is not sqlite or postgres
  - postgres is selected without DATABASE_URL
  - PORT or SEED_POLL cannot be parsed
*/
package cliparse
