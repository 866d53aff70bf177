package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/events"
	"github.com/danielhkuo/ballotbox/pollstore"
	"github.com/danielhkuo/ballotbox/router"
)

// Sample poll created by -seed on an empty store
var (
	seedTitle    = "test"
	seedOptions  = []string{"1", "2", "3"}
	seedDuration = int64(60)
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	admin, err := auth.NormalizeAddress(cfg.AdminAddress)
	if err != nil {
		slog.Error("invalid administrator address", "error", err)
		os.Exit(1)
	}

	// Connect to the database and create the schema
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database setup failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Rebuild the store from the journal
	ctx := context.Background()
	store, err := pollstore.Open(ctx, admin, db.NewJournal(dbConn))
	if err != nil {
		slog.Error("failed to load polls", "error", err)
		os.Exit(1)
	}
	slog.Info("Poll store ready", "polls", store.TotalPolls(), "admin", admin)

	pub, err := dialPublishers(ctx, cfg)
	if err != nil {
		slog.Error("event sink setup failed", "error", err)
		os.Exit(1)
	}
	defer pub.Close()

	if cfg.SeedPoll {
		if err := seedSamplePoll(ctx, store, admin, pub); err != nil {
			slog.Error("failed to seed poll", "error", err)
			os.Exit(1)
		}
	}

	// Create router
	handler := router.NewRouter(store, pub, cfg)

	// Create server
	server := http.Server{
		Handler: handler,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// seedSamplePoll creates the sample poll when the store is empty
func seedSamplePoll(ctx context.Context, store *pollstore.Store, admin pollstore.Address, pub events.Publisher) error {
	if store.TotalPolls() > 0 {
		return nil
	}

	id, err := store.Create(ctx, admin, seedTitle, seedOptions, seedDuration)
	if err != nil {
		return err
	}
	if err := pub.Publish(ctx, events.PollCreated(id, time.Now())); err != nil {
		slog.Warn("failed to publish poll event", "poll_id", id, "error", err)
	}
	slog.Info("Seeded sample poll", "poll_id", id, "title", seedTitle)
	return nil
}

// dialPublishers connects every configured event sink. With none
// configured, events are dropped.
func dialPublishers(ctx context.Context, cfg cliparse.Config) (events.Publisher, error) {
	var sinks events.Multi

	if cfg.RabbitMQURL != "" {
		p, err := events.DialAMQP(cfg.RabbitMQURL, cfg.RabbitMQQueue)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, p)
		slog.Info("Publishing events to RabbitMQ", "queue", cfg.RabbitMQQueue)
	}

	if cfg.RedisURL != "" {
		p, err := events.DialRedis(ctx, cfg.RedisURL, cfg.RedisChannel)
		if err != nil {
			sinks.Close()
			return nil, err
		}
		sinks = append(sinks, p)
		slog.Info("Publishing events to Redis", "channel", cfg.RedisChannel)
	}

	if len(sinks) == 0 {
		return events.Nop{}, nil
	}
	return sinks, nil
}
