// main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"hotel-booking/cmd"
	"hotel-booking/internal/data/memory"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/wire"
	"hotel-booking/internal/worker"
	"hotel-booking/pkg/database"
	"hotel-booking/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("db_driver", config.Database.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repos *repository.Repository
	switch config.Database.Driver {
	case utils.DriverMemory:
		store := memory.New(config.Database.LockTimeout, logger)
		seed, err := memory.ReadSeedFile(config.Database.SeedFile)
		if err != nil {
			logger.Fatal("Failed to read memory seed", zap.Error(err))
		}
		if err := store.LoadSeed(seed, time.Now()); err != nil {
			logger.Fatal("Failed to load memory seed", zap.Error(err))
		}
		repos = store.Repository()
		logger.Warn("Using in-memory store, data is lost on exit")

	default:
		db, err := database.InitDB(config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Info("Database connected successfully")

		repos = repository.NewRepository(db, config.Database.LockTimeout, logger)
	}

	// Wire all dependencies
	app := wire.Wiring(repos, config, logger)
	scheduler := worker.NewScheduler(config.Booking.SweepInterval, logger, worker.BookingJobs(app.Service.Booking)...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return cmd.APIServer(gctx, app.Router, config.App.Port, config.App.ShutdownTimeout, logger)
	})
	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application stopped with error", zap.Error(err))
		return
	}
	logger.Info("Application stopped")
}
