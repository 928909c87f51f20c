package main

import (
	"context"
	"log"

	"travel-booking/cmd"
	"travel-booking/internal/data/repository"
	"travel-booking/internal/scheduler"
	"travel-booking/internal/wire"
	"travel-booking/internal/worker"
	"travel-booking/pkg/database"
	"travel-booking/pkg/gateway"
	"travel-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)
	gw := gateway.NewRazorpayClient(config.Razorpay, logger)
	publisher := worker.NewPublisher(config.Kafka, logger)

	app := wire.Wiring(repos, gw, publisher, config, logger)

	ctx := context.Background()

	settlement := worker.NewSettlement(app.Service.Settlement, config, logger)
	settlement.Start(ctx)

	expiry := scheduler.NewExpiry(app.Service.Booking, config.Scheduler, logger)
	expiry.Start(ctx)

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))
	cmd.APIServer(app.Router, config.App.Port, func() {
		expiry.Stop()
		settlement.Stop()
		if err := publisher.Close(); err != nil {
			logger.Warn("Failed to close settlement publisher", zap.Error(err))
		}
		logger.Info("Shutdown complete")
	})
}
