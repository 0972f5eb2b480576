package main

import (
	"rental/config"
	"rental/di"
	"rental/helper"
	"rental/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Rental Marketplace API
// @version 1.0
// @description Peer-to-peer rental marketplace: listings, bookings with escrowed payments, and notifications.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
