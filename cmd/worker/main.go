package main

import (
	"rental/config"
	"rental/di"
	"rental/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	worker := di.InitializeWorker()
	worker.Run()
}
