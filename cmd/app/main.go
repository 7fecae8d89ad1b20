package main

import (
	"gearshare/config"
	"gearshare/di"
	"gearshare/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
