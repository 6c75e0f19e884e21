package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/BarkinBalci/app-stats-service/internal/cli"
)

func main() {
	// Commands print their own output; only failures are logged
	log, err := zap.NewProduction(zap.IncreaseLevel(zap.WarnLevel))
	if err != nil {
		log = zap.NewNop()
	}
	defer func() { _ = log.Sync() }()

	if err := cli.Run(log); err != nil {
		os.Exit(1)
	}
}
