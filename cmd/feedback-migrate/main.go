package main

import (
	"fmt"
	"os"

	"github.com/NomadCrew/feedback-service/internal/cli"
	"github.com/NomadCrew/feedback-service/logger"
)

func main() {
	logger.InitLogger()
	defer func() { _ = logger.Close() }()

	if err := cli.NewMigrateCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
