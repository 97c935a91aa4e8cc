package main

import (
	"context"
	"os"

	"github.com/yigit/roster/internal/pkg/logger"
	"github.com/yigit/roster/internal/server"
)

// @title Roster API
// @version 1.0
// @description Students in PostgreSQL, groups in MongoDB.
// @BasePath /

func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		// Error details are logged within NewServer's setup functions
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
