package main

import (
	"os"

	"github.com/consolahealth/studenthealth/internal/pkg/logger"
	"github.com/consolahealth/studenthealth/internal/server"
)

// @title Student Health Records API
// @version 1.0
// @description Student registry and checkup records for a campus clinic
// @BasePath /api/v1
// @schemes http https

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// setup functions log their own details
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// blocks until a shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
