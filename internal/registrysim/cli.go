package registrysim

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/lifebridge/lifebridge/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "sim_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the registry simulation tool.
func ShowHelp() {
	os.Stdout.WriteString(`LifeBridge Registry Simulator
=============================

A concurrent tool for exercising the LifeBridge matching service with a
synthetic donor, recipient, and organ population.

Usage:
  go run cmd/registry-sim/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8090")
  -donors int
        Number of donors to register (default 200)
  -recipients int
        Number of recipients to register (default 1000)
  -organs int
        Number of organs to register (default 100)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for simulation output (default: sim_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run cmd/registry-sim/main.go

  # Larger waiting list against a remote service
  go run cmd/registry-sim/main.go -recipients 5000 -organs 500 -url http://lifebridge:8090

  # Verbose output with a custom log file
  go run cmd/registry-sim/main.go -verbose -log my_sim.log
`)
}
