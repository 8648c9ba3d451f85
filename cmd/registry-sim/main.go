package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/lifebridge/lifebridge/internal/registrysim"
)

// Default configuration constants.
const (
	defaultNumDonors     = 200
	defaultNumRecipients = 1000
	defaultNumOrgans     = 100
	defaultWorkers       = 2 // multiplier for runtime.NumCPU()
	defaultTimeout       = 30 * time.Second
	defaultSimTimeout    = 10 * time.Minute
)

func main() {
	var (
		baseURL       = flag.String("url", "http://localhost:8090", "Base URL of the service")
		numDonors     = flag.Int("donors", defaultNumDonors, "Number of donors to register")
		numRecipients = flag.Int("recipients", defaultNumRecipients, "Number of recipients to register")
		numOrgans     = flag.Int("organs", defaultNumOrgans, "Number of organs to register")
		workers       = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout       = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile       = flag.String("log", "", "Log file for simulation output (default: sim_log_TIMESTAMP.log)")
		verbose       = flag.Bool("verbose", false, "Enable verbose logging")
		help          = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		registrysim.ShowHelp()
		return
	}

	if err := registrysim.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultSimTimeout)
	defer cancel()

	config := &registrysim.Config{
		BaseURL:       *baseURL,
		NumDonors:     *numDonors,
		NumRecipients: *numRecipients,
		NumOrgans:     *numOrgans,
		Workers:       *workers,
		Timeout:       *timeout,
		LogFile:       *logFile,
		Verbose:       *verbose,
	}

	if err := registrysim.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
