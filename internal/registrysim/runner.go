package registrysim

import (
	"context"
	"fmt"
	"time"

	"github.com/lifebridge/lifebridge/pkg/logger"
)

// processingDelay gives queued match runs time to drain before verification.
const processingDelay = 5 * time.Second

// Run executes the complete registry simulation.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting lifebridge registry simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("donors", config.NumDonors),
		logger.Int("recipients", config.NumRecipients),
		logger.Int("organs", config.NumOrgans),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("verbose", config.Verbose))

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	now := time.Now().UTC()

	// Step 1: donors. Their assigned ids seed the organ records.
	donors := generateDonors(config.NumDonors, now)
	donorIDs, err := registerAll(ctx, config, config.BaseURL+"/donors", "donors", donors)
	if err != nil {
		return fmt.Errorf("donor registration failed: %w", err)
	}
	for i := range donors {
		donors[i].ID = donorIDs[i]
	}
	stats.DonorsRegistered = len(donorIDs)

	// Step 2: waiting list.
	recipients := generateRecipients(config.NumRecipients, now)
	recipientIDs, err := registerAll(ctx, config, config.BaseURL+"/recipients", "recipients", recipients)
	if err != nil {
		return fmt.Errorf("recipient registration failed: %w", err)
	}
	stats.RecipientsRegistered = len(recipientIDs)

	// Step 3: harvested organs.
	organs := generateOrgans(config.NumOrgans, donors, now)
	organIDs, err := registerAll(ctx, config, config.BaseURL+"/organs", "organs", organs)
	if err != nil {
		return fmt.Errorf("organ registration failed: %w", err)
	}
	stats.OrgansRegistered = len(organIDs)

	// Step 4: trigger match runs.
	if err := triggerRuns(ctx, config, organIDs, stats); err != nil {
		return fmt.Errorf("match-run triggering failed: %w", err)
	}

	// Step 5: wait for the queue to drain.
	logger.Get().Info(ctx, "waiting for match runs to be processed")
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while waiting: %w", ctx.Err())
	case <-time.After(processingDelay):
	}

	// Step 6: retrieve and verify.
	if err := verifyResults(ctx, config, organIDs, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "simulation completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != statusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(stats *Stats) {
	var runsPerSecond float64
	if stats.Duration > 0 {
		runsPerSecond = float64(stats.RunsAccepted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("donorsRegistered", stats.DonorsRegistered),
		logger.Int("recipientsRegistered", stats.RecipientsRegistered),
		logger.Int("organsRegistered", stats.OrgansRegistered),
		logger.Int("runsAccepted", stats.RunsAccepted),
		logger.Int("runsDuplicate", stats.RunsDuplicate),
		logger.Int("runsRejected", stats.RunsRejected),
		logger.Int("matchesRetrieved", stats.MatchesRetrieved),
		logger.Int("organsWithMatches", stats.OrgansWithMatches),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("runsPerSecond", runsPerSecond))
}
