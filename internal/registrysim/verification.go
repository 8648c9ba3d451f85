package registrysim

import (
	"context"
	"fmt"
	"log"
)

// Score bounds enforced by the matching service.
const (
	minCompatibility = 50.0
	maxScore         = 100.0
)

// verifyResults fetches match lists and checks the service's ordering and
// score guarantees on each.
func verifyResults(ctx context.Context, config *Config, organIDs []string, stats *Stats) error {
	log.Println("verifying results...")

	client := newHTTPClient(config.Timeout)

	var totalMatches, organsWithMatches, violations int
	for _, organID := range organIDs {
		matches, err := fetchMatches(ctx, client, config.BaseURL, organID)
		if err != nil {
			return fmt.Errorf("failed to fetch matches for organ %s: %w", organID, err)
		}

		if len(matches) > 0 {
			organsWithMatches++
		}
		totalMatches += len(matches)

		if err := verifyMatchList(organID, matches); err != nil {
			violations++
			log.Printf("verification warning: %v", err)
		}

		if config.Verbose && len(matches) > 0 {
			top := matches[0]
			log.Printf("organ %s: %d matches, best recipient %s (compatibility %.2f, ranking %.2f)",
				organID, len(matches), top.RecipientID, top.CompatibilityScore, top.RankingScore)
		}
	}

	stats.MatchesRetrieved = totalMatches
	stats.OrgansWithMatches = organsWithMatches

	if violations > 0 {
		return fmt.Errorf("%d of %d organs violated match-list guarantees", violations, len(organIDs))
	}

	log.Printf("verified %d matches across %d organs", totalMatches, organsWithMatches)
	return nil
}

// verifyMatchList checks one organ's match list: descending ranking order,
// the compatibility threshold, and score bounds.
func verifyMatchList(organID string, matches []Match) error {
	for i, m := range matches {
		if m.OrganID != organID {
			return fmt.Errorf("organ %s: match %d belongs to organ %s", organID, i, m.OrganID)
		}
		if m.CompatibilityScore < minCompatibility || m.CompatibilityScore > maxScore {
			return fmt.Errorf("organ %s: match %d compatibility %.2f outside [%.0f, %.0f]",
				organID, i, m.CompatibilityScore, minCompatibility, maxScore)
		}
		if m.RankingScore < 0 || m.RankingScore > maxScore {
			return fmt.Errorf("organ %s: match %d ranking %.2f outside [0, %.0f]",
				organID, i, m.RankingScore, maxScore)
		}
		if i > 0 && m.RankingScore > matches[i-1].RankingScore {
			return fmt.Errorf("organ %s: match list not sorted, entry %d ranks above entry %d",
				organID, i, i-1)
		}
	}
	return nil
}
