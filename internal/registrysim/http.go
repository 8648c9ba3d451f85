package registrysim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTP status code constants.
const (
	statusOK              = 200
	statusCreated         = 201
	statusAccepted        = 202
	statusTooManyRequests = 429
)

// HTTPClient wraps http.Client with a per-request timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body. A nil body sends an empty
// request, used for triggering match runs.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// registerAll posts each payload to url concurrently and returns the ids the
// service assigned, in submission order.
func registerAll[T any](ctx context.Context, config *Config, url, kind string, payloads []T) ([]string, error) {
	log.Printf("registering %d %s with %d workers...", len(payloads), kind, config.Workers)

	client := newHTTPClient(config.Timeout)
	ids := make([]string, len(payloads))

	var failed int64
	indexChan := make(chan int, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					id, err := registerOne(ctx, client, url, payloads[idx])
					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("failed to register %s %d: %v", kind, idx, err)
						}
						continue
					}
					ids[idx] = id
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range payloads {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	if n := atomic.LoadInt64(&failed); n > 0 {
		return ids, fmt.Errorf("%d of %d %s registrations failed", n, len(payloads), kind)
	}

	log.Printf("registered %d %s", len(payloads), kind)
	return ids, nil
}

// registerOne posts a single payload and extracts the assigned id.
func registerOne(ctx context.Context, client *HTTPClient, url string, payload any) (string, error) {
	resp, err := client.Post(ctx, url, payload)
	if err != nil {
		return "", err
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != statusCreated {
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("response carried no id")
	}
	return created.ID, nil
}

// triggerRuns requests a match run for every organ and tallies the outcomes.
// Backpressure rejections are retried once after a short pause.
func triggerRuns(ctx context.Context, config *Config, organIDs []string, stats *Stats) error {
	log.Printf("triggering match runs for %d organs...", len(organIDs))

	client := newHTTPClient(config.Timeout)

	var accepted, duplicate, rejected int64
	idChan := make(chan string, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for organID := range idChan {
				select {
				case <-ctx.Done():
					return
				default:
					url := config.BaseURL + "/organs/" + organID + "/matches"
					outcome := triggerSingleRun(ctx, client, url)
					if outcome == "rejected" {
						time.Sleep(time.Second)
						outcome = triggerSingleRun(ctx, client, url)
					}
					switch outcome {
					case "accepted":
						atomic.AddInt64(&accepted, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					default:
						atomic.AddInt64(&rejected, 1)
					}
				}
			}
		}()
	}

	go func() {
		defer close(idChan)
		for _, id := range organIDs {
			select {
			case <-ctx.Done():
				return
			case idChan <- id:
			}
		}
	}()

	wg.Wait()

	stats.RunsAccepted = int(atomic.LoadInt64(&accepted))
	stats.RunsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.RunsRejected = int(atomic.LoadInt64(&rejected))

	log.Printf("match runs: accepted %d, duplicate %d, rejected %d",
		stats.RunsAccepted, stats.RunsDuplicate, stats.RunsRejected)
	return nil
}

// triggerSingleRun posts one match-run request and classifies the outcome.
func triggerSingleRun(ctx context.Context, client *HTTPClient, url string) string {
	resp, err := client.Post(ctx, url, nil)
	if err != nil {
		return "failed"
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case statusAccepted:
		return "accepted"
	case statusOK:
		var ack RunAck
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate"
	case statusTooManyRequests:
		return "rejected"
	default:
		return "failed"
	}
}

// fetchMatches retrieves the ranked match list for one organ.
func fetchMatches(ctx context.Context, client *HTTPClient, baseURL, organID string) ([]Match, error) {
	resp, err := client.Get(ctx, baseURL+"/organs/"+organID+"/matches")
	if err != nil {
		return nil, err
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != statusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var matches []Match
	if err := json.Unmarshal(body, &matches); err != nil {
		return nil, fmt.Errorf("failed to decode matches: %w", err)
	}
	return matches, nil
}
