package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Drives the internal batch-check endpoint with random candidate usernames.
// Useful for sizing the worker pool and the upstream rate limit.
func main() {
	targetURL := flag.String("url", "http://localhost:8080/internal/check", "Target URL for batch checks")
	concurrency := flag.Int("c", 4, "Number of concurrent workers")
	duration := flag.Duration("d", 30*time.Second, "Duration of the load test")
	rps := flag.Int("rps", 10, "Requests per second limit")
	batch := flag.Int("batch", 5, "Usernames per request")
	flag.Parse()

	log.Printf("Starting load test on %s", *targetURL)
	log.Printf("Concurrency: %d, Duration: %s, RPS: %d, Batch: %d", *concurrency, *duration, *rps, *batch)

	var wg sync.WaitGroup
	var successCount, errorCount atomic.Int64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	limiter := rate.NewLimiter(rate.Limit(*rps), *rps)

	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			client := &http.Client{
				Timeout: 60 * time.Second, // a full batch can be slow
			}
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

			for {
				select {
				case <-ctx.Done():
					return
				default:
					limiter.Wait(ctx) // Wait for token from rate limiter

					usernames := make([]string, *batch)
					for j := range usernames {
						usernames[j] = randomUsername(rng)
					}
					payload, err := json.Marshal(map[string]any{"usernames": usernames})
					if err != nil {
						continue // Should not happen
					}

					req, err := http.NewRequestWithContext(ctx, http.MethodPost, *targetURL, bytes.NewReader(payload))
					if err != nil {
						continue // Should not happen
					}
					req.Header.Set("Content-Type", "application/json")

					resp, err := client.Do(req)
					if err != nil {
						errorCount.Add(1)
						continue
					}

					if resp.StatusCode == http.StatusOK {
						successCount.Add(1)
					} else {
						errorCount.Add(1)
					}
					resp.Body.Close()
				}
			}
		}(i)
	}

	wg.Wait()

	totalRequests := successCount.Load() + errorCount.Load()
	actualRPS := float64(totalRequests) / duration.Seconds()

	log.Println("Load test finished.")
	log.Printf("Total Requests: %d", totalRequests)
	log.Printf("Successful (200 OK): %d", successCount.Load())
	log.Printf("Errors: %d", errorCount.Load())
	log.Printf("Actual RPS: %.2f", actualRPS)
}

const usernameAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789_."

func randomUsername(rng *rand.Rand) string {
	n := 2 + rng.Intn(8)
	b := make([]byte, n)
	for i := range b {
		b[i] = usernameAlphabet[rng.Intn(len(usernameAlphabet))]
	}
	return fmt.Sprintf("lt_%s", b)
}
