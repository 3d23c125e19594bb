package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// user is the part of the session response the test reads
type user struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Wallet string `json:"wallet"`
}

// walletResponse is the body of a wallet mutation
type walletResponse struct {
	User user `json:"user"`
}

// Scenario is one kind of wallet request
type Scenario struct {
	Name   string
	Path   string
	Amount string
	Sign   int64 // +1 credits, -1 debits
}

// Result is the outcome of a single request
type Result struct {
	Scenario     Scenario
	StatusCode   int
	ResponseTime time.Duration
	Err          error
}

// Stats aggregates the results
type Stats struct {
	mu            sync.Mutex
	Total         int
	Accepted      int
	Rejected      int
	Failed        int
	ResponseTimes []time.Duration
	StatusCounts  map[int]int
	ScenarioCount map[string]int
	Expected      decimal.Decimal // Net effect of the accepted requests
}

func (s *Stats) add(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ResponseTimes = append(s.ResponseTimes, r.ResponseTime)
	s.ScenarioCount[r.Scenario.Name]++
	if r.Err != nil {
		s.Failed++
		return
	}
	s.StatusCounts[r.StatusCode]++
	switch {
	case r.StatusCode >= 200 && r.StatusCode < 300:
		s.Accepted++
		amount := decimal.RequireFromString(r.Scenario.Amount)
		s.Expected = s.Expected.Add(amount.Mul(decimal.NewFromInt(r.Scenario.Sign)))
	case r.StatusCode >= 400 && r.StatusCode < 500:
		// Insufficient funds and busy lock are valid outcomes under contention
		s.Rejected++
	default:
		s.Failed++
	}
}

func main() {
	concurrency := flag.Int("c", 5, "Number of concurrent workers")
	totalRequests := flag.Int("n", 100, "Total number of wallet requests")
	baseURL := flag.String("url", "http://127.0.0.1:8080", "Base URL of the ledger")
	name := flag.String("name", "admin", "Handle to sign in with")
	phone := flag.String("phone", "01700000000", "Phone of the handle")
	rps := flag.Float64("rps", 20, "Request rate limit across all workers")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	if err := signIn(client, *baseURL, *name, *phone); err != nil {
		fmt.Println("Sign-in failed:", err)
		os.Exit(1)
	}
	before, err := currentUser(client, *baseURL)
	if err != nil {
		fmt.Println("Could not read session:", err)
		os.Exit(1)
	}

	scenarios := []Scenario{
		{"Deposit Small", "/wallet/deposit", "10.00", 1},
		{"Deposit Large", "/wallet/deposit", "250.50", 1},
		{"Withdraw", "/wallet/withdraw", "100.00", -1},
		{"Withdraw Large", "/wallet/withdraw", "400.25", -1},
	}

	fmt.Printf("Load testing %s as %s (wallet %s)\n", *baseURL, before.Name, before.Wallet)
	fmt.Printf("Concurrency: %d, requests: %d, rate: %.1f/s\n", *concurrency, *totalRequests, *rps)

	stats := &Stats{
		Total:         *totalRequests,
		StatusCounts:  make(map[int]int),
		ScenarioCount: make(map[string]int),
		ResponseTimes: make([]time.Duration, 0, *totalRequests),
	}

	limiter := rate.NewLimiter(rate.Limit(*rps), *concurrency)
	jobs := make(chan int, *totalRequests)
	for i := 0; i < *totalRequests; i++ {
		jobs <- i
	}
	close(jobs)

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				if err := limiter.Wait(context.Background()); err != nil {
					return
				}
				scenario := scenarios[rand.Intn(len(scenarios))]
				stats.add(send(client, *baseURL, scenario))
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	after, err := currentUser(client, *baseURL)
	if err != nil {
		fmt.Println("Could not read session:", err)
		os.Exit(1)
	}

	printResults(stats, elapsed, before, after)
}

func postJSON(client *http.Client, url string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return client.Do(req)
}

func signIn(client *http.Client, baseURL, name, phone string) error {
	resp, err := postJSON(client, baseURL+"/auth/begin", map[string]string{
		"mode":     "signin",
		"name":     name,
		"phone":    phone,
		"password": "load-test-password",
	})
	if err != nil {
		return err
	}
	resp.Body.Close()
	// 409 means a session is already active
	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusConflict {
		return fmt.Errorf("begin returned HTTP %d", resp.StatusCode)
	}
	if resp.StatusCode == http.StatusConflict {
		return nil
	}

	resp, err = postJSON(client, baseURL+"/auth/verify", map[string]string{"code": "000000"})
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("verify returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func currentUser(client *http.Client, baseURL string) (user, error) {
	var u user
	resp, err := client.Get(baseURL + "/session")
	if err != nil {
		return u, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return u, fmt.Errorf("session returned HTTP %d", resp.StatusCode)
	}
	err = json.NewDecoder(resp.Body).Decode(&u)
	return u, err
}

func send(client *http.Client, baseURL string, scenario Scenario) Result {
	start := time.Now()
	resp, err := postJSON(client, baseURL+scenario.Path, map[string]string{"amount": scenario.Amount})
	result := Result{Scenario: scenario, ResponseTime: time.Since(start)}
	if err != nil {
		result.Err = err
		return result
	}
	defer resp.Body.Close()
	result.StatusCode = resp.StatusCode
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var body walletResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			result.Err = err
		}
	}
	return result
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)*p/100]
}

func printResults(stats *Stats, elapsed time.Duration, before, after user) {
	sorted := slices.Clone(stats.ResponseTimes)
	slices.Sort(sorted)

	var total time.Duration
	for _, d := range sorted {
		total += d
	}
	var avg time.Duration
	if len(sorted) > 0 {
		avg = total / time.Duration(len(sorted))
	}

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Requests:    %d\n", stats.Total)
	fmt.Printf("Accepted:          %d\n", stats.Accepted)
	fmt.Printf("Rejected (4xx):    %d\n", stats.Rejected)
	fmt.Printf("Failed:            %d\n", stats.Failed)
	fmt.Printf("Total Test Time:   %.2f seconds\n", elapsed.Seconds())
	fmt.Printf("Throughput:        %.2f req/s\n", float64(stats.Total)/elapsed.Seconds())

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average:           %v\n", avg)
	fmt.Printf("P50:               %v\n", percentile(sorted, 50))
	fmt.Printf("P90:               %v\n", percentile(sorted, 90))
	fmt.Printf("P99:               %v\n", percentile(sorted, 99))

	fmt.Println("\n----------------- STATUS CODES -----------------")
	for code, count := range stats.StatusCounts {
		fmt.Printf("HTTP %d: %d\n", code, count)
	}

	fmt.Println("\n----------------- SCENARIOS -----------------")
	for scenario, count := range stats.ScenarioCount {
		fmt.Printf("%-15s: %d\n", scenario, count)
	}

	// Every accepted request must be reflected exactly once in the wallet
	start := decimal.RequireFromString(before.Wallet)
	end := decimal.RequireFromString(after.Wallet)
	expected := start.Add(stats.Expected)

	fmt.Println("\n================= RECONCILIATION =================")
	fmt.Printf("Wallet before:     %s\n", start.StringFixed(2))
	fmt.Printf("Net accepted:      %s\n", stats.Expected.StringFixed(2))
	fmt.Printf("Wallet expected:   %s\n", expected.StringFixed(2))
	fmt.Printf("Wallet after:      %s\n", end.StringFixed(2))
	if expected.Equal(end) {
		fmt.Println("OK: no lost or duplicated wallet updates")
		return
	}
	fmt.Println("MISMATCH: wallet does not match the accepted requests")
	os.Exit(2)
}
