package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

var (
	baseURL      = flag.String("url", "http://127.0.0.1:8090", "ytwatch base url")
	numWorkers   = flag.Int("workers", 20, "concurrent clients")
	testDuration = flag.Duration("duration", 10*time.Second, "length of each phase")
	channelList  = flag.String("channels", "@ExampleChannel", "comma separated references for /videos")
)

var httpClient = &http.Client{
	Timeout: 2 * time.Minute,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
	outcomes map[string]int
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

type pollReport struct {
	SentCount int `json:"sentCount"`
	Results   []struct {
		Input   string `json:"input"`
		Outcome string `json:"outcome"`
	} `json:"results"`
}

func main() {
	flag.Parse()
	channels := strings.Split(*channelList, ",")

	fmt.Println("=== ytwatch Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Target: %s\n\n", *numWorkers, *testDuration, *baseURL)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(*baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Overlapping poll triggers: at most one notification per new upload is expected.
	fmt.Println("\n--- Phase 1: Overlapping polls (GET /check-channels) ---")
	outcomes, sent := runPhase(*testDuration, func(rng *rand.Rand) result {
		return doCheckChannels()
	})
	fmt.Printf("\n  Outcomes: %v | emails sent: %d\n", outcomes, sent)

	fmt.Println("\n--- Phase 2: Mixed load (10% polls, 90% /videos) ---")
	runPhase(*testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.10 {
			return doCheckChannels()
		}
		return doGetVideos(channels[rng.Intn(len(channels))])
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) (map[string]int, int64) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var sent atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < *numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					sent.Add(int64(r.outcomes["notified"]))
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	outcomes := make(map[string]int)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
			for k, v := range r.outcomes {
				outcomes[k] += v
			}
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
	return outcomes, sent.Load()
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)), fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)), fmtDur(percentile(s.latencies, 0.99)))
	}

	if totalOps == 0 {
		return
	}
	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doCheckChannels() result {
	start := time.Now()
	resp, err := httpClient.Get(*baseURL + "/check-channels")
	lat := time.Since(start)
	if err != nil {
		return result{endpoint: "GET /check-channels", latency: lat, err: true}
	}
	defer resp.Body.Close()

	res := result{endpoint: "GET /check-channels", status: resp.StatusCode, latency: lat, err: resp.StatusCode != 200}
	var report pollReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err == nil {
		res.outcomes = make(map[string]int)
		for _, r := range report.Results {
			res.outcomes[r.Outcome]++
		}
	}
	return res
}

func doGetVideos(channel string) result {
	start := time.Now()
	resp, err := httpClient.Get(*baseURL + "/videos?channel=" + url.QueryEscape(channel))
	lat := time.Since(start)
	if err != nil {
		return result{endpoint: "GET /videos", latency: lat, err: true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint: "GET /videos", status: resp.StatusCode, latency: lat, err: resp.StatusCode != 200}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
