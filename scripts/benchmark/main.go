package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"
)

// CLI flags
var (
	apiURL  = flag.String("api-url", "http://localhost:5000", "ogcrawl base URL")
	apiKey  = flag.String("api-key", "", "API key for authenticated requests")
	runs    = flag.Int("runs", 3, "Number of runs per URL")
	urlList = flag.String("urls", "", "Comma-separated URLs to benchmark instead of the built-in set")
	output  = flag.String("output", "benchmark-results.json", "JSON output file path")
)

// Built-in targets: pages with server-side OG tags and pages that need rendering.
var testURLs = []struct {
	Label string
	URL   string
}{
	{"Static", "https://github.com/go-rod/rod"},
	{"Blog", "https://go.dev/blog/go1.21"},
	{"News", "https://www.bbc.com/news"},
	{"Shop", "https://www.musinsa.com/app/goods/1"},
	{"No OG", "https://example.com"},
}

// --- Response types (mirrors models package) ---

type pageMetadata struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Image         *string `json:"image"`
	OriginalPrice *string `json:"original_price"`
	DiscountRate  *string `json:"discount_rate"`
	FinalPrice    *string `json:"final_price"`
}

type crawlingResponse struct {
	Method string        `json:"method"`
	Data   *pageMetadata `json:"data"`
	Error  string        `json:"error"`
}

// --- Benchmark result types ---

type runResult struct {
	Run        int    `json:"run"`
	LatencyMs  int64  `json:"latency_ms"`
	StatusCode int    `json:"status_code"`
	Method     string `json:"method,omitempty"`
	OGFields   int    `json:"og_fields"`
	HasPrice   bool   `json:"has_price"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

type urlResult struct {
	URL          string      `json:"url"`
	Label        string      `json:"label"`
	Runs         []runResult `json:"runs"`
	AvgLatencyMs float64     `json:"avg_latency_ms"`
	Method       string      `json:"method"`
}

type benchmarkReport struct {
	Timestamp  string      `json:"timestamp"`
	APIURL     string      `json:"api_url"`
	RunsPerURL int         `json:"runs_per_url"`
	Results    []urlResult `json:"results"`
}

func main() {
	flag.Parse()

	fmt.Println("=== ogcrawl Benchmark ===")
	fmt.Printf("API URL:   %s\n", *apiURL)
	fmt.Printf("Runs/URL:  %d\n", *runs)
	fmt.Printf("Output:    %s\n", *output)
	fmt.Println()

	if err := checkAPI(*apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		os.Exit(1)
	}

	targets := testURLs
	if *urlList != "" {
		targets = targets[:0:0]
		for _, u := range strings.Split(*urlList, ",") {
			if u = strings.TrimSpace(u); u != "" {
				targets = append(targets, struct {
					Label string
					URL   string
				}{"Custom", u})
			}
		}
	}

	report := benchmarkReport{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		APIURL:     *apiURL,
		RunsPerURL: *runs,
	}

	client := &http.Client{Timeout: 90 * time.Second}
	for _, t := range targets {
		fmt.Printf("Benchmarking [%s] %s ...\n", t.Label, t.URL)
		ur := urlResult{URL: t.URL, Label: t.Label}

		for i := 1; i <= *runs; i++ {
			fmt.Printf("  Run %d/%d ... ", i, *runs)
			rr := benchmarkURL(client, t.URL, i)
			if rr.Success {
				fmt.Printf("OK  %dms  %s  og=%d/3\n", rr.LatencyMs, rr.Method, rr.OGFields)
			} else {
				fmt.Printf("FAILED (HTTP %d): %s\n", rr.StatusCode, rr.Error)
			}
			ur.Runs = append(ur.Runs, rr)
		}

		ur.AvgLatencyMs, ur.Method = summarize(ur.Runs)
		report.Results = append(report.Results, ur)
		fmt.Println()
	}

	printTable(report.Results)

	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

func checkAPI(baseURL string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func benchmarkURL(client *http.Client, target string, run int) runResult {
	rr := runResult{Run: run}

	req, err := http.NewRequest(http.MethodGet, *apiURL+"/crawling?url="+url.QueryEscape(target), nil)
	if err != nil {
		rr.Error = fmt.Sprintf("request error: %v", err)
		return rr
	}
	if *apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+*apiKey)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		rr.Error = fmt.Sprintf("request failed: %v", err)
		return rr
	}
	defer resp.Body.Close()

	var cr crawlingResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&cr)
	rr.LatencyMs = time.Since(start).Milliseconds()
	rr.StatusCode = resp.StatusCode

	switch {
	case decodeErr != nil:
		rr.Error = fmt.Sprintf("decode error: %v", decodeErr)
	case resp.StatusCode != http.StatusOK:
		rr.Error = cr.Error
	case cr.Data == nil:
		rr.Error = "missing data"
	default:
		rr.Success = true
		rr.Method = cr.Method
		rr.OGFields = countSet(cr.Data.Title, cr.Data.Description, cr.Data.Image)
		rr.HasPrice = countSet(cr.Data.OriginalPrice, cr.Data.DiscountRate, cr.Data.FinalPrice) > 0
	}
	return rr
}

func countSet(values ...*string) int {
	n := 0
	for _, v := range values {
		if v != nil {
			n++
		}
	}
	return n
}

// summarize returns the mean latency of successful runs and the most common method.
func summarize(runs []runResult) (float64, string) {
	var total int64
	methods := map[string]int{}
	for _, r := range runs {
		if !r.Success {
			continue
		}
		total += r.LatencyMs
		methods[r.Method]++
	}

	var ok int
	for _, n := range methods {
		ok += n
	}
	if ok == 0 {
		return 0, ""
	}

	names := make([]string, 0, len(methods))
	for m := range methods {
		names = append(names, m)
	}
	sort.Slice(names, func(i, j int) bool {
		if methods[names[i]] != methods[names[j]] {
			return methods[names[i]] > methods[names[j]]
		}
		return names[i] < names[j]
	})
	return float64(total) / float64(ok), names[0]
}

func printTable(results []urlResult) {
	fmt.Println(strings.Repeat("─", 78))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "URL\tAvg Latency\tMethod\tSuccess\n")
	fmt.Fprintf(w, "───\t───────────\t──────\t───────\n")

	for _, r := range results {
		ok := 0
		for _, run := range r.Runs {
			if run.Success {
				ok++
			}
		}
		if ok == 0 {
			fmt.Fprintf(w, "%s\tFAILED\t-\t0/%d\n", truncateURL(r.URL, 40), len(r.Runs))
			continue
		}
		fmt.Fprintf(w, "%s\t%dms\t%s\t%d/%d\n",
			truncateURL(r.URL, 40), int64(r.AvgLatencyMs), r.Method, ok, len(r.Runs))
	}

	w.Flush()
	fmt.Println(strings.Repeat("─", 78))
}

func truncateURL(u string, max int) string {
	if len(u) <= max {
		return u
	}
	return u[:max-3] + "..."
}

func writeJSON(path string, report benchmarkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
