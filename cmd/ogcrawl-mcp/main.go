package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// pageMetadata mirrors the data object of GET /crawling. The static method
// only fills the first three fields.
type pageMetadata struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Image         *string `json:"image"`
	OriginalPrice *string `json:"original_price"`
	DiscountRate  *string `json:"discount_rate"`
	FinalPrice    *string `json:"final_price"`
}

// crawlingResponse mirrors both the success and the error body of GET /crawling.
type crawlingResponse struct {
	Method string        `json:"method"`
	Data   *pageMetadata `json:"data"`
	Error  string        `json:"error"`
}

func main() {
	apiURL := os.Getenv("OGCRAWL_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:5000"
	}
	// Optional: the service runs without auth by default.
	apiKey := os.Getenv("OGCRAWL_API_KEY")

	s := server.NewMCPServer(
		"ogcrawl",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	fetchMetadataTool := mcp.NewTool("fetch_metadata",
		mcp.WithDescription("Fetch Open Graph metadata (title, description, image) for a web page. "+
			"Pages whose tags are injected by JavaScript are rendered in a headless browser, "+
			"which also reads product prices when present."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the page to inspect"),
		),
	)
	s.AddTool(fetchMetadataTool, handleFetchMetadata(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiGet calls GET /crawling and returns the status code and body.
func apiGet(ctx context.Context, client *http.Client, apiURL, apiKey, target string) (int, []byte, error) {
	endpoint := strings.TrimRight(apiURL, "/") + "/crawling?url=" + url.QueryEscape(target)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func handleFetchMetadata(apiURL, apiKey string) server.ToolHandlerFunc {
	// A rendered fetch can take up to the server's render timeout.
	client := &http.Client{Timeout: 60 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		status, body, err := apiGet(ctx, client, apiURL, apiKey, target)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var resp crawlingResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response (HTTP %d): %v", status, err)), nil
		}
		if status != http.StatusOK || resp.Data == nil {
			msg := resp.Error
			if msg == "" {
				msg = "request failed"
			}
			return mcp.NewToolResultError(fmt.Sprintf("HTTP %d: %s", status, msg)), nil
		}

		return mcp.NewToolResultText(formatMetadata(target, resp)), nil
	}
}

func formatMetadata(target string, resp crawlingResponse) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Source: %s\nMethod: %s\n\n", target, resp.Method)

	fields := []struct {
		label string
		value *string
	}{
		{"Title", resp.Data.Title},
		{"Description", resp.Data.Description},
		{"Image", resp.Data.Image},
		{"Original price", resp.Data.OriginalPrice},
		{"Discount rate", resp.Data.DiscountRate},
		{"Final price", resp.Data.FinalPrice},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		fmt.Fprintf(&sb, "%s: %s\n", f.label, *f.value)
	}
	return sb.String()
}
