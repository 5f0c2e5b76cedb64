package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

type TestClient struct {
	baseURL string
	client  *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			// audits may sit through several rate limit backoffs
			Timeout: 4 * time.Minute,
		},
	}
}

var (
	baseURL  string
	industry string
	location string
	page     int
	business string
	website  string
	email    string
	output   string
)

var rootCmd = &cobra.Command{
	Use:   "sitescout-test",
	Short: "Smoke test a running SiteScout API",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		printHeader("SiteScout API - Test Suite")
		fmt.Printf("%sBase URL: %s%s\n\n", colorCyan, baseURL, colorReset)
	},
}

func check(fn func(*TestClient) bool) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if !fn(NewTestClient(baseURL)) {
			os.Exit(1)
		}
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the API")

	allCmd := &cobra.Command{
		Use:   "all",
		Short: "Run every check except export",
		Run:   check((*TestClient).runAllTests),
	}
	healthCmd := &cobra.Command{Use: "health", Short: "Check GET /health", Run: check((*TestClient).testHealthCheck)}
	statusCmd := &cobra.Command{Use: "status", Short: "Check GET /", Run: check((*TestClient).testStatus)}
	scoutCmd := &cobra.Command{Use: "scout", Short: "Fetch a page of leads", Run: check((*TestClient).testScout)}
	analyzeCmd := &cobra.Command{Use: "analyze", Short: "Audit a single business", Run: check((*TestClient).testAnalyze)}
	verifyCmd := &cobra.Command{Use: "verify-email", Short: "Verify one email address", Run: check((*TestClient).testVerifyEmail)}
	exportCmd := &cobra.Command{Use: "export", Short: "Download a page of leads as XLSX", Run: check((*TestClient).testExport)}

	for _, cmd := range []*cobra.Command{allCmd, scoutCmd, exportCmd} {
		cmd.Flags().StringVar(&industry, "industry", "plumbing", "Industry to scout")
		cmd.Flags().StringVar(&location, "location", "Austin, TX", "Location to scout")
		cmd.Flags().IntVar(&page, "page", 1, "Page number")
	}
	for _, cmd := range []*cobra.Command{allCmd, analyzeCmd} {
		cmd.Flags().StringVar(&business, "business", "Apex Plumbing Co", "Business name to audit")
		cmd.Flags().StringVar(&website, "website", "", "Business website; empty audits a business without one")
	}
	for _, cmd := range []*cobra.Command{allCmd, verifyCmd} {
		cmd.Flags().StringVar(&email, "email", "info@apexplumbing.com", "Email address to verify")
	}
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "Write the workbook here instead of the server supplied name")

	rootCmd.AddCommand(allCmd, healthCmd, statusCmd, scoutCmd, analyzeCmd, verifyCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func (tc *TestClient) runAllTests() bool {
	tests := []struct {
		name string
		fn   func() bool
	}{
		{"Health Check", tc.testHealthCheck},
		{"Status", tc.testStatus},
		{"Scout", tc.testScout},
		{"Analyze", tc.testAnalyze},
		{"Verify Email", tc.testVerifyEmail},
	}

	passed := 0
	failed := 0

	for _, test := range tests {
		if test.fn() {
			passed++
		} else {
			failed++
		}
		fmt.Println()
	}

	printHeader("Test Summary")
	fmt.Printf("%sPassed: %d%s\n", colorGreen, passed, colorReset)
	fmt.Printf("%sFailed: %d%s\n", colorRed, failed, colorReset)
	fmt.Printf("Total: %d\n", passed+failed)

	return failed == 0
}

func (tc *TestClient) testHealthCheck() bool {
	printTestHeader("Testing Health Check Endpoint")

	body, ok := tc.get("/health")
	if !ok {
		return false
	}

	if string(body) != "OK" {
		printError(fmt.Sprintf("Expected body 'OK', got '%s'", string(body)))
		return false
	}

	printSuccess("Health check passed")
	return true
}

func (tc *TestClient) testStatus() bool {
	printTestHeader("Testing Status Endpoint")

	body, ok := tc.get("/")
	if !ok {
		return false
	}

	var status map[string]string
	if err := json.Unmarshal(body, &status); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}
	if status["status"] == "" {
		printError("Missing status field")
		return false
	}

	printSuccess(fmt.Sprintf("Service reports %q", status["status"]))
	return true
}

func (tc *TestClient) testScout() bool {
	printTestHeader("Testing Lead Scout")

	body, ok := tc.postJSON("/api/scout", map[string]any{
		"industry": industry,
		"location": location,
		"page":     page,
	})
	if !ok {
		return false
	}

	var leads []map[string]any
	if err := json.Unmarshal(body, &leads); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}
	if len(leads) != 10 {
		printError(fmt.Sprintf("Expected 10 leads, got %d", len(leads)))
		return false
	}

	requiredFields := []string{"id", "name", "industry", "location", "website", "phone", "email", "social_media", "source_url", "rating", "review_count"}
	for i, lead := range leads {
		for _, field := range requiredFields {
			if _, ok := lead[field]; !ok {
				printError(fmt.Sprintf("Lead %d missing field: %s", i, field))
				return false
			}
		}
	}

	printSuccess("Received 10 well formed leads")
	fmt.Printf("\n%sLeads:%s\n", colorYellow, colorReset)
	fmt.Println(strings.Repeat("=", 80))
	for _, lead := range leads {
		site, _ := lead["website"].(string)
		if site == "" {
			site = "(no website)"
		}
		fmt.Printf("%-40v %v\n", lead["name"], site)
	}
	fmt.Println(strings.Repeat("=", 80))
	return true
}

func (tc *TestClient) testAnalyze() bool {
	printTestHeader("Testing Business Audit")

	req := map[string]any{
		"business_name": business,
		"industry":      industry,
		"location":      location,
	}
	if website != "" {
		req["website"] = website
	}
	fmt.Printf("%sBusiness:%s %s\n", colorCyan, colorReset, business)

	body, ok := tc.postJSON("/api/analyze", req)
	if !ok {
		return false
	}

	var result struct {
		AuditScore      *int     `json:"audit_score"`
		PainPoints      []string `json:"pain_points"`
		Improvements    []string `json:"improvements"`
		OutreachMessage string   `json:"outreach_message"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}
	if result.AuditScore == nil || result.PainPoints == nil || result.Improvements == nil {
		printError("Audit response is missing fields")
		return false
	}

	printSuccess(fmt.Sprintf("Audit score: %d", *result.AuditScore))
	printJSON(body)
	return true
}

func (tc *TestClient) testVerifyEmail() bool {
	printTestHeader("Testing Email Verification")

	body, ok := tc.postJSON("/api/verify-email", map[string]string{"email": email})
	if !ok {
		return false
	}

	var result map[string]string
	if err := json.Unmarshal(body, &result); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}

	switch result["status"] {
	case "valid", "invalid":
		printSuccess(fmt.Sprintf("%s is %s", email, result["status"]))
		return true
	default:
		printError(fmt.Sprintf("Unexpected status %q", result["status"]))
		return false
	}
}

func (tc *TestClient) testExport() bool {
	printTestHeader("Testing Lead Export")

	url := tc.baseURL + "/api/scout/export"
	jsonData, _ := json.Marshal(map[string]any{"industry": industry, "location": location, "page": page})
	fmt.Printf("POST %s\n", url)

	resp, err := tc.client.Post(url, "application/json", bytes.NewReader(jsonData))
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", resp.StatusCode))
		fmt.Printf("Response: %s\n", string(body))
		return false
	}

	target := output
	if target == "" {
		target = filenameFromDisposition(resp.Header.Get("Content-Disposition"))
	}
	if err := os.WriteFile(target, body, 0o644); err != nil {
		printError(fmt.Sprintf("Failed to write %s: %v", target, err))
		return false
	}

	printSuccess(fmt.Sprintf("Wrote %d bytes to %s", len(body), target))
	return true
}

func (tc *TestClient) get(path string) ([]byte, bool) {
	url := tc.baseURL + path
	fmt.Printf("GET %s\n", url)

	resp, err := tc.client.Get(url)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return nil, false
	}
	defer resp.Body.Close()

	return readOK(resp)
}

func (tc *TestClient) postJSON(path string, payload any) ([]byte, bool) {
	url := tc.baseURL + path
	fmt.Printf("POST %s\n", url)

	jsonData, _ := json.MarshalIndent(payload, "", "  ")
	fmt.Printf("%sRequest:%s\n", colorYellow, colorReset)
	fmt.Println(string(jsonData))
	fmt.Println()

	resp, err := tc.client.Post(url, "application/json", bytes.NewReader(jsonData))
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return nil, false
	}
	defer resp.Body.Close()

	return readOK(resp)
}

func readOK(resp *http.Response) ([]byte, bool) {
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", resp.StatusCode))
		fmt.Printf("Response: %s\n", string(body))
		return nil, false
	}
	return body, true
}

func filenameFromDisposition(header string) string {
	const marker = `filename="`
	if i := strings.Index(header, marker); i >= 0 {
		rest := header[i+len(marker):]
		if j := strings.Index(rest, `"`); j >= 0 {
			return rest[:j]
		}
	}
	return "leads.xlsx"
}

func printHeader(text string) {
	fmt.Printf("\n%s%s%s\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
	fmt.Printf("%s= %s =%s\n", colorBlue, text, colorReset)
	fmt.Printf("%s%s%s\n\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
}

func printTestHeader(text string) {
	fmt.Printf("%s[TEST] %s%s\n", colorCyan, text, colorReset)
	fmt.Println(strings.Repeat("-", 80))
}

func printSuccess(text string) {
	fmt.Printf("%s✓ %s%s\n", colorGreen, text, colorReset)
}

func printError(text string) {
	fmt.Printf("%s✗ %s%s\n", colorRed, text, colorReset)
}

func printJSON(data []byte) {
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, data, "", "  "); err == nil {
		fmt.Printf("\n%sResponse:%s\n%s\n", colorYellow, colorReset, prettyJSON.String())
	}
}
