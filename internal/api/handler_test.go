package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/sitescout/sitescout-api/internal/audit"
	"github.com/sitescout/sitescout-api/internal/export"
	"github.com/sitescout/sitescout-api/internal/models"
	"github.com/sitescout/sitescout-api/internal/scout"
	"github.com/sitescout/sitescout-api/internal/verify"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type recordingAuditor struct {
	got    []models.AnalyzeRequest
	result models.AnalysisResult
}

func (a *recordingAuditor) Analyze(_ context.Context, req models.AnalyzeRequest) models.AnalysisResult {
	a.got = append(a.got, req)
	return a.result
}

func newTestRouter(t *testing.T, auditor Auditor, opts RouterOptions) *gin.Engine {
	logger := zaptest.NewLogger(t)
	if auditor == nil {
		auditor = audit.NewService(logger)
	}
	h := NewHandler(
		scout.NewService(logger, scout.WithDelay(0)),
		auditor,
		verify.NewVerifier(logger, 0),
		logger,
	)
	return NewRouter(h, logger, opts)
}

func doJSON(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRoot(t *testing.T) {
	router := newTestRouter(t, nil, RouterOptions{})

	w := doJSON(router, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"SiteScout CRM Active"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, nil, RouterOptions{})

	w := doJSON(router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestScoutReturnsTenLeads(t *testing.T) {
	router := newTestRouter(t, nil, RouterOptions{})

	w := doJSON(router, http.MethodPost, "/api/scout", `{"industry":"plumbing","location":"Austin, TX"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var leads []models.BusinessProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &leads))
	assert.Len(t, leads, scout.LeadsPerPage)

	again := doJSON(router, http.MethodPost, "/api/scout", `{"industry":"plumbing","location":"Austin, TX","page":1}`)
	assert.Equal(t, w.Body.String(), again.Body.String(), "missing page defaults to 1")
}

func TestScoutResponseShape(t *testing.T) {
	router := newTestRouter(t, nil, RouterOptions{})

	w := doJSON(router, http.MethodPost, "/api/scout", `{"industry":"plumbing","location":"Austin, TX","page":2}`)
	require.Equal(t, http.StatusOK, w.Code)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	require.Len(t, raw, scout.LeadsPerPage)

	for _, lead := range raw {
		for _, key := range []string{"id", "name", "industry", "location", "website", "phone", "email", "social_media", "source_url", "rating", "review_count"} {
			assert.Contains(t, lead, key)
		}
		assert.NotNil(t, lead["social_media"])
	}
}

func TestScoutRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(t, nil, RouterOptions{})

	bodies := []string{
		`{"industry":"plumbing"}`,
		`{"location":"Austin, TX"}`,
		`{"industry":"plumbing","location":"Austin, TX","page":"two"}`,
		`not json`,
	}
	for _, body := range bodies {
		w := doJSON(router, http.MethodPost, "/api/scout", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Contains(t, w.Body.String(), "error")
	}
}

func TestExportLeads(t *testing.T) {
	router := newTestRouter(t, nil, RouterOptions{})

	w := doJSON(router, http.MethodPost, "/api/scout/export", `{"industry":"plumbing","location":"Austin, TX","page":3}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="leads-plumbing-austin-tx-p3.xlsx"`)

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, scout.LeadsPerPage+1)
}

func TestAnalyzeWithoutModel(t *testing.T) {
	router := newTestRouter(t, nil, RouterOptions{})

	w := doJSON(router, http.MethodPost, "/api/analyze", `{"business_name":"Apex Plumbing Co","industry":"plumbing","location":"Austin, TX"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result models.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, audit.NoModelScore, result.AuditScore)
	assert.Contains(t, result.OutreachMessage, "configure")
}

func TestAnalyzePassesRequestThrough(t *testing.T) {
	auditor := &recordingAuditor{result: audit.RateLimitResult()}
	router := newTestRouter(t, auditor, RouterOptions{})

	w := doJSON(router, http.MethodPost, "/api/analyze", `{"business_name":"Apex","industry":"plumbing","location":"Austin, TX","website":"www.apex.com"}`)

	assert.Equal(t, http.StatusOK, w.Code, "upstream failures are reported in the body")
	require.Len(t, auditor.got, 1)
	require.NotNil(t, auditor.got[0].Website)
	assert.Equal(t, "www.apex.com", *auditor.got[0].Website)

	var result models.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, audit.RateLimitResult(), result)
}

func TestAnalyzeRejectsMissingFields(t *testing.T) {
	router := newTestRouter(t, nil, RouterOptions{})

	w := doJSON(router, http.MethodPost, "/api/analyze", `{"business_name":"Apex"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEmptyStringsAreAccepted(t *testing.T) {
	auditor := &recordingAuditor{result: audit.NoModelResult()}
	router := newTestRouter(t, auditor, RouterOptions{})

	scoutResp := doJSON(router, http.MethodPost, "/api/scout", `{"industry":"","location":""}`)
	require.Equal(t, http.StatusOK, scoutResp.Code)
	var leads []models.BusinessProfile
	require.NoError(t, json.Unmarshal(scoutResp.Body.Bytes(), &leads))
	assert.Len(t, leads, scout.LeadsPerPage)

	analyzeResp := doJSON(router, http.MethodPost, "/api/analyze", `{"business_name":"","industry":"","location":""}`)
	assert.Equal(t, http.StatusOK, analyzeResp.Code)
	require.Len(t, auditor.got, 1)
	assert.Equal(t, models.AnalyzeRequest{}, auditor.got[0])

	verifyResp := doJSON(router, http.MethodPost, "/api/verify-email", `{"email":""}`)
	require.Equal(t, http.StatusOK, verifyResp.Code)
	assert.JSONEq(t, `{"status":"`+string(verify.Classify(""))+`"}`, verifyResp.Body.String())
}

func TestVerifyEmailRejectsMissingOrNullEmail(t *testing.T) {
	router := newTestRouter(t, nil, RouterOptions{})

	for _, body := range []string{`{}`, `{"email":null}`} {
		w := doJSON(router, http.MethodPost, "/api/verify-email", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestVerifyEmail(t *testing.T) {
	router := newTestRouter(t, nil, RouterOptions{})

	tests := map[string]string{
		"lead1@example.com":  "invalid",
		" TEST@example.com ": "valid",
	}
	for email, want := range tests {
		body, err := json.Marshal(models.VerifyEmailRequest{Email: &email})
		require.NoError(t, err)

		w := doJSON(router, http.MethodPost, "/api/verify-email", string(body))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"`+want+`"}`, w.Body.String(), email)
	}
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	router := newTestRouter(t, nil, RouterOptions{})

	req := httptest.NewRequest(http.MethodOptions, "/api/scout", nil)
	req.Header.Set("Origin", "https://crm.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	router := newTestRouter(t, nil, RouterOptions{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil, RouterOptions{})

	doJSON(router, http.MethodGet, "/", "")
	w := doJSON(router, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sitescout_http_request_duration_seconds")
}

func TestRateLimitedRoutes(t *testing.T) {
	router := newTestRouter(t, nil, RouterOptions{RateLimiter: NewRateLimiter(0.5, 2)})

	body := `{"email":"someone@example.com"}`
	assert.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, "/api/verify-email", body).Code)
	assert.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, "/api/verify-email", body).Code)

	w := doJSON(router, http.MethodPost, "/api/verify-email", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, doJSON(router, http.MethodGet, "/", "").Code, "liveness is never throttled")
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "buckets are per client")

	now = now.Add(rl.idle + time.Second)
	rl.Allow("10.0.0.3")

	rl.mu.Lock()
	_, stale := rl.visitors["10.0.0.1"]
	rl.mu.Unlock()
	assert.False(t, stale)
}

func TestScoutTreatsNonPositivePageAsFirst(t *testing.T) {
	h := NewHandler(scout.NewService(zap.NewNop(), scout.WithDelay(0)), audit.NewService(zap.NewNop()), verify.NewVerifier(zap.NewNop(), 0), zap.NewNop())
	router := NewRouter(h, zap.NewNop(), RouterOptions{})

	negative := doJSON(router, http.MethodPost, "/api/scout", `{"industry":"roofing","location":"Denver, CO","page":-4}`)
	first := doJSON(router, http.MethodPost, "/api/scout", `{"industry":"roofing","location":"Denver, CO","page":1}`)

	require.Equal(t, http.StatusOK, negative.Code)
	assert.Equal(t, first.Body.String(), negative.Body.String())
}
