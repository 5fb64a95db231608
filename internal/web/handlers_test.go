package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"statusboard/internal/config"
	"statusboard/internal/core"
)

const sampleCSV = `30.9,89.6,RPM,Status
-45.2,-51.3,1765,Healthy
-38.1,-44.9,1770,1H
-52.7,-40.2,1775,Healthy
-36.5,-58.8,1780,2H
`

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  60 * time.Second,
		},
		Upload:  config.UploadConfig{MaxFileSize: 1 << 20},
		Dataset: config.DatasetConfig{TTL: time.Minute, SweepInterval: time.Minute, MaxDatasets: 10},
		Rate:    config.RateLimitConfig{Enabled: false},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := testConfig()
	service := core.NewService(cfg.Dataset.MaxDatasets, cfg.Dataset.TTL, cfg.Dataset.SweepInterval)
	t.Cleanup(service.Close)
	return NewServer(service, cfg)
}

// multipartBody builds a multipart form with a single "file" field.
func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

// uploadSample uploads the canonical fixture and returns the dataset summary.
func uploadSample(t *testing.T, s *Server) core.DatasetInfo {
	t.Helper()
	body, contentType := multipartBody(t, "wear.csv", sampleCSV)

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var info core.DatasetInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	return info
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response %q: %v", rec.Body.String(), err)
	}
	return resp
}

// ----------------------------------------------------------------------------
// Health Tests
// ----------------------------------------------------------------------------

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Status   string `json:"status"`
		Datasets int    `json:"datasets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Datasets != 0 {
		t.Errorf("health = %+v, want ok/0", resp)
	}
}

// ----------------------------------------------------------------------------
// Upload Tests
// ----------------------------------------------------------------------------

func TestHandleCreateDataset(t *testing.T) {
	s := newTestServer(t)
	info := uploadSample(t, s)

	if info.ID == "" {
		t.Error("dataset ID is empty")
	}
	if info.RowCount != 4 {
		t.Errorf("rowCount = %d, want 4", info.RowCount)
	}
	if len(info.StatusDomain) != 3 {
		t.Errorf("statusDomain = %v, want 3 values", info.StatusDomain)
	}
}

func TestHandleCreateDataset_UnsupportedFormat(t *testing.T) {
	s := newTestServer(t)
	body, contentType := multipartBody(t, "data.txt", "plain text")

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415, body: %s", rec.Code, rec.Body.String())
	}
	if resp := decodeErrorResponse(t, rec); resp.Code != "FILE001" {
		t.Errorf("error code = %q, want FILE001", resp.Code)
	}
}

func TestHandleCreateDataset_NoFile(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("note", "forgot the file")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleCreateDataset_HeaderOnly(t *testing.T) {
	s := newTestServer(t)
	body, contentType := multipartBody(t, "empty.csv", "a,b,Status\n")

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body: %s", rec.Code, rec.Body.String())
	}
	if resp := decodeErrorResponse(t, rec); resp.Code != "FILE003" {
		t.Errorf("error code = %q, want FILE003", resp.Code)
	}
}

// ----------------------------------------------------------------------------
// Dataset Tests
// ----------------------------------------------------------------------------

func TestHandleGetDataset(t *testing.T) {
	s := newTestServer(t)
	info := uploadSample(t, s)

	req := httptest.NewRequest(http.MethodGet, "/api/datasets/"+info.ID, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got core.DatasetInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != info.ID || got.FileName != "wear.csv" {
		t.Errorf("dataset = %+v, want id %s", got, info.ID)
	}
}

func TestHandleGetDataset_NotFound(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/datasets/nope", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if resp := decodeErrorResponse(t, rec); resp.Code != "DS001" {
		t.Errorf("error code = %q, want DS001", resp.Code)
	}
}

func TestHandleDeleteDataset(t *testing.T) {
	s := newTestServer(t)
	info := uploadSample(t, s)

	req := httptest.NewRequest(http.MethodDelete, "/api/datasets/"+info.ID, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}

	// The dataset is gone afterwards
	req = httptest.NewRequest(http.MethodGet, "/api/datasets/"+info.ID, nil)
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

// ----------------------------------------------------------------------------
// Domain Tests
// ----------------------------------------------------------------------------

func TestHandleDomain(t *testing.T) {
	s := newTestServer(t)
	info := uploadSample(t, s)

	req := httptest.NewRequest(http.MethodGet, "/api/datasets/"+info.ID+"/domain", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Column string   `json:"column"`
		Values []string `json:"values"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Column != "Status" {
		t.Errorf("column = %q, want Status", resp.Column)
	}
	if len(resp.Values) != 3 || resp.Values[0] != "Healthy" {
		t.Errorf("values = %v, want [Healthy 1H 2H]", resp.Values)
	}
}

func TestHandleDomain_NumericColumn(t *testing.T) {
	s := newTestServer(t)
	info := uploadSample(t, s)

	req := httptest.NewRequest(http.MethodGet, "/api/datasets/"+info.ID+"/domain?column=RPM", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if resp := decodeErrorResponse(t, rec); resp.Code != "VAL001" {
		t.Errorf("error code = %q, want VAL001", resp.Code)
	}
}

// ----------------------------------------------------------------------------
// View Tests
// ----------------------------------------------------------------------------

func postView(t *testing.T, s *Server, id, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/datasets/"+id+"/view",
		strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleView(t *testing.T) {
	s := newTestServer(t)
	info := uploadSample(t, s)

	rec := postView(t, s, info.ID,
		`{"statuses":["Healthy"],"x":{"column":"30.9"},"y":{"column":"89.6"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var result core.ViewResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.RowCount != 2 {
		t.Errorf("rowCount = %d, want 2", result.RowCount)
	}
	if result.Axes.X == nil || result.Axes.X.Column != "30.9" {
		t.Errorf("x axis = %+v, want 30.9", result.Axes.X)
	}
}

func TestHandleView_EmptyBody(t *testing.T) {
	// No spec means nothing selected: an empty but valid view
	s := newTestServer(t)
	info := uploadSample(t, s)

	rec := postView(t, s, info.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var result core.ViewResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.RowCount != 0 {
		t.Errorf("rowCount = %d, want 0", result.RowCount)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a nothing-selected warning")
	}
}

func TestHandleView_TruncatedJSON(t *testing.T) {
	// A cut-off body must fail, not degrade to the "nothing selected" spec
	s := newTestServer(t)
	info := uploadSample(t, s)

	rec := postView(t, s, info.ID, `{"statuses":["Healthy"`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleView_UnknownField(t *testing.T) {
	s := newTestServer(t)
	info := uploadSample(t, s)

	rec := postView(t, s, info.ID, `{"bogus":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleView_InvalidRange(t *testing.T) {
	s := newTestServer(t)
	info := uploadSample(t, s)

	rec := postView(t, s, info.ID,
		`{"selectAll":true,"x":{"column":"RPM","min":1775,"max":1770}}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body: %s", rec.Code, rec.Body.String())
	}
	if resp := decodeErrorResponse(t, rec); resp.Code != "VAL002" {
		t.Errorf("error code = %q, want VAL002", resp.Code)
	}
}

func TestHandleView_MissingStatusColumn(t *testing.T) {
	s := newTestServer(t)
	info := uploadSample(t, s)

	rec := postView(t, s, info.ID, `{"statusColumn":"Condition","selectAll":true}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if resp := decodeErrorResponse(t, rec); resp.Code != "VAL001" {
		t.Errorf("error code = %q, want VAL001", resp.Code)
	}
}

// ----------------------------------------------------------------------------
// Export Tests
// ----------------------------------------------------------------------------

func TestHandleExport(t *testing.T) {
	s := newTestServer(t)
	info := uploadSample(t, s)

	req := httptest.NewRequest(http.MethodPost, "/api/datasets/"+info.ID+"/export",
		strings.NewReader(`{"statuses":["Healthy"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "filtered_") {
		t.Errorf("Content-Disposition = %q, want a filtered_* attachment", cd)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("export has %d lines, want header + 2 rows", len(lines))
	}
	if lines[0] != "30.9,89.6,RPM,Status" {
		t.Errorf("header = %q", lines[0])
	}
}

func TestHandleExport_NotFound(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/datasets/nope/export", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	// Failure happens before any CSV headers are sent
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

// ----------------------------------------------------------------------------
// Middleware Tests
// ----------------------------------------------------------------------------

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)

	if !rl.allow("1.2.3.4") || !rl.allow("1.2.3.4") {
		t.Fatal("first two requests should pass")
	}
	if rl.allow("1.2.3.4") {
		t.Error("third request within the window should be rejected")
	}
	if !rl.allow("5.6.7.8") {
		t.Error("a different IP has its own bucket")
	}
}
