package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/atamayo-redbridge/Truly-Prices-Automation/internal/config"
	"github.com/atamayo-redbridge/Truly-Prices-Automation/internal/core"
	"github.com/atamayo-redbridge/Truly-Prices-Automation/internal/xlsx"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			RequestTimeout: 30 * time.Second,
		},
		Upload: config.UploadConfig{
			MaxFileSize:   1 << 20,
			MaxConcurrent: 2,
			MaxWaitTime:   time.Second,
			Timeout:       10 * time.Second,
		},
		Rate: config.RateLimitConfig{Enabled: false},
	}

	service := core.NewService(cfg, xlsx.NewCodec())
	return NewServer(service, cfg)
}

// workbookBytes builds an uploadable pricing workbook.
func workbookBytes(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Input"))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Input", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// multipartUpload wraps file bytes in a multipart form under "file".
func multipartUpload(t *testing.T, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &body, writer.FormDataContentType()
}

func TestHandleTransform(t *testing.T) {
	srv := testServer(t)

	input := workbookBytes(t, [][]interface{}{
		{"Age", "$500"},
		{"18-19", 450.4},
		{"30", 500},
	})
	body, contentType := multipartUpload(t, "Input.xlsx", input)

	req := httptest.NewRequest(http.MethodPost, "/api/transform", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Output.xlsx"`, rec.Header().Get("Content-Disposition"))

	// The response body is a readable workbook with the Output sheet.
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Output")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, core.OutputColumns, rows[0])

	// 18-19 exploded to two single-age rows, then the grouped 30.
	assert.Equal(t, "18", rows[1][2])
	assert.Equal(t, "19", rows[2][2])
	assert.Equal(t, "30", rows[3][2])
}

func TestHandleTransformSchemaError(t *testing.T) {
	srv := testServer(t)

	input := workbookBytes(t, [][]interface{}{
		{"Bracket", "$500"}, // no Age column
		{"18-19", 450},
	})
	body, contentType := multipartUpload(t, "Input.xlsx", input)

	req := httptest.NewRequest(http.MethodPost, "/api/transform", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "SCH001", resp.Code)
	assert.NotEmpty(t, resp.Action)
}

func TestHandleTransformInvalidWorkbook(t *testing.T) {
	srv := testServer(t)

	body, contentType := multipartUpload(t, "Input.xlsx", []byte("not an xlsx file"))

	req := httptest.NewRequest(http.MethodPost, "/api/transform", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "FILE002", resp.Code)
}

func TestHandleTransformMissingFile(t *testing.T) {
	srv := testServer(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("note", "no file attached"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/transform", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "FILE003", resp.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleStatus(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var status core.LimiterStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, 0, status.Active)
	assert.Equal(t, 2, status.MaxConcurrent)
}

func TestHandleIndex(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Process Data")
}

func TestSecurityHeaders(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestRateLimiterAllow(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)

	assert.True(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"), "third request within the window must be rejected")

	// Other IPs have their own bucket.
	assert.True(t, rl.allow("10.0.0.2"))
}
