package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pravallika0730/medical-image-analyzer/analysis"
	"github.com/Pravallika0730/medical-image-analyzer/config"
	"github.com/Pravallika0730/medical-image-analyzer/images"
	"github.com/Pravallika0730/medical-image-analyzer/inference"
	"github.com/Pravallika0730/medical-image-analyzer/model/postprocess"
)

type stubDetector struct {
	results []postprocess.Result
	err     error
}

func (s *stubDetector) Detect(ctx context.Context, img image.Image) ([]postprocess.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func (s *stubDetector) Labels() []string {
	return []string{"glioma", "meningioma", "no_tumor", "pituitary"}
}

func testHandler(stub *stubDetector) http.Handler {
	cfg := &config.Config{
		Port:                8080,
		ModelPath:           "best.onnx",
		ConfidenceThreshold: 0.25,
		PoolSize:            1,
		AcquireTimeout:      time.Second,
	}
	return newServer(analysis.NewPipeline(stub), nil, cfg).Handler
}

func jpegFixture(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{120, 120, 120, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func oneDetection() []postprocess.Result {
	return []postprocess.Result{
		{Box: images.Rect{X1: 10, Y1: 10, X2: 30, Y2: 30}, Score: 0.9, Class: 0},
	}
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) *analysis.DetectionResult {
	t.Helper()
	var result analysis.DetectionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return &result
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return &resp
}

func TestAnalyze_JSONBase64(t *testing.T) {
	handler := testHandler(&stubDetector{results: oneDetection()})

	annotate := false
	body, err := json.Marshal(analyzeJSONRequest{
		Image:    base64.StdEncoding.EncodeToString(jpegFixture(t)),
		Annotate: &annotate,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	result := decodeResult(t, rec)
	assert.Equal(t, 1, result.TotalCount)
	assert.Equal(t, "glioma", result.Detections[0].ClassName)
}

func TestAnalyze_Multipart(t *testing.T) {
	handler := testHandler(&stubDetector{results: oneDetection()})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "scan.jpg")
	require.NoError(t, err)
	_, err = part.Write(jpegFixture(t))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze?annotate=false", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, 1, decodeResult(t, rec).TotalCount)
}

func TestAnalyze_RawBody(t *testing.T) {
	handler := testHandler(&stubDetector{results: oneDetection()})

	req := httptest.NewRequest(http.MethodPost, "/analyze?annotate=false", bytes.NewReader(jpegFixture(t)))
	req.Header.Set("Content-Type", "image/jpeg")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, 1, decodeResult(t, rec).TotalCount)
}

func TestAnalyze_ThresholdQueryFiltersResult(t *testing.T) {
	handler := testHandler(&stubDetector{results: oneDetection()})

	req := httptest.NewRequest(http.MethodPost, "/analyze?annotate=false&confidence_threshold=0.95",
		bytes.NewReader(jpegFixture(t)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec)
	assert.Equal(t, 0, result.TotalCount, "The 0.9 detection falls below the requested 0.95 threshold")
	assert.Nil(t, result.TopDetection)
}

func TestAnalyze_BadRequests(t *testing.T) {
	tests := []struct {
		name         string
		contentType  string
		target       string
		body         []byte
		expectedCode string
	}{
		{
			name:         "malformed JSON",
			contentType:  "application/json",
			target:       "/analyze",
			body:         []byte("{nope"),
			expectedCode: "BAD_REQUEST",
		},
		{
			name:         "invalid base64",
			contentType:  "application/json",
			target:       "/analyze",
			body:         []byte(`{"image": "!!not-base64!!"}`),
			expectedCode: "BAD_REQUEST",
		},
		{
			name:         "undecodable image",
			contentType:  "application/octet-stream",
			target:       "/analyze?annotate=false",
			body:         []byte("not an image"),
			expectedCode: "DECODE_ERROR",
		},
		{
			name:         "threshold not a number",
			contentType:  "application/octet-stream",
			target:       "/analyze?confidence_threshold=lots",
			body:         []byte("irrelevant"),
			expectedCode: "BAD_REQUEST",
		},
	}

	handler := testHandler(&stubDetector{results: oneDetection()})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.target, bytes.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.expectedCode, decodeError(t, rec).Code)
		})
	}
}

func TestAnalyze_ThresholdOutOfRange(t *testing.T) {
	handler := testHandler(&stubDetector{results: oneDetection()})

	req := httptest.NewRequest(http.MethodPost, "/analyze?annotate=false&confidence_threshold=2.0",
		bytes.NewReader(jpegFixture(t)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
}

func TestAnalyze_CapacityExhausted(t *testing.T) {
	handler := testHandler(&stubDetector{err: inference.ErrAcquireTimeout})

	req := httptest.NewRequest(http.MethodPost, "/analyze?annotate=false", bytes.NewReader(jpegFixture(t)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "BUSY", decodeError(t, rec).Code)
}

func TestAnalyze_InferenceFailure(t *testing.T) {
	handler := testHandler(&stubDetector{err: &inference.InferenceError{Err: assert.AnError}})

	req := httptest.NewRequest(http.MethodPost, "/analyze?annotate=false", bytes.NewReader(jpegFixture(t)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INFERENCE_ERROR", decodeError(t, rec).Code)
}

func TestHealthz(t *testing.T) {
	handler := testHandler(&stubDetector{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAnalyze_MethodNotAllowed(t *testing.T) {
	handler := testHandler(&stubDetector{})

	req := httptest.NewRequest(http.MethodGet, "/analyze", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
