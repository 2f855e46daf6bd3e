package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/Pravallika0730/medical-image-analyzer/analysis"
	"github.com/Pravallika0730/medical-image-analyzer/config"
	"github.com/Pravallika0730/medical-image-analyzer/inference"
)

const maxRequestBytes = 20 << 20

// analyzeJSONRequest is the JSON request body for POST /analyze.
type analyzeJSONRequest struct {
	Image               string   `json:"image"`
	ConfidenceThreshold *float32 `json:"confidence_threshold,omitempty"`
	Annotate            *bool    `json:"annotate,omitempty"`
}

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type server struct {
	pipeline *analysis.Pipeline
	handle   *inference.Handle
	cfg      *config.Config
}

func newServer(pipeline *analysis.Pipeline, handle *inference.Handle, cfg *config.Config) *http.Server {
	s := &server{pipeline: pipeline, handle: handle, cfg: cfg}

	router := mux.NewRouter()
	router.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	router.HandleFunc("/model-info", s.handleModelInfo).Methods(http.MethodGet)
	router.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
}

// handleAnalyze accepts an image as JSON base64, multipart form data, or
// a raw request body and returns the detection result.
func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	imageData, threshold, annotate, ok := s.parseAnalyzeRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := s.pipeline.Analyze(ctx, imageData,
		analysis.WithThreshold(threshold),
		analysis.WithAnnotation(annotate),
	)
	if err != nil {
		s.sendAnalyzeError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, result)
}

// parseAnalyzeRequest extracts the image bytes and per-request options.
// On failure it writes the error response itself and returns ok=false.
func (s *server) parseAnalyzeRequest(w http.ResponseWriter, r *http.Request) (data []byte, threshold float32, annotate bool, ok bool) {
	threshold = s.cfg.ConfidenceThreshold
	annotate = true

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	contentType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		contentType = ""
	}

	switch contentType {
	case "application/json":
		var req analyzeJSONRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			sendErrorResponse(w, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body")
			return nil, 0, false, false
		}
		data, err = base64.StdEncoding.DecodeString(req.Image)
		if err != nil {
			sendErrorResponse(w, http.StatusBadRequest, "BAD_REQUEST", "image field is not valid base64")
			return nil, 0, false, false
		}
		if req.ConfidenceThreshold != nil {
			threshold = *req.ConfidenceThreshold
		}
		if req.Annotate != nil {
			annotate = *req.Annotate
		}

	case "multipart/form-data":
		file, _, err := r.FormFile("file")
		if err != nil {
			sendErrorResponse(w, http.StatusBadRequest, "BAD_REQUEST", "missing multipart field \"file\"")
			return nil, 0, false, false
		}
		defer file.Close()
		data, err = io.ReadAll(file)
		if err != nil {
			sendErrorResponse(w, http.StatusBadRequest, "BAD_REQUEST", "failed to read uploaded file")
			return nil, 0, false, false
		}

	default:
		data, err = io.ReadAll(r.Body)
		if err != nil {
			sendErrorResponse(w, http.StatusBadRequest, "BAD_REQUEST", "failed to read request body")
			return nil, 0, false, false
		}
	}

	if v := r.URL.Query().Get("confidence_threshold"); v != "" {
		parsed, err := strconv.ParseFloat(v, 32)
		if err != nil {
			sendErrorResponse(w, http.StatusBadRequest, "BAD_REQUEST", "confidence_threshold is not a number")
			return nil, 0, false, false
		}
		threshold = float32(parsed)
	}
	if v := r.URL.Query().Get("annotate"); v != "" {
		annotate = v == "true" || v == "1"
	}

	return data, threshold, annotate, true
}

// sendAnalyzeError maps pipeline errors to HTTP statuses. Client input
// problems map to 400, capacity exhaustion to 503, everything else to
// 500.
func (s *server) sendAnalyzeError(w http.ResponseWriter, err error) {
	var (
		decodeErr     *analysis.DecodeError
		validationErr *analysis.ValidationError
		labelErr      *analysis.LabelMappingError
		inferErr      *inference.InferenceError
	)

	switch {
	case errors.As(err, &decodeErr):
		sendErrorResponse(w, http.StatusBadRequest, "DECODE_ERROR", decodeErr.Error())
	case errors.As(err, &validationErr):
		sendErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Error())
	case errors.Is(err, inference.ErrAcquireTimeout), errors.Is(err, context.DeadlineExceeded):
		sendErrorResponse(w, http.StatusServiceUnavailable, "BUSY", "analyzer is at capacity, retry later")
	case errors.As(err, &labelErr):
		log.Printf("ERROR: %v", err)
		sendErrorResponse(w, http.StatusInternalServerError, "LABEL_MAPPING_ERROR", labelErr.Error())
	case errors.As(err, &inferErr):
		log.Printf("ERROR: %v", err)
		sendErrorResponse(w, http.StatusInternalServerError, "INFERENCE_ERROR", "model inference failed")
	default:
		log.Printf("ERROR: %v", err)
		sendErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func (s *server) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, s.handle.ModelInfo())
}

func (s *server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, s.handle.Metrics())
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func sendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("ERROR: failed to encode response: %v", err)
	}
}

func sendErrorResponse(w http.ResponseWriter, status int, code, message string) {
	sendJSON(w, status, ErrorResponse{Code: code, Message: message})
}
