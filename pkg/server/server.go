package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rajdefenseye/CMMC-lens3/pkg/catalog"
	"github.com/rajdefenseye/CMMC-lens3/pkg/config"
	"github.com/rajdefenseye/CMMC-lens3/pkg/engine"
	"github.com/rajdefenseye/CMMC-lens3/pkg/logger"
	"github.com/rajdefenseye/CMMC-lens3/pkg/report"
)

const serviceName = "cmmc-lens"

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status        string `json:"status"`
	Service       string `json:"service"`
	Rules         int    `json:"rules"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Timestamp     int64  `json:"timestamp"`
}

// Server serves CSV analysis over HTTP
type Server struct {
	evaluator  *engine.Evaluator
	catalog    *catalog.Catalog
	cfg        config.ServerConfig
	startTime  time.Time
	httpServer *http.Server // kept for graceful shutdown
}

// NewServer creates a server. Call Start to listen.
func NewServer(ev *engine.Evaluator, cat *catalog.Catalog, cfg config.ServerConfig) *Server {
	return &Server{
		evaluator: ev,
		catalog:   cat,
		cfg:       cfg,
		startTime: time.Now(),
	}
}

// Handler returns the routed handler wrapped in CORS
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/analyze", func(w http.ResponseWriter, r *http.Request) {
		logger.Debugf("Received request: %s %s", r.Method, r.URL.Path)
		s.handleAnalyze(w, r)
	})
	mux.HandleFunc("/controls", s.handleControls)
	mux.HandleFunc("/health", s.handleHealth)
	return s.enableCORS(mux)
}

// Start creates the upload dir and serves until Stop is called.
func (s *Server) Start(addr string) error {
	if err := os.MkdirAll(s.cfg.UploadDir, 0700); err != nil {
		return fmt.Errorf("failed to create upload dir: %w", err)
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Infof("HTTP server listening on: %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the HTTP server with a timeout.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	logger.Infof("Stopping HTTP server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	logger.Infof("HTTP server stopped successfully")
	return nil
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not supported")
		return
	}

	limit := s.cfg.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File exceeds the %d MB upload limit", s.cfg.MaxUploadMB))
			return
		}
		// A file part sent with an empty filename is parsed as a plain value.
		if errors.Is(err, http.ErrMissingFile) && r.MultipartForm != nil && len(r.MultipartForm.Value["file"]) > 0 {
			writeError(w, http.StatusBadRequest, "No selected file")
			return
		}
		writeError(w, http.StatusBadRequest, "No file part")
		return
	}
	defer file.Close()
	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		writeError(w, http.StatusBadRequest, "Invalid file type. Only CSV files are allowed.")
		return
	}

	path, err := s.saveUpload(file)
	if path != "" {
		defer func() {
			if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
				logger.Warnf("Failed to remove upload %s: %v", path, rmErr)
			}
		}()
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Debugf("Analyzing upload %q stored at %s", header.Filename, path)
	rep, err := s.evaluator.Analyze(path)
	if err != nil {
		logger.Warnf("Analysis of %q failed: %v", header.Filename, err)
		writeError(w, http.StatusInternalServerError, engine.Classify(err).Error())
		return
	}

	data, err := report.JSON(rep)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// saveUpload copies the upload to a server-chosen name under UploadDir.
// The returned path is set whenever a file was created, even on error.
func (s *Server) saveUpload(src io.Reader) (string, error) {
	if err := os.MkdirAll(s.cfg.UploadDir, 0700); err != nil {
		return "", fmt.Errorf("failed to prepare upload dir: %w", err)
	}
	path := filepath.Join(s.cfg.UploadDir, uuid.NewString()+".csv")
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return path, fmt.Errorf("failed to store upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		return path, fmt.Errorf("failed to store upload: %w", err)
	}
	return path, nil
}

func (s *Server) handleControls(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not supported")
		return
	}
	writeJSON(w, http.StatusOK, s.catalog)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, &HealthResponse{
		Status:        "healthy",
		Service:       serviceName,
		Rules:         len(s.evaluator.RuleNames()),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Timestamp:     time.Now().Unix(),
	})
}

func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, report.ErrorPayload{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warnf("Failed to encode response: %v", err)
	}
}
