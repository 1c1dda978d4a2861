// Package server provides the HTTP control and overlay API for the Mudra
// gesture mouse.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/mapping"
)

// Control is the narrow command surface the server drives. Commands are
// queued and take effect frame-synchronously in the engine.
type Control interface {
	Enqueue(cmd engine.Command)
	Mode() mapping.Mode
	Calibrating() bool
	SmoothingAlpha() float64
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Camera    capture.Camera
	Control   Control
	Settings  config.Config
	Events    *EventsHandler
}

// Server represents the HTTP server for the Mudra application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/config", s.handleConfig)

	if s.config.Control != nil {
		s.mux.HandleFunc("/api/mode", s.handleMode)
		s.mux.HandleFunc("/api/calibration", s.handleCalibration)
		s.mux.HandleFunc("/api/smoothing", s.handleSmoothing)
	}

	if s.config.Events != nil {
		s.mux.Handle("/api/events", s.config.Events)
	}

	// Register camera stream endpoint if Camera is configured
	if s.config.Camera != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Camera))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.Control != nil {
		response["mode"] = s.config.Control.Mode().String()
		response["calibrating"] = s.config.Control.Calibrating()
	}

	writeJSON(w, http.StatusOK, response)
}

// handleConfig handles GET requests to /api/config.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.config.Settings)
}

// handleMode reports the operating mode on GET and toggles it on POST.
func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]string{
			"mode": s.config.Control.Mode().String(),
		})
	case http.MethodPost:
		s.config.Control.Enqueue(engine.CmdToggleMode)
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleCalibration reports calibration status on GET and starts a
// session on POST.
func (s *Server) handleCalibration(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"active": s.config.Control.Calibrating(),
		})
	case http.MethodPost:
		s.config.Control.Enqueue(engine.CmdStartCalibration)
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleSmoothing adjusts motion smoothing on POST.
func (s *Server) handleSmoothing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	switch req.Direction {
	case "up":
		s.config.Control.Enqueue(engine.CmdSmoothingUp)
	case "down":
		s.config.Control.Enqueue(engine.CmdSmoothingDown)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "direction must be \"up\" or \"down\""})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"status": "queued",
		"alpha":  s.config.Control.SmoothingAlpha(),
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
