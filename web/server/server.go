package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Server handles web requests for the path tracer
type Server struct {
	port     int
	logger   core.Logger
	mux      *http.ServeMux
	renderID atomic.Uint64
}

// NewServer creates a new web server. A nil logger logs to the "web" module.
func NewServer(port int, logger core.Logger) *Server {
	if logger == nil {
		logger = log.New("web")
	}
	s := &Server{port: port, logger: logger, mux: http.NewServeMux()}

	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)
	return s
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene           string `json:"scene"`           // Scene name (e.g., "random-spheres")
	Width           int    `json:"width"`           // Image width, 0 keeps the scene's
	SamplesPerPixel int    `json:"samplesPerPixel"` // 0 keeps the scene's
	MaxDepth        int    `json:"maxDepth"`        // 0 keeps the scene's
	Seed            int64  `json:"seed"`            // 0 keeps the scene's
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Noticef("Starting web server on http://localhost%s", addr)
	server := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes by group
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scene.ListAllScenes())
}

// handleRender renders a scene and streams it back as a PPM image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, scene.ErrUnknownScene) && !errors.Is(err, renderer.ErrInvalidConfig) {
			status = http.StatusInternalServerError
		}
		writeError(w, status, err.Error())
		return
	}

	logger := NewRenderLogger(s.renderID.Add(1), s.logger)
	if sceneObj.CameraConfig.Width*sceneObj.CameraConfig.Height() > 800*600 && sceneObj.SamplingConfig.SamplesPerPixel > 100 {
		logger.Warningf("Large image with high samples may render slowly")
	}

	w.Header().Set("Content-Type", "image/x-portable-pixmap")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Headers are sent with the first row, so later failures can only be logged
	stats, err := sceneObj.NewRaytracer(logger).Render(r.Context(), w)
	if err != nil {
		logger.Errorf("Render of %s aborted: %v", req.Scene, err)
		return
	}
	logger.Noticef("Rendered %s: %dx%d, %d rays in %v", req.Scene, stats.Width, stats.Height, stats.Rays, stats.Duration)
}

// parseRenderRequest parses request parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 0, 1, 2000); err != nil {
		return nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(values, "spp", 0, 1, 10000); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(values, "depth", 0, 1, 1000); err != nil {
		return nil, err
	}
	if value := values.Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene builds the requested scene and validates the merged configuration
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := scene.Create(req.Scene, scene.Overrides{
		Camera: renderer.CameraConfig{Width: req.Width},
		Sampling: renderer.SamplingConfig{
			SamplesPerPixel: req.SamplesPerPixel,
			MaxDepth:        req.MaxDepth,
			Seed:            req.Seed,
		},
	})
	if err != nil {
		return nil, err
	}
	if err := sceneObj.CameraConfig.Validate(); err != nil {
		return nil, err
	}
	if err := sceneObj.SamplingConfig.Validate(); err != nil {
		return nil, err
	}
	return sceneObj, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
