package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// ProgressUpdate is sent via SSE after every finished scanline
type ProgressUpdate struct {
	ScanlinesRemaining int   `json:"scanlinesRemaining"`
	TotalScanlines     int   `json:"totalScanlines"`
	ElapsedMs          int64 `json:"elapsedMs"`
}

// CompleteUpdate carries the finished image
type CompleteUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Stats     Stats  `json:"stats"`
}

// SSEEvent represents a single server-sent event
type SSEEvent struct {
	Type string `json:"type"` // "console", "progress", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// RenderingPipeline contains the configured scene and raytracer
type RenderingPipeline struct {
	Scene     *scene.Scene
	Raytracer *renderer.Raytracer
}

type renderOutcome struct {
	stats renderer.RenderStats
	err   error
}

// handleRender renders a scene and responds with the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	renderID := newRenderID()
	pipeline, err := s.setupRenderingPipeline(req, NewWebLogger(renderID, nil))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	rt := pipeline.Raytracer
	var buf bytes.Buffer
	writer, err := output.NewWriter(req.Format, &buf, rt.Width(), rt.Height())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Use request context to stop rendering when the client disconnects
	stats, err := rt.Render(r.Context(), writer, nil)
	if err == nil {
		err = writer.Close()
	}
	if err != nil {
		if r.Context().Err() != nil {
			log.Printf("[%s] Client disconnected: %v", renderID, err)
			return
		}
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Render error: %v", err))
		return
	}

	w.Header().Set("Content-Type", req.Format.ContentType())
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Duration-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.Header().Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("[%s] Failed to write image: %v", renderID, err)
	}
}

// handleRenderStream renders a scene, streaming console output and
// per-scanline progress via SSE, and finishes with a base64 PNG
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	consoleChan, webLogger := s.setupConsoleLogging()
	pipeline, err := s.setupRenderingPipeline(req, webLogger)
	if err != nil {
		s.sendSSEError(w, err.Error())
		return
	}

	rt := pipeline.Raytracer
	pngWriter := output.NewPNGWriter(nil, rt.Width(), rt.Height())
	progressChan := make(chan ProgressUpdate, 16)
	done := make(chan renderOutcome, 1)
	startTime := time.Now()

	go func() {
		stats, err := rt.Render(ctx, pngWriter, func(remaining int) {
			update := ProgressUpdate{
				ScanlinesRemaining: remaining,
				TotalScanlines:     rt.Height(),
				ElapsedMs:          time.Since(startTime).Milliseconds(),
			}
			select {
			case progressChan <- update:
			default:
				// Writer is behind, a later update supersedes this one
			}
		})
		done <- renderOutcome{stats: stats, err: err}
	}()

	// This loop is the only writer to w
	for {
		select {
		case msg := <-consoleChan:
			s.sendSSEJSON(w, "console", msg)
		case update := <-progressChan:
			s.sendSSEJSON(w, "progress", update)
		case outcome := <-done:
			s.drainPending(w, consoleChan, progressChan)
			s.finishStream(w, pngWriter.Image(), outcome)
			return
		case <-ctx.Done():
			// Render stops at the next scanline boundary
			<-done
			return
		}
	}
}

// finishStream sends the completed image or the render error
func (s *Server) finishStream(w http.ResponseWriter, img image.Image, outcome renderOutcome) {
	if outcome.err != nil {
		s.sendSSEError(w, fmt.Sprintf("Render error: %v", outcome.err))
		return
	}

	imageData, err := s.imageToBase64PNG(img)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("failed to encode image: %v", err))
		return
	}

	bounds := img.Bounds()
	s.sendSSEJSON(w, "complete", CompleteUpdate{
		ImageData: imageData,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Stats:     toStats(outcome.stats),
	})
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	webLogger := NewWebLogger(newRenderID(), consoleChan)
	return consoleChan, webLogger
}

// setupRenderingPipeline creates and configures the scene and raytracer
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger core.Logger) (*RenderingPipeline, error) {
	sceneObj, err := s.createScene(req)
	if err != nil {
		return nil, err
	}

	rt, err := renderer.NewRaytracer(sceneObj, renderer.RenderConfig{}, logger)
	if err != nil {
		return nil, err
	}

	return &RenderingPipeline{Scene: sceneObj, Raytracer: rt}, nil
}

// drainPending forwards events still queued when the render ends
func (s *Server) drainPending(w http.ResponseWriter, consoleChan chan ConsoleMessage, progressChan chan ProgressUpdate) {
	for {
		select {
		case msg := <-consoleChan:
			s.sendSSEJSON(w, "console", msg)
		case update := <-progressChan:
			s.sendSSEJSON(w, "progress", update)
		default:
			return
		}
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// sendSSEJSON marshals v and sends it as an SSE event
func (s *Server) sendSSEJSON(w http.ResponseWriter, event string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", event, err)
		return err
	}
	return s.sendSSEEvent(w, SSEEvent{Type: event, Data: string(data)})
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEEvent(w, SSEEvent{Type: "error", Data: message})
}

// sendSSEEvent writes a single SSE event and flushes it
func (s *Server) sendSSEEvent(w http.ResponseWriter, event SSEEvent) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

func toStats(stats renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:      stats.TotalPixels,
		TotalSamples:     int64(stats.TotalSamples),
		SamplesPerSecond: stats.SamplesPerSecond(),
		DurationMs:       stats.Duration.Milliseconds(),
	}
}

func newRenderID() string {
	return fmt.Sprintf("render-%d", time.Now().UnixNano())
}
