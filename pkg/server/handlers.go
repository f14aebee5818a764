package server

import (
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/japaniel/akshara/pkg/pipeline"
	"github.com/japaniel/akshara/pkg/render"
)

// MaxInputSize caps the body of POST /input.
const MaxInputSize = 1 << 20

// Handler serves the live preview: text posted to /input is analyzed after
// the pipeline's debounce window and pushed to every /events subscriber.
type Handler struct {
	pipeline *pipeline.Pipeline
	surface  *render.MemorySurface
	logger   *slog.Logger
}

// NewHandler creates a Handler. The pipeline must render into surface.
func NewHandler(p *pipeline.Pipeline, surface *render.MemorySurface, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{pipeline: p, surface: surface, logger: logger}
}

// RegisterRoutes registers all routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("POST /input", h.handleInput)
	mux.HandleFunc("GET /analysis", h.handleAnalysis)
	mux.HandleFunc("GET /events", h.handleEvents)
	mux.HandleFunc("GET /health", h.handleHealth)
}

var indexPage = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>aksharas</title>
<style>
  body { font-family: sans-serif; margin: 2em; }
  textarea { width: 100%; height: 8em; font-size: 1.2em; }
  .analysis-item { border-bottom: 1px solid #ddd; padding: .5em 0; }
  .header { font-size: 1.4em; font-weight: bold; }
  .title { font-weight: bold; margin-top: .3em; }
  .invalid { color: #c00; }
</style>
</head>
<body>
<textarea id="input" placeholder="Type here"></textarea>
<div id="analysis">{{.}}</div>
<script>
  const input = document.getElementById("input");
  const out = document.getElementById("analysis");
  input.addEventListener("input", () => {
    fetch("/input", { method: "POST", body: input.value });
  });
  new EventSource("/events").onmessage = (e) => { out.innerHTML = e.data; };
</script>
</body>
</html>
`))

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	markup, _ := h.surface.Content()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexPage.Execute(w, template.HTML(markup)); err != nil {
		h.logger.Error("render index page", "error", err)
	}
}

func (h *Handler) handleInput(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxInputSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "input too large")
			return
		}
		writeError(w, http.StatusBadRequest, "read input: "+err.Error())
		return
	}
	h.pipeline.Schedule(string(body))
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"status": "scheduled",
		"bytes":  len(body),
	})
}

func (h *Handler) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	markup, err := h.surface.Content()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, markup)
}

// handleEvents streams the surface content as server-sent events, starting
// with the current content.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	updates, cancel := h.surface.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	markup, _ := h.surface.Content()
	writeEvent(w, markup)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case markup := <-updates:
			writeEvent(w, markup)
			flusher.Flush()
		}
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"pending": h.pipeline.Pending(),
	})
}

// writeEvent writes one SSE message. Multi-line data is sent as several
// data fields, which clients join with newlines.
func writeEvent(w io.Writer, data string) {
	var b strings.Builder
	for _, line := range strings.Split(data, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	io.WriteString(w, b.String())
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"message": message,
		},
	})
}
