package inspect

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"
	"github.com/gogpu/ggwriter"
	"github.com/gogpu/ggwriter/ggcanvas"
)

// maxRenderSide caps the size of rendered previews.
const maxRenderSide = 4096

// Handler serves a read-only view of one tree.
type Handler struct {
	root   ggwriter.Node
	logger *slog.Logger
}

// New returns a handler for root. A nil logger uses ggwriter.Logger().
func New(root ggwriter.Node, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = ggwriter.Logger()
	}
	return &Handler{root: root, logger: logger}
}

// RegisterHTTP mounts the inspector routes on r:
//
//	GET /tree        snapshot of the whole tree
//	GET /tree/*      snapshot of the node at a slash-separated index path
//	GET /render.png  rasterized tree; ?node= selects a subtree, ?max= fits
//	                 the image into a square of that side
//	GET /stats       node counts
func (h *Handler) RegisterHTTP(r chi.Router) {
	r.Get("/tree", h.handleTree)
	r.Get("/tree/*", h.handleTree)
	r.Get("/render.png", h.handleRender)
	r.Get("/stats", h.handleStats)
}

// Router returns a new chi router with the inspector routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterHTTP(r)
	return r
}

// parsePath parses "0/2/1" into child indices. An empty string is the root.
func parsePath(s string) ([]int, error) {
	s = strings.Trim(s, "/")
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, "/")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("bad index %q", p)
		}
		out[i] = v
	}
	return out, nil
}

func (h *Handler) lookup(w http.ResponseWriter, path string) (ggwriter.Node, bool) {
	idx, err := parsePath(path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	n, ok := Resolve(h.root, idx)
	if !ok {
		http.Error(w, "Node not found", http.StatusNotFound)
		return nil, false
	}
	return n, true
}

func (h *Handler) handleTree(w http.ResponseWriter, r *http.Request) {
	n, ok := h.lookup(w, chi.URLParam(r, "*"))
	if !ok {
		return
	}
	h.writeJSON(w, Snapshot(n))
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, Collect(h.root))
}

func (h *Handler) handleRender(w http.ResponseWriter, r *http.Request) {
	n, ok := h.lookup(w, r.URL.Query().Get("node"))
	if !ok {
		return
	}
	maxSide := 0
	if s := r.URL.Query().Get("max"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			http.Error(w, "Invalid max", http.StatusBadRequest)
			return
		}
		maxSide = v
	}
	b := n.Bounds()
	if b.Max.X > maxRenderSide || b.Max.Y > maxRenderSide {
		http.Error(w, "Tree too large to render", http.StatusUnprocessableEntity)
		return
	}
	if err := r.Context().Err(); err != nil {
		return
	}
	c, err := ggcanvas.Render(n)
	if err != nil {
		h.logger.Warn("inspect: render failed", "error", err)
	}
	img := c.NRGBA()
	if maxSide > 0 {
		img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	}
	w.Header().Set("Content-Type", "image/png")
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		h.logger.Error("inspect: encode png", "error", err)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("inspect: encode json", "error", err)
	}
}
