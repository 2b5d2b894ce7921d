// internal/server/handlers.go
package server

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mwiater/greenview/internal/manifest"
	"github.com/mwiater/greenview/internal/report"
	"github.com/mwiater/greenview/internal/source"
	"github.com/mwiater/greenview/internal/views"
)

const htmlContentType = "text/html; charset=utf-8"

type viewSummary struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Policy      string `json:"policy"`
	Chart       string `json:"chart"`
	State       string `json:"state"`
}

func (s *Server) index(c *gin.Context) {
	page, err := report.Index(s.opts.Views.Registry().All())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Data(http.StatusOK, htmlContentType, page)
}

func (s *Server) listViews(c *gin.Context) {
	defs := s.opts.Views.Registry().All()
	out := make([]viewSummary, 0, len(defs))
	for _, d := range defs {
		state := views.Idle
		if l, ok := s.opts.Views.Loader(d.Name); ok {
			state = l.State()
		}
		out = append(out, viewSummary{
			Name:        d.Name,
			Title:       d.Title,
			Description: d.Description,
			Policy:      d.Policy.String(),
			Chart:       string(d.Chart),
			State:       state.String(),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) manifest(c *gin.Context) {
	name := s.opts.ManifestName
	if name == "" {
		name = manifest.DefaultFile
	}
	raw, err := s.opts.Fetcher.Fetch(c.Request.Context(), name)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, source.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	files, err := manifest.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, files)
}

// load resolves the view named in the path and runs a fresh load. It writes
// the error response itself and returns nil when the caller should stop.
func (s *Server) load(c *gin.Context) *views.Model {
	name := c.Param("view")
	loader, ok := s.opts.Views.Loader(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown view", "view": name})
		return nil
	}
	model, err := loader.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"view":  name,
			"state": views.Failed.String(),
			"error": err.Error(),
		})
		return nil
	}
	return model
}

func (s *Server) viewModel(c *gin.Context) {
	if model := s.load(c); model != nil {
		c.JSON(http.StatusOK, model)
	}
}

func (s *Server) reportPage(c *gin.Context) {
	model := s.load(c)
	if model == nil {
		return
	}
	page, err := report.HTML(model)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, htmlContentType, page)
}

func (s *Server) snapshot(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	model := s.load(c)
	if model == nil {
		return
	}
	if index >= len(model.Datasets) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such dataset", "index": index})
		return
	}
	var buf bytes.Buffer
	if err := report.PNG(model.Title, model.Datasets[index], &buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
