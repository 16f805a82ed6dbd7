// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the publication catalog over HTTP.
package server

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/paper-catalog/internal/ingest"
	"github.com/pdiddy/paper-catalog/internal/store"
	"github.com/pdiddy/paper-catalog/pkg/types"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	defaultPageSize  = 10
	defaultListLimit = 20
)

// Server holds the handlers' collaborators.
type Server struct {
	store     *store.Store
	loader    *ingest.Loader
	extractor ingest.Extractor
	runner    *ingest.Runner

	pageSize  int
	listLimit int
}

// New builds a Server. The runner is owned by the caller and must outlive
// the HTTP listener.
func New(st *store.Store, loader *ingest.Loader, extractor ingest.Extractor, runner *ingest.Runner, cfg types.ServerConfig) *Server {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	listLimit := cfg.ListLimit
	if listLimit <= 0 {
		listLimit = defaultListLimit
	}
	return &Server{
		store:     st,
		loader:    loader,
		extractor: extractor,
		runner:    runner,
		pageSize:  pageSize,
		listLimit: listLimit,
	}
}

// Router constructs a Gin engine with registered routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	tmpl := template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
	r.SetHTMLTemplate(tmpl)

	r.GET("/", s.handleIndex)
	r.GET("/healthz", s.handleHealth)
	s.registerPublicationRoutes(r)
	return r
}

// handleHealth is a liveness probe for the process itself; extractor
// availability is checked per bulk request instead.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(200, gin.H{"status": "healthy"})
}
