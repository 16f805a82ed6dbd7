// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/paper-catalog/pkg/types"
)

// registerPublicationRoutes registers the publication listing and bulk
// ingestion endpoints.
func (s *Server) registerPublicationRoutes(r *gin.Engine) {
	g := r.Group("/publications")
	g.GET("/", s.handleList)
	g.POST("/bulk/arxiv/", s.handleBulkArxiv)
	g.GET("/updated-since", s.handleUpdatedSince)
}

// handleIndex renders the paginated HTML listing.
func (s *Server) handleIndex(c *gin.Context) {
	page := intQuery(c, "page", 1)
	if page < 1 {
		page = 1
	}
	perPage := intQuery(c, "per_page", s.pageSize)
	if perPage < 1 {
		perPage = s.pageSize
	}

	total, err := s.store.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	pubs, err := s.store.List(c.Request.Context(), (page-1)*perPage, perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	totalPages := (total + perPage - 1) / perPage
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Publications": pubs,
		"Page":         page,
		"PerPage":      perPage,
		"TotalPages":   totalPages,
		"PrevPage":     page - 1,
		"NextPage":     page + 1,
	})
}

// handleList returns publications as JSON with skip/limit pagination. The
// parameters pass through to the store unchecked.
func (s *Server) handleList(c *gin.Context) {
	skip := intQuery(c, "skip", 0)
	limit := intQuery(c, "limit", s.listLimit)

	pubs, err := s.store.List(c.Request.Context(), skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if pubs == nil {
		pubs = []types.Publication{}
	}
	c.JSON(http.StatusOK, pubs)
}

// handleBulkArxiv starts a background ingestion run and returns
// immediately. The extractor is probed first so a dead AI endpoint fails
// the request instead of a silent no-op run.
func (s *Server) handleBulkArxiv(c *gin.Context) {
	limit := intQuery(c, "limit", 100)
	category := c.DefaultQuery("category", "cs.AI")

	if err := s.extractor.Probe(c.Request.Context()); err != nil {
		log.Printf("extractor probe failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "AI service unavailable. Please check your OpenAI connection.",
		})
		return
	}

	ok := s.runner.Submit(func() {
		// Detached from the request; the run owns its own lifetime.
		s.loader.Run(context.Background(), category, limit, log.Writer())
	})
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ingestion queue is full"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "started",
		"message": fmt.Sprintf("Started loading %d papers from arXiv [%s].", limit, category),
	})
}

// timestampLayouts are the accepted `after` formats: RFC3339 (with
// optional fractional seconds) and zone-less ISO-8601, read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// handleUpdatedSince reports whether publications were added after the
// given timestamp.
func (s *Server) handleUpdatedSince(c *gin.Context) {
	after, err := parseTimestamp(c.Query("after"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid timestamp format"})
		return
	}

	count, err := s.store.CountCreatedAfter(c.Request.Context(), after)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": count > 0, "new_count": count})
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// intQuery reads an integer query parameter, falling back on absence or a
// value that does not parse.
func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
