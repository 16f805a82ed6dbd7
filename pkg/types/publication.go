// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the domain records and configuration structs shared
// across paper-catalog stages.
package types

import "time"

// Publication is a catalog entry for one scientific paper. Records are
// created once by the ingestion loop and never updated or deleted.
type Publication struct {
	// ID is assigned by the store at insertion.
	ID int64 `json:"id" yaml:"id"`

	// Title is the paper title. Required.
	Title string `json:"title" yaml:"title"`

	// Summary is a short abstract or model-produced summary.
	Summary string `json:"summary" yaml:"summary"`

	// Tags are keyword labels. Stored as a JSON-encoded array.
	Tags []string `json:"tags" yaml:"tags"`

	// Year is the publication year, 0 when unknown.
	Year int `json:"year" yaml:"year"`

	// Organization is the publishing institution, comma-joined when the
	// extractor reports more than one.
	Organization string `json:"organization" yaml:"organization"`

	// Country is the organization's country.
	Country string `json:"country" yaml:"country"`

	// Language is the paper language code (e.g. "en").
	Language string `json:"language" yaml:"language"`

	// PDFLink is the source PDF URL. Required; acts as the natural
	// deduplication key.
	PDFLink string `json:"pdf_link" yaml:"pdf_link"`

	// Source identifies the catalog backend that produced the record
	// (e.g. "arXiv").
	Source string `json:"source" yaml:"source"`

	// CreatedAt is set by the store at insertion, in UTC.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Candidate is a transient fetch result from a catalog backend, before PDF
// download and metadata extraction.
type Candidate struct {
	Title   string `json:"title" yaml:"title"`
	Summary string `json:"summary" yaml:"summary"`
	Year    int    `json:"year" yaml:"year"`
	PDFLink string `json:"pdf_link" yaml:"pdf_link"`
	Source  string `json:"source" yaml:"source"`
}
