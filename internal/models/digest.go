package models

import (
	"time"
)

// DigestFileName is the suggested file name of a downloaded digest
const DigestFileName = "last-chance-to-submit.html"

// DigestTitle is the heading of every rendered digest
const DigestTitle = "Last Chance to Submit"

// Digest is an archived rendering of a window query
type Digest struct {
	ID           string    `json:"digest_id" db:"id"`
	WindowStart  time.Time `json:"window_start" db:"window_start"`
	WindowEnd    time.Time `json:"window_end" db:"window_end"`
	Locale       string    `json:"locale" db:"locale"`
	RecordCount  int       `json:"record_count" db:"record_count"`
	SkippedCount int       `json:"skipped_count" db:"skipped_count"`
	Names        []string  `json:"names" db:"names"`
	HTML         string    `json:"-" db:"html"`
	DurationMs   int64     `json:"duration_ms" db:"duration_ms"`
	DownloadURL  string    `json:"download_url,omitempty" db:"-"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// DigestRequest is the body of POST /v1/digests
type DigestRequest struct {
	StartDate string `json:"startDate" form:"startDate"`
	EndDate   string `json:"endDate" form:"endDate"`
	Locale    string `json:"locale,omitempty" form:"locale"`
}

// DigestList is a page of archived digests
type DigestList struct {
	Items  []Digest `json:"items"`
	Total  int      `json:"total"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}
