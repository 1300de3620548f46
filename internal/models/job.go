package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ScrapeJob is one execution request against a source. A job runs at
// most once; a new job must be created to retry.
type ScrapeJob struct {
	bun.BaseModel `bun:"table:scrape_jobs,alias:j"`

	ID           int64      `bun:"id,pk,autoincrement" json:"id"`
	SourceID     int64      `bun:"source_id,notnull" json:"source_id"`
	Keyword      string     `bun:"keyword,notnull" json:"keyword"`
	Category     string     `bun:"category" json:"category,omitempty"`
	Status       JobStatus  `bun:"status,notnull" json:"status"`
	ItemsFound   int        `bun:"items_found,notnull,default:0" json:"items_found"`
	ErrorMessage string     `bun:"error_message" json:"error_message,omitempty"`
	StartedAt    *time.Time `bun:"started_at" json:"started_at,omitempty"`
	CompletedAt  *time.Time `bun:"completed_at" json:"completed_at,omitempty"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`

	Source *Source `bun:"rel:belongs-to,join:source_id=id" json:"source,omitempty"`
}

// IsTerminal reports whether the job reached a final state.
func (j *ScrapeJob) IsTerminal() bool {
	return j.Status == JobCompleted || j.Status == JobFailed
}
