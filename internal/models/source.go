package models

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// Source is an external retail site being scraped.
type Source struct {
	bun.BaseModel `bun:"table:sources,alias:src"`

	ID                int64        `bun:"id,pk,autoincrement" json:"id"`
	Name              string       `bun:"name,notnull" json:"name"`
	BaseURL           string       `bun:"base_url,notnull" json:"base_url"`
	ScraperType       ScraperType  `bun:"scraper_type,unique,notnull" json:"scraper_type"`
	Status            SourceStatus `bun:"status,notnull" json:"status"`
	LastScrapedAt     *time.Time   `bun:"last_scraped_at" json:"last_scraped_at,omitempty"`
	SuccessfulScrapes int          `bun:"successful_scrapes,notnull,default:0" json:"successful_scrapes"`
	FailedScrapes     int          `bun:"failed_scrapes,notnull,default:0" json:"failed_scrapes"`
	CreatedAt         time.Time    `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt         time.Time    `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// BeforeUpdate updates the timestamp on modifications.
func (s *Source) BeforeUpdate(ctx context.Context, query *bun.UpdateQuery) error {
	s.UpdatedAt = time.Now()
	return nil
}

// Validate checks that required source fields are present.
func (s *Source) Validate() error {
	if s.Name == "" {
		return errors.New("source name is required")
	}
	if s.BaseURL == "" {
		return errors.New("base URL is required")
	}
	if s.ScraperType == "" {
		return errors.New("scraper type is required")
	}
	return nil
}

// IsScrapable reports whether jobs against this source should run.
func (s *Source) IsScrapable() bool {
	return s.Status == SourceActive
}
