package models

// ScraperType tags a source with the scraper implementation that knows
// how to read it.
type ScraperType string

const (
	ScraperAmazon        ScraperType = "AMAZON"
	ScraperMediaMarkt    ScraperType = "MEDIAMARKT"
	ScraperPCComponentes ScraperType = "PCCOMPONENTES"
)

// SourceStatus is the operational state of a retail site.
type SourceStatus string

const (
	SourceActive  SourceStatus = "ACTIVE"
	SourcePaused  SourceStatus = "PAUSED"
	SourceBlocked SourceStatus = "BLOCKED"
)

// JobStatus is the lifecycle state of a scrape job.
// PENDING and the two terminal states are stable; RUNNING only exists
// while a job is executing.
type JobStatus string

const (
	JobPending   JobStatus = "PENDING"
	JobRunning   JobStatus = "RUNNING"
	JobCompleted JobStatus = "COMPLETED"
	JobFailed    JobStatus = "FAILED"
)

// AlertStatus is the state of a price alert. An alert is never reused
// after triggering.
type AlertStatus string

const (
	AlertActive    AlertStatus = "ACTIVE"
	AlertTriggered AlertStatus = "TRIGGERED"
)
