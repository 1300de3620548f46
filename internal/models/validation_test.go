package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSourceValidate(t *testing.T) {
	valid := &Source{
		Name:        "Amazon ES",
		BaseURL:     "https://www.amazon.es",
		ScraperType: ScraperAmazon,
		Status:      SourceActive,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid source, got error: %v", err)
	}

	invalid := &Source{}
	if err := invalid.Validate(); err == nil {
		t.Fatalf("expected error for invalid source")
	}
}

func TestSourceIsScrapable(t *testing.T) {
	s := &Source{Status: SourceActive}
	if !s.IsScrapable() {
		t.Fatalf("expected ACTIVE source to be scrapable")
	}
	s.Status = SourcePaused
	if s.IsScrapable() {
		t.Fatalf("expected PAUSED source not to be scrapable")
	}
	s.Status = SourceBlocked
	if s.IsScrapable() {
		t.Fatalf("expected BLOCKED source not to be scrapable")
	}
}

func TestProductValidate(t *testing.T) {
	if err := (&Product{Name: "RTX 4070"}).Validate(); err != nil {
		t.Fatalf("expected valid product, got error: %v", err)
	}
	if err := (&Product{}).Validate(); err == nil {
		t.Fatalf("expected error for nameless product")
	}
}

func TestListingValidate(t *testing.T) {
	valid := &Listing{ProductID: 1, SourceID: 2, URL: "https://example.com/dp/1"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid listing, got error: %v", err)
	}
	if err := (&Listing{ProductID: 1, SourceID: 2}).Validate(); err == nil {
		t.Fatalf("expected error for listing without URL")
	}
}

func TestListingHasPrice(t *testing.T) {
	l := &Listing{}
	if l.HasPrice() {
		t.Fatalf("expected no price on zero listing")
	}
	l.CurrentPrice = decimal.NullDecimal{Decimal: decimal.NewFromInt(10), Valid: true}
	if !l.HasPrice() {
		t.Fatalf("expected price after setting one")
	}
}

func TestPriceAlertValidate(t *testing.T) {
	valid := &PriceAlert{
		ProductID:   1,
		UserEmail:   "user@example.com",
		TargetPrice: decimal.NewFromInt(500),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid alert, got error: %v", err)
	}

	negative := &PriceAlert{ProductID: 1, UserEmail: "user@example.com", TargetPrice: decimal.NewFromInt(-1)}
	if err := negative.Validate(); err == nil {
		t.Fatalf("expected error for negative target")
	}
}

func TestPriceAlertShouldTrigger(t *testing.T) {
	a := &PriceAlert{Status: AlertActive, TargetPrice: decimal.NewFromInt(500)}

	if !a.ShouldTrigger(decimal.NewFromInt(450)) {
		t.Fatalf("expected trigger below target")
	}
	if !a.ShouldTrigger(decimal.NewFromInt(500)) {
		t.Fatalf("expected trigger at target")
	}
	if a.ShouldTrigger(decimal.NewFromInt(501)) {
		t.Fatalf("expected no trigger above target")
	}

	a.Status = AlertTriggered
	if a.ShouldTrigger(decimal.NewFromInt(1)) {
		t.Fatalf("expected no trigger once TRIGGERED")
	}
}

func TestScrapeJobIsTerminal(t *testing.T) {
	j := &ScrapeJob{Status: JobPending}
	if j.IsTerminal() {
		t.Fatalf("expected PENDING not terminal")
	}
	j.Status = JobRunning
	if j.IsTerminal() {
		t.Fatalf("expected RUNNING not terminal")
	}
	j.Status = JobCompleted
	if !j.IsTerminal() {
		t.Fatalf("expected COMPLETED terminal")
	}
	j.Status = JobFailed
	if !j.IsTerminal() {
		t.Fatalf("expected FAILED terminal")
	}
}
