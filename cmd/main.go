package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pricescout/internal/alerts"
	"pricescout/internal/config"
	"pricescout/internal/database"
	"pricescout/internal/jobs"
	"pricescout/internal/migrations"
	"pricescout/internal/models"
	"pricescout/internal/ratelimit"
	"pricescout/internal/repositories"
	"pricescout/internal/scrapers"
	"pricescout/internal/scrapers/amazon"
	"pricescout/internal/scrapers/mediamarkt"
	"pricescout/internal/scrapers/pccomponentes"
	"pricescout/internal/unify"
)

func main() {
	cfg := config.Load()

	db, err := database.New(cfg.DatabasePath, cfg.DebugSQL)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := migrations.RunMigrations(ctx, db); err != nil {
		log.Fatalf("running migrations: %v", err)
	}

	limits := ratelimit.SourceConfigs{}
	if cfg.RateLimitsPath != "" {
		data, err := os.ReadFile(cfg.RateLimitsPath)
		if err != nil {
			log.Fatalf("reading rate limits: %v", err)
		}
		limits, err = ratelimit.LoadSourceConfigs(data)
		if err != nil {
			log.Fatalf("parsing rate limits: %v", err)
		}
	}
	limiters := ratelimit.NewSourceLimiters(limits)

	amazonScraper := amazon.New(limiters)
	mediamarktScraper := mediamarkt.New(limiters)
	pccScraper := pccomponentes.New(limiters)
	registry := scrapers.NewRegistry(amazonScraper, mediamarktScraper, pccScraper)

	for _, seed := range []*models.Source{
		{Name: amazonScraper.SiteName(), BaseURL: amazonScraper.BaseURL, ScraperType: amazonScraper.Type(), Status: models.SourceActive},
		{Name: mediamarktScraper.SiteName(), BaseURL: mediamarktScraper.SearchURL, ScraperType: mediamarktScraper.Type(), Status: models.SourceActive},
		{Name: pccScraper.SiteName(), BaseURL: pccScraper.APIURL, ScraperType: pccScraper.Type(), Status: models.SourceActive},
	} {
		if _, err := repositories.EnsureSource(ctx, db, seed); err != nil {
			log.Fatalf("seeding source %s: %v", seed.Name, err)
		}
	}

	alertEngine := alerts.NewEngine(db, alerts.LogNotifier{})
	unifier := unify.New(db, alertEngine)
	runner := jobs.NewRunner(db, registry, unifier)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		runner.RunPendingJobs(runCtx)

		ticker := time.NewTicker(cfg.ScrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				runner.RunPendingJobs(runCtx)
			}
		}
	}()

	log.Printf("pricescout started, sweeping pending jobs every %v", cfg.ScrapeInterval)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("shutting down")
	cancel()
}
