package alerts

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"pricescout/internal/database"
	"pricescout/internal/migrations"
	"pricescout/internal/models"
	"pricescout/internal/repositories"
)

type recordingNotifier struct {
	calls []*models.PriceAlert
}

func (n *recordingNotifier) Notify(alert *models.PriceAlert, current decimal.Decimal) {
	n.calls = append(n.calls, alert)
}

func testDB(t *testing.T) *bun.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), false)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	return db
}

func testProduct(t *testing.T, db *bun.DB, name string) *models.Product {
	t.Helper()
	p := &models.Product{Name: name}
	if err := repositories.InsertProduct(context.Background(), db, p); err != nil {
		t.Fatalf("seeding product: %v", err)
	}
	return p
}

func TestCheckAlertsTriggersAtOrBelowTarget(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	product := testProduct(t, db, "RTX 4070")
	notifier := &recordingNotifier{}
	engine := NewEngine(db, notifier)

	alert, err := engine.CreateAlert(ctx, product.ID, "user@example.com", decimal.RequireFromString("500"))
	if err != nil {
		t.Fatalf("CreateAlert: %v", err)
	}

	if err := engine.CheckAlerts(ctx, product.ID, decimal.RequireFromString("450")); err != nil {
		t.Fatalf("CheckAlerts: %v", err)
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifier.calls))
	}

	stored, err := repositories.AlertByID(ctx, db, alert.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.AlertTriggered {
		t.Errorf("status = %s, want TRIGGERED", stored.Status)
	}
	if stored.TriggeredAt == nil {
		t.Error("triggered_at not set")
	}

	// A triggered alert never fires again.
	if err := engine.CheckAlerts(ctx, product.ID, decimal.RequireFromString("400")); err != nil {
		t.Fatalf("CheckAlerts: %v", err)
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("notifications after second check = %d, want 1", len(notifier.calls))
	}
}

func TestCheckAlertsIgnoresPricesAboveTarget(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	product := testProduct(t, db, "RTX 4070")
	notifier := &recordingNotifier{}
	engine := NewEngine(db, notifier)

	alert, err := engine.CreateAlert(ctx, product.ID, "user@example.com", decimal.RequireFromString("500"))
	if err != nil {
		t.Fatal(err)
	}

	if err := engine.CheckAlerts(ctx, product.ID, decimal.RequireFromString("600")); err != nil {
		t.Fatalf("CheckAlerts: %v", err)
	}
	if len(notifier.calls) != 0 {
		t.Fatalf("notifications = %d, want 0", len(notifier.calls))
	}

	stored, err := repositories.AlertByID(ctx, db, alert.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.AlertActive {
		t.Errorf("status = %s, want ACTIVE", stored.Status)
	}
}

func TestCheckAlertsTriggersOnExactTarget(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	product := testProduct(t, db, "RTX 4070")
	notifier := &recordingNotifier{}
	engine := NewEngine(db, notifier)

	if _, err := engine.CreateAlert(ctx, product.ID, "user@example.com", decimal.RequireFromString("500")); err != nil {
		t.Fatal(err)
	}

	if err := engine.CheckAlerts(ctx, product.ID, decimal.RequireFromString("500.00")); err != nil {
		t.Fatal(err)
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("notifications = %d, want 1 (boundary is inclusive)", len(notifier.calls))
	}
}

func TestCreateAlertValidation(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	product := testProduct(t, db, "RTX 4070")
	engine := NewEngine(db, LogNotifier{})

	if _, err := engine.CreateAlert(ctx, 9999, "user@example.com", decimal.RequireFromString("500")); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("unknown product: err = %v, want ErrNotFound", err)
	}
	if _, err := engine.CreateAlert(ctx, product.ID, "user@example.com", decimal.Zero); err == nil {
		t.Error("zero target price accepted")
	}
	if _, err := engine.CreateAlert(ctx, product.ID, "", decimal.RequireFromString("10")); err == nil {
		t.Error("empty email accepted")
	}
}

func TestUserAlertsAndDelete(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	product := testProduct(t, db, "RTX 4070")
	engine := NewEngine(db, LogNotifier{})

	a1, err := engine.CreateAlert(ctx, product.ID, "user@example.com", decimal.RequireFromString("500"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := engine.CreateAlert(ctx, product.ID, "other@example.com", decimal.RequireFromString("400")); err != nil {
		t.Fatal(err)
	}

	mine, err := engine.UserAlerts(ctx, "user@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].ID != a1.ID {
		t.Fatalf("UserAlerts = %+v, want only the user's alert", mine)
	}

	if err := engine.DeleteAlert(ctx, a1.ID); err != nil {
		t.Fatalf("DeleteAlert: %v", err)
	}
	if err := engine.DeleteAlert(ctx, a1.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("deleting twice: err = %v, want ErrNotFound", err)
	}
}
