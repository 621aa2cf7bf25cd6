package services_test

import (
	"testing"
	"time"

	"github.com/dairymanager/dairy-api/models"
	"github.com/dairymanager/dairy-api/services"
	"github.com/dairymanager/dairy-api/tests/testutil"
	"github.com/dairymanager/dairy-api/timeutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// today is the business date every service test runs on
var today = timeutil.NewDate(2024, time.January, 15)

type env struct {
	db     *gorm.DB
	scope  models.TenantScope
	clock  *timeutil.Clock
	ledger *services.LedgerService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewTestDB(t)
	loc := time.FixedZone("IST", 5*60*60+30*60)
	return &env{
		db:     db,
		scope:  testutil.CreateTenant(t, db, "sunrise"),
		clock:  timeutil.FixedClock(time.Date(2024, time.January, 15, 7, 30, 0, 0, loc)),
		ledger: services.NewLedgerService(db, zap.NewNop()),
	}
}

func ptr(v float64) *float64 { return &v }

func item(name string, qty, price float64) models.LineItem {
	return models.LineItem{Name: name, Quantity: qty, Price: price}
}
