package grow

import (
	"testing"

	"grow-service/internal/model"
	"grow-service/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func seedStrain(t *testing.T, db *gorm.DB) *model.Strain {
	t.Helper()
	strain := &model.Strain{
		Name:            "Northern Lights",
		IndicaRatio:     90,
		THCPercent:      18,
		CBDPercent:      0.4,
		ExpectedYield:   55,
		GerminationDays: 7,
		CuttingDays:     5,
		VegetativeDays:  20,
		FloweringDays:   60,
		CuringDays:      10,
	}
	require.NoError(t, db.Create(strain).Error)
	return strain
}

func seedZone(t *testing.T, db *gorm.DB) *model.Zone {
	t.Helper()
	zone := &model.Zone{Name: "Flower Room 1", Environment: "indoor"}
	require.NoError(t, db.Create(zone).Error)
	return zone
}

func seedCharge(t *testing.T, db *gorm.DB, strainID uint, plantAmount int) *model.Charge {
	t.Helper()
	charge, _, err := CreateCharge(db, CreateChargeInput{
		Name:        "Batch 2026-01",
		StrainID:    strainID,
		PlantAmount: plantAmount,
		Substrate:   "coco",
		Fertilizer:  "bio-grow",
	})
	require.NoError(t, err)
	return charge
}

func strPtr(s string) *string { return &s }
func uintPtr(u uint) *uint    { return &u }
