package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"grow-service/internal/calendar"
	"grow-service/internal/model"
	"grow-service/pkg/config"
	"grow-service/pkg/database"
	"grow-service/pkg/logger"
	"grow-service/prometheus"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testMemberID uint = 7

func TestMain(m *testing.M) {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger.InitLogger(cfg)
	prometheus.InitMetrics(cfg)
	os.Exit(m.Run())
}

// setupServer opens a fresh in-memory database and wires the full route
// table, with the auth middleware replaced by a stub member identity
func setupServer(t *testing.T) *echo.Echo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	database.SetDB(db)

	e := echo.New()
	e.Validator = NewRequestValidator()

	member := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("member_id", testMemberID)
			return next(c)
		}
	}

	strainAPI := e.Group("/api/strains", member)
	strainAPI.GET("", ListStrains)
	strainAPI.GET("/:id", GetStrain)
	strainAPI.POST("", CreateStrain)
	strainAPI.PUT("/:id", UpdateStrain)
	strainAPI.GET("/:id/calendar", StrainCalendar)

	zoneAPI := e.Group("/api/zones", member)
	zoneAPI.GET("", ListZones)
	zoneAPI.POST("", CreateZone)

	chargeAPI := e.Group("/api/charges", member)
	chargeAPI.GET("", ListCharges)
	chargeAPI.GET("/:id", GetCharge)
	chargeAPI.POST("", CreateCharge)
	chargeAPI.PUT("/:id", UpdateCharge)
	chargeAPI.DELETE("/:id", DeleteCharge)
	chargeAPI.POST("/:id/status", TransitionCharge)
	chargeAPI.POST("/:id/harvest", FinalizeHarvest)
	chargeAPI.GET("/:id/calendar", ChargeCalendar)
	chargeAPI.GET("/:id/plant-status", ChargePlantStatus)
	chargeAPI.POST("/:id/diary", AppendChargeDiary)

	plantAPI := e.Group("/api/plants", member)
	plantAPI.GET("", ListPlants)
	plantAPI.GET("/:id", GetPlant)
	plantAPI.POST("", CreatePlant)
	plantAPI.PUT("/:id", UpdatePlant)
	plantAPI.DELETE("/:id", DeletePlant)
	plantAPI.POST("/:id/status", TransitionPlant)
	plantAPI.GET("/:id/calendar", PlantCalendar)
	plantAPI.POST("/:id/diary", AppendPlantDiary)

	harvestAPI := e.Group("/api/harvests", member)
	harvestAPI.GET("", ListHarvests)
	harvestAPI.GET("/:id", GetHarvest)
	harvestAPI.PUT("/:id", UpdateHarvest)
	harvestAPI.POST("/:id/diary", AppendHarvestDiary)

	return e
}

// envelope mirrors the collection-replace response body
type envelope struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	Strains   []model.Strain   `json:"strains"`
	Zones     []model.Zone     `json:"zones"`
	Charges   []model.Charge   `json:"charges"`
	Plants    []model.Plant    `json:"plants"`
	Harvests  []model.Harvest  `json:"harvests"`
	Template  []calendar.Range `json:"template"`
	Actual    []calendar.Range `json:"actual"`
	TotalDays int              `json:"total_days"`
	Tally     map[string]int   `json:"tally"`
}

func doRequest(t *testing.T, e *echo.Echo, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func createTestStrain(t *testing.T, e *echo.Echo) model.Strain {
	t.Helper()
	rec, env := doRequest(t, e, http.MethodPost, "/api/strains", echo.Map{
		"name":             "Northern Lights",
		"indica_ratio":     90,
		"thc_percent":      18,
		"expected_yield":   55,
		"germination_days": 7,
		"cutting_days":     5,
		"vegetative_days":  20,
		"flowering_days":   60,
		"curing_days":      10,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, env.Strains, 1)
	return env.Strains[0]
}

func createTestCharge(t *testing.T, e *echo.Echo, strainID uint, plantAmount int) model.Charge {
	t.Helper()
	rec, env := doRequest(t, e, http.MethodPost, "/api/charges", echo.Map{
		"name":         "Batch 2026-01",
		"strain_id":    strainID,
		"plant_amount": plantAmount,
		"substrate":    "coco",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, env.Charges, 1)
	return env.Charges[0]
}

func TestCreateChargeSpawnsIdenticalPlants(t *testing.T) {
	e := setupServer(t)
	strain := createTestStrain(t, e)

	charge := createTestCharge(t, e, strain.ID, 3)

	require.Len(t, charge.Plants, 3)
	for _, p := range charge.Plants {
		assert.Equal(t, strain.ID, p.StrainID)
		require.NotNil(t, p.ChargeID)
		assert.Equal(t, charge.ID, *p.ChargeID)
		assert.Equal(t, model.StatusUnset, p.Status)
	}
	assert.Equal(t, 3, charge.PlantAmount)
}

func TestCreateChargeValidationOverHTTP(t *testing.T) {
	e := setupServer(t)
	strain := createTestStrain(t, e)

	// plant_amount below 1 fails struct validation
	rec, env := doRequest(t, e, http.MethodPost, "/api/charges", echo.Map{
		"name": "b", "strain_id": strain.ID, "plant_amount": 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)

	// unresolvable strain reference
	rec, env = doRequest(t, e, http.MethodPost, "/api/charges", echo.Map{
		"name": "b", "strain_id": 999, "plant_amount": 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Message, "strain")
}

func TestFinalizeHarvestLocksEverythingButDiary(t *testing.T) {
	e := setupServer(t)
	strain := createTestStrain(t, e)
	charge := createTestCharge(t, e, strain.ID, 2)

	rec, env := doRequest(t, e, http.MethodPost, chargePath(charge.ID)+"/harvest", echo.Map{
		"status":     "drying",
		"wet_weight": 500,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, env.Harvests, 1)
	harvest := env.Harvests[0]
	assert.Equal(t, model.HarvestStatusDrying, harvest.Status)
	assert.Equal(t, 500.0, harvest.WetWeight)
	assert.Equal(t, testMemberID, harvest.MemberID, "acting member recorded as responsible")
	assert.Len(t, harvest.PlantIDs, 2)

	// Refreshed collections reflect the lock
	require.Len(t, env.Charges, 1)
	assert.True(t, env.Charges[0].IsHarvested)
	for _, p := range env.Plants {
		assert.True(t, p.IsHarvested)
	}

	// Any further charge mutation is rejected with the locked status
	rec, env = doRequest(t, e, http.MethodPut, chargePath(charge.ID), echo.Map{"description": "x"})
	assert.Equal(t, http.StatusLocked, rec.Code)
	assert.False(t, env.Success)

	rec, _ = doRequest(t, e, http.MethodPost, chargePath(charge.ID)+"/status", echo.Map{"status": "destroyed"})
	assert.Equal(t, http.StatusLocked, rec.Code)

	rec, _ = doRequest(t, e, http.MethodPost, chargePath(charge.ID)+"/harvest", echo.Map{})
	assert.Equal(t, http.StatusLocked, rec.Code)

	// Diary appends still succeed
	rec, _ = doRequest(t, e, http.MethodPost, chargePath(charge.ID)+"/diary", echo.Map{"content": "post-harvest note"})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestStrainTemplateCalendar(t *testing.T) {
	e := setupServer(t)
	strain := createTestStrain(t, e)

	rec, env := doRequest(t, e, http.MethodGet, strainPath(strain.ID)+"/calendar", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, env.Template, 5)
	assert.Equal(t, 102, env.TotalDays)
	for i := 1; i < len(env.Template); i++ {
		assert.Equal(t, env.Template[i-1].End, env.Template[i].Start)
	}

	// Undefined durations disappear after a re-save
	rec, _ = doRequest(t, e, http.MethodPut, strainPath(strain.ID), echo.Map{
		"name":             "Northern Lights",
		"germination_days": 7,
		"vegetative_days":  20,
		"flowering_days":   60,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = doRequest(t, e, http.MethodGet, strainPath(strain.ID)+"/calendar", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.Template, 3)
	assert.Equal(t, 87, env.TotalDays)
}

func TestChargeCalendarShowsActualProgress(t *testing.T) {
	e := setupServer(t)
	strain := createTestStrain(t, e)
	charge := createTestCharge(t, e, strain.ID, 1)

	rec, env := doRequest(t, e, http.MethodPut, chargePath(charge.ID), echo.Map{
		"sowing_at":      "2026-01-05T00:00:00Z",
		"germination_at": "2026-01-12T00:00:00Z",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = doRequest(t, e, http.MethodGet, chargePath(charge.ID)+"/calendar", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env.Actual, 1)
	assert.Equal(t, "sowing", env.Actual[0].Label)
	assert.Equal(t, 7, env.Actual[0].Days())
	assert.Len(t, env.Template, 5)
}

func TestTransitionEndpoints(t *testing.T) {
	e := setupServer(t)
	strain := createTestStrain(t, e)
	charge := createTestCharge(t, e, strain.ID, 1)

	rec, env := doRequest(t, e, http.MethodPost, chargePath(charge.ID)+"/status", echo.Map{"status": "vegetative"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.StatusVegetative, env.Charges[0].Status)

	rec, _ = doRequest(t, e, http.MethodPost, chargePath(charge.ID)+"/status", echo.Map{"status": "destroyed"})
	require.Equal(t, http.StatusOK, rec.Code)

	// destroyed is terminal
	rec, env = doRequest(t, e, http.MethodPost, chargePath(charge.ID)+"/status", echo.Map{"status": "seeds"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Success)
}

func TestChargePlantStatusTally(t *testing.T) {
	e := setupServer(t)
	strain := createTestStrain(t, e)
	charge := createTestCharge(t, e, strain.ID, 3)

	plantID := charge.Plants[0].ID
	rec, _ := doRequest(t, e, http.MethodPost, plantPath(plantID)+"/status", echo.Map{"status": "quarantine"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := doRequest(t, e, http.MethodGet, chargePath(charge.ID)+"/plant-status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, env.Tally["quarantine"])
	assert.Equal(t, 2, env.Tally[""])
}

func TestDeleteChargeOrphansPlantsOverHTTP(t *testing.T) {
	e := setupServer(t)
	strain := createTestStrain(t, e)
	charge := createTestCharge(t, e, strain.ID, 2)

	rec, env := doRequest(t, e, http.MethodDelete, chargePath(charge.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Empty(t, env.Charges)
	require.Len(t, env.Plants, 2)
	for _, p := range env.Plants {
		assert.Nil(t, p.ChargeID)
	}
}

func TestPlantOverrideStickiness(t *testing.T) {
	e := setupServer(t)
	strain := createTestStrain(t, e)
	charge := createTestCharge(t, e, strain.ID, 1)

	// Standalone plant with its own substrate
	rec, env := doRequest(t, e, http.MethodPost, "/api/plants", echo.Map{
		"strain_id": strain.ID,
		"substrate": "rockwool",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var standalone model.Plant
	for _, p := range env.Plants {
		if p.ChargeID == nil {
			standalone = p
		}
	}
	require.NotZero(t, standalone.ID)

	// Attaching to the charge keeps the plant's own value
	rec, env = doRequest(t, e, http.MethodPut, plantPath(standalone.ID), echo.Map{"charge_id": charge.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	for _, p := range env.Plants {
		if p.ID == standalone.ID {
			require.NotNil(t, p.Substrate)
			assert.Equal(t, "rockwool", *p.Substrate)
			require.NotNil(t, p.ChargeID)
		}
	}
}

func TestHarvestUpdateNormalizesTags(t *testing.T) {
	e := setupServer(t)
	strain := createTestStrain(t, e)
	charge := createTestCharge(t, e, strain.ID, 1)

	rec, env := doRequest(t, e, http.MethodPost, chargePath(charge.ID)+"/harvest", echo.Map{})
	require.Equal(t, http.StatusCreated, rec.Code)
	harvestID := env.Harvests[0].ID

	rec, env = doRequest(t, e, http.MethodPut, harvestPath(harvestID), echo.Map{
		"status":     "curing",
		"dry_weight": 120,
		"tags":       []string{"indoor", "", "indoor", "Indoor"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env.Harvests, 1)
	assert.Equal(t, model.HarvestStatusCuring, env.Harvests[0].Status)
	assert.Equal(t, []string{"indoor", "Indoor"}, env.Harvests[0].Tags)
}

func TestDiaryAppendReturnsRefreshedOwner(t *testing.T) {
	e := setupServer(t)
	strain := createTestStrain(t, e)
	charge := createTestCharge(t, e, strain.ID, 1)

	rec, env := doRequest(t, e, http.MethodPost, chargePath(charge.ID)+"/diary", echo.Map{
		"content":     "week 3, looking healthy",
		"attachments": []string{"img-1"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, env.Charges, 1)
	require.Len(t, env.Charges[0].Diary, 1)
	entry := env.Charges[0].Diary[0]
	assert.Equal(t, "week 3, looking healthy", entry.Content)
	assert.Equal(t, testMemberID, entry.AuthorID)

	// Empty content is rejected up front
	rec, _ = doRequest(t, e, http.MethodPost, chargePath(charge.ID)+"/diary", echo.Map{"content": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotFoundResponses(t *testing.T) {
	e := setupServer(t)

	rec, env := doRequest(t, e, http.MethodGet, "/api/charges/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)

	rec, _ = doRequest(t, e, http.MethodGet, "/api/plants/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doRequest(t, e, http.MethodGet, "/api/harvests/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doRequest(t, e, http.MethodGet, "/api/strains/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doRequest(t, e, http.MethodGet, "/api/strains/999/calendar", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChargeCalendarMissingStrainIsNotFound(t *testing.T) {
	e := setupServer(t)
	strain := createTestStrain(t, e)
	charge := createTestCharge(t, e, strain.ID, 1)

	// A dangling strain reference reports not-found, not a server error
	require.NoError(t, database.GetDB().Delete(&model.Strain{}, strain.ID).Error)

	rec, env := doRequest(t, e, http.MethodGet, chargePath(charge.ID)+"/calendar", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}

func TestCreateStrainValidation(t *testing.T) {
	e := setupServer(t)

	rec, env := doRequest(t, e, http.MethodPost, "/api/strains", echo.Map{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)

	rec, _ = doRequest(t, e, http.MethodPost, "/api/strains", echo.Map{
		"name": "x", "indica_ratio": 150,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func chargePath(id uint) string  { return "/api/charges/" + uintLabel(id) }
func plantPath(id uint) string   { return "/api/plants/" + uintLabel(id) }
func strainPath(id uint) string  { return "/api/strains/" + uintLabel(id) }
func harvestPath(id uint) string { return "/api/harvests/" + uintLabel(id) }
