package hooks

import (
	"testing"

	"restaurante-backend/models"
	"restaurante-backend/services"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupHookTest(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(tb, err)

	sqlDB, err := db.DB()
	require.NoError(tb, err)
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() {
		_ = sqlDB.Close()
	})

	require.NoError(tb, db.AutoMigrate(&models.CapacityConfig{}, &models.Reservation{}))
	require.NoError(tb, Register(db))
	return db
}

func TestHookRejectsIncompleteReservation(t *testing.T) {
	db := setupHookTest(t)

	err := db.Create(&models.Reservation{Slot: "19:00", PartySize: 4}).Error
	var validationErr *services.ValidationError
	require.ErrorAs(t, err, &validationErr)

	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	assert.Zero(t, count)
}

func TestHookRejectsOverCapacityDirectInsert(t *testing.T) {
	db := setupHookTest(t)

	// fill the slot through a plain gorm insert, bypassing any handler
	require.NoError(t, db.Create(&models.Reservation{
		Date: "2025-06-10", Slot: "19:00", PartySize: 25,
	}).Error)

	err := db.Create(&models.Reservation{
		Date: "2025-06-10", Slot: "19:00", PartySize: 1,
	}).Error

	var capErr *services.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 0, capErr.Remaining)

	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestHookRejectsUnknownSlot(t *testing.T) {
	db := setupHookTest(t)

	err := db.Create(&models.Reservation{
		Date: "2025-06-10", Slot: "02:00", PartySize: 2,
	}).Error

	var slotErr *services.SlotUnavailableError
	require.ErrorAs(t, err, &slotErr)
}

func TestHookFillsDefaultsOnCreate(t *testing.T) {
	db := setupHookTest(t)

	r := &models.Reservation{Date: "2025-06-10", Slot: "19:00", PartySize: 2}
	require.NoError(t, db.Create(r).Error)

	assert.Equal(t, models.ReservationPending, r.Status)
	assert.NotEmpty(t, r.ReferenceCode)
	assert.Contains(t, r.ReferenceCode, "RSV-")
	require.NotNil(t, r.DateTime)
	assert.Equal(t, "2025-06-10 19:00", r.DateTime.Format("2006-01-02 15:04"))
}

func TestHookAllowsBookingAfterCancellation(t *testing.T) {
	db := setupHookTest(t)

	full := &models.Reservation{Date: "2025-06-10", Slot: "19:00", PartySize: 25}
	require.NoError(t, db.Create(full).Error)

	err := db.Create(&models.Reservation{Date: "2025-06-10", Slot: "19:00", PartySize: 5}).Error
	var capErr *services.CapacityError
	require.ErrorAs(t, err, &capErr)

	require.NoError(t, db.Model(full).Update("estado", models.ReservationCancelled).Error)

	require.NoError(t, db.Create(&models.Reservation{
		Date: "2025-06-10", Slot: "19:00", PartySize: 5,
	}).Error)
}

func TestHookValidatesEveryElementOfBatch(t *testing.T) {
	db := setupHookTest(t)

	batch := []models.Reservation{
		{Date: "2025-06-10", Slot: "19:00", PartySize: 20},
		{Date: "2025-06-10", Slot: "19:00", PartySize: 30},
	}
	// second element exceeds the slot capacity on its own, so the whole
	// batch is rejected before any row is written
	err := db.Create(&batch).Error
	var capErr *services.CapacityError
	require.ErrorAs(t, err, &capErr)

	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	assert.Zero(t, count)
}
