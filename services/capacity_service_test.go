package services

import (
	"testing"

	"restaurante-backend/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupServiceTest creates an isolated in-memory database with the full
// schema migrated.
func setupServiceTest(tb testing.TB) *gorm.DB {
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

	require.NoError(tb, db.AutoMigrate(
		&models.RestaurantSetting{},
		&models.CapacityConfig{},
		&models.Reservation{},
		&models.ContactMessage{},
	))
	return db
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestResolveCapacityConfigDefaultWhenNoOverrides(t *testing.T) {
	db := setupServiceTest(t)

	res := ResolveCapacityConfig(db, "2025-06-10")

	assert.Equal(t, TierDefault, res.Tier)
	assert.Equal(t, 25, res.Table["19:00"])
	assert.Equal(t, 20, res.Table["21:30"])
	assert.Len(t, res.Table, 17)
}

func TestResolveCapacityConfigWeekdayTier(t *testing.T) {
	db := setupServiceTest(t)

	// 2025-06-10 is a Tuesday (weekday 2)
	require.NoError(t, db.Create(&models.CapacityConfig{
		Weekday:      intPtr(2),
		Active:       true,
		Description:  "Martes reducido",
		SlotCapacity: datatypes.JSON(`{"19:00": 10, "20:00": 12}`),
	}).Error)

	res := ResolveCapacityConfig(db, "2025-06-10")
	assert.Equal(t, TierWeekday, res.Tier)
	assert.Equal(t, "Martes reducido", res.Description)
	assert.Equal(t, 10, res.Table["19:00"])

	// a Wednesday keeps the default
	res = ResolveCapacityConfig(db, "2025-06-11")
	assert.Equal(t, TierDefault, res.Tier)
}

func TestResolveCapacityConfigDateBeatsWeekday(t *testing.T) {
	db := setupServiceTest(t)

	require.NoError(t, db.Create(&models.CapacityConfig{
		Weekday:      intPtr(2),
		Active:       true,
		Description:  "Martes normal",
		SlotCapacity: datatypes.JSON(`{"19:00": 10}`),
	}).Error)
	require.NoError(t, db.Create(&models.CapacityConfig{
		SpecificDate: strPtr("2025-06-10"),
		Active:       true,
		Description:  "Evento privado",
		SlotCapacity: datatypes.JSON(`{"19:00": 5}`),
	}).Error)

	res := ResolveCapacityConfig(db, "2025-06-10")
	assert.Equal(t, TierSpecificDate, res.Tier)
	assert.Equal(t, "Evento privado", res.Description)
	assert.Equal(t, 5, res.Table["19:00"])
}

func TestResolveCapacityConfigIgnoresInactive(t *testing.T) {
	db := setupServiceTest(t)

	require.NoError(t, db.Create(&models.CapacityConfig{
		SpecificDate: strPtr("2025-06-10"),
		Active:       false,
		Description:  "apagada",
		SlotCapacity: datatypes.JSON(`{"19:00": 5}`),
	}).Error)

	res := ResolveCapacityConfig(db, "2025-06-10")
	assert.Equal(t, TierDefault, res.Tier)
}

func TestResolveCapacityConfigTotalOnLookupFailure(t *testing.T) {
	// No schema at all: every lookup errors and the resolver must still
	// return the default table.
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	res := ResolveCapacityConfig(db, "2025-06-10")
	assert.Equal(t, TierDefault, res.Tier)
	assert.Equal(t, 25, res.Table["19:00"])
}

func TestResolveCapacityConfigUnparseableDateSkipsWeekday(t *testing.T) {
	db := setupServiceTest(t)

	res := ResolveCapacityConfig(db, "not-a-date")
	assert.Equal(t, TierDefault, res.Tier)
}

func TestCheckAvailabilityExcludesCancelled(t *testing.T) {
	db := setupServiceTest(t)

	require.NoError(t, db.Create(&models.Reservation{
		Date: "2025-06-10", Slot: "19:00", PartySize: 10, Status: models.ReservationCancelled,
	}).Error)
	require.NoError(t, db.Create(&models.Reservation{
		Date: "2025-06-10", Slot: "19:00", PartySize: 4, Status: models.ReservationPending,
	}).Error)
	require.NoError(t, db.Create(&models.Reservation{
		Date: "2025-06-10", Slot: "19:00", PartySize: 6, Status: models.ReservationConfirmed,
	}).Error)

	avail, err := CheckAvailability(db, "2025-06-10", "19:00")
	require.NoError(t, err)
	assert.Equal(t, 25, avail.MaxCapacity)
	assert.Equal(t, 10, avail.Booked)
	assert.Equal(t, 15, avail.Remaining)
	assert.Equal(t, "40.0", avail.OccupancyPercent())
}

func TestCheckAvailabilityUnknownSlot(t *testing.T) {
	db := setupServiceTest(t)

	_, err := CheckAvailability(db, "2025-06-10", "03:00")
	var slotErr *SlotUnavailableError
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, "03:00", slotErr.Slot)
}

func TestValidateReservationFieldGate(t *testing.T) {
	db := setupServiceTest(t)

	var validationErr *ValidationError

	err := ValidateReservation(db, &models.Reservation{Slot: "19:00", PartySize: 2})
	require.ErrorAs(t, err, &validationErr)

	err = ValidateReservation(db, &models.Reservation{Date: "2025-06-10", Slot: "19:00", PartySize: 0})
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "mayor a 0")
}

func TestValidateReservationExactFillThenReject(t *testing.T) {
	db := setupServiceTest(t)

	// Tuesday 2025-06-10, no overrides, slot 19:00 has default capacity 25.
	first := &models.Reservation{Date: "2025-06-10", Slot: "19:00", PartySize: 25}
	require.NoError(t, ValidateReservation(db, first))
	require.NoError(t, db.Create(first).Error)

	second := &models.Reservation{Date: "2025-06-10", Slot: "19:00", PartySize: 1}
	err := ValidateReservation(db, second)

	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 0, capErr.Remaining)
	assert.Contains(t, capErr.Error(), "Solo quedan 0 espacios")
}

func TestValidateReservationOffByOneRejected(t *testing.T) {
	db := setupServiceTest(t)

	require.NoError(t, db.Create(&models.Reservation{
		Date: "2025-06-10", Slot: "19:00", PartySize: 22, Status: models.ReservationConfirmed,
	}).Error)

	// remaining == 3, requesting 4 must fail naming the exact count
	err := ValidateReservation(db, &models.Reservation{Date: "2025-06-10", Slot: "19:00", PartySize: 4})
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 3, capErr.Remaining)
	assert.Contains(t, capErr.Error(), "Solo quedan 3 espacios")

	// remaining == requested succeeds
	assert.NoError(t, ValidateReservation(db, &models.Reservation{Date: "2025-06-10", Slot: "19:00", PartySize: 3}))
}

func TestCancellationFreesCapacity(t *testing.T) {
	db := setupServiceTest(t)

	r := &models.Reservation{Date: "2025-06-10", Slot: "19:00", PartySize: 25, Status: models.ReservationPending}
	require.NoError(t, db.Create(r).Error)

	avail, err := CheckAvailability(db, "2025-06-10", "19:00")
	require.NoError(t, err)
	assert.Equal(t, 0, avail.Remaining)

	require.NoError(t, db.Model(r).Update("estado", models.ReservationCancelled).Error)

	// row is still there, only the status changed
	var count int64
	db.Model(&models.Reservation{}).Where("id = ?", r.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	avail, err = CheckAvailability(db, "2025-06-10", "19:00")
	require.NoError(t, err)
	assert.Equal(t, 25, avail.Remaining)
}

func TestBuildDayAvailabilityStatesAndSummary(t *testing.T) {
	db := setupServiceTest(t)

	// 19:00 full (25/25), 19:30 has 2 left (23/25), rest untouched
	require.NoError(t, db.Create(&models.Reservation{
		Date: "2025-06-10", Slot: "19:00", PartySize: 25, Status: models.ReservationConfirmed,
	}).Error)
	require.NoError(t, db.Create(&models.Reservation{
		Date: "2025-06-10", Slot: "19:30", PartySize: 23, Status: models.ReservationPending,
	}).Error)

	day, err := BuildDayAvailability(db, "2025-06-10", 4)
	require.NoError(t, err)

	assert.Equal(t, "2025-06-10", day.Date)
	assert.Equal(t, 4, day.RequestedSize)
	assert.Equal(t, 17, day.Summary.TotalSlots)

	full := day.Slots["19:00"]
	assert.Equal(t, SlotStateFull, full.State)
	assert.False(t, full.AvailableForGroup)
	assert.Equal(t, "100.0", full.OccupancyPercent)

	short := day.Slots["19:30"]
	assert.Equal(t, SlotStateInsufficient, short.State)
	assert.Equal(t, 2, short.Remaining)
	assert.False(t, short.AvailableForGroup)

	open := day.Slots["14:00"]
	assert.Equal(t, SlotStateAvailable, open.State)
	assert.True(t, open.AvailableForGroup)
	assert.Equal(t, "0.0", open.OccupancyPercent)

	assert.Equal(t, 1, day.Summary.FullSlots)
	assert.Equal(t, 1, day.Summary.InsufficientSlots)
	assert.Equal(t, 15, day.Summary.AvailableSlots)
}

func TestSortedSlots(t *testing.T) {
	slots := SortedSlots(CapacityTable{"21:30": 1, "10:00": 1, "19:00": 1})
	assert.Equal(t, []string{"10:00", "19:00", "21:30"}, slots)
}
