package services

import (
	"testing"

	"restaurante-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestCapacityConfigCreateValidation(t *testing.T) {
	db := setupServiceTest(t)
	svc := NewCapacityConfigService(db)

	var validationErr *ValidationError

	// both targets set
	err := svc.Create(&models.CapacityConfig{
		SpecificDate: strPtr("2025-06-10"),
		Weekday:      intPtr(2),
		Active:       true,
		SlotCapacity: datatypes.JSON(`{"19:00": 10}`),
	})
	require.ErrorAs(t, err, &validationErr)

	// no target
	err = svc.Create(&models.CapacityConfig{
		Active:       true,
		SlotCapacity: datatypes.JSON(`{"19:00": 10}`),
	})
	require.ErrorAs(t, err, &validationErr)

	// weekday out of range
	err = svc.Create(&models.CapacityConfig{
		Weekday:      intPtr(7),
		Active:       true,
		SlotCapacity: datatypes.JSON(`{"19:00": 10}`),
	})
	require.ErrorAs(t, err, &validationErr)

	// bad slot label
	err = svc.Create(&models.CapacityConfig{
		Weekday:      intPtr(2),
		Active:       true,
		SlotCapacity: datatypes.JSON(`{"25:00": 10}`),
	})
	require.ErrorAs(t, err, &validationErr)

	// non-positive capacity
	err = svc.Create(&models.CapacityConfig{
		Weekday:      intPtr(2),
		Active:       true,
		SlotCapacity: datatypes.JSON(`{"19:00": 0}`),
	})
	require.ErrorAs(t, err, &validationErr)

	// empty table
	err = svc.Create(&models.CapacityConfig{
		Weekday:      intPtr(2),
		Active:       true,
		SlotCapacity: datatypes.JSON(`{}`),
	})
	require.ErrorAs(t, err, &validationErr)
}

func TestCapacityConfigDuplicateActiveRejected(t *testing.T) {
	db := setupServiceTest(t)
	svc := NewCapacityConfigService(db)

	first := &models.CapacityConfig{
		Weekday:      intPtr(2),
		Active:       true,
		Description:  "Martes",
		SlotCapacity: datatypes.JSON(`{"19:00": 10}`),
	}
	require.NoError(t, svc.Create(first))

	dup := &models.CapacityConfig{
		Weekday:      intPtr(2),
		Active:       true,
		Description:  "Martes bis",
		SlotCapacity: datatypes.JSON(`{"19:00": 15}`),
	}
	err := svc.Create(dup)
	var conflictErr *ConfigConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, first.ID, conflictErr.ExistingID)

	// a different weekday is fine
	require.NoError(t, svc.Create(&models.CapacityConfig{
		Weekday:      intPtr(3),
		Active:       true,
		SlotCapacity: datatypes.JSON(`{"19:00": 15}`),
	}))

	// same date twice also conflicts
	require.NoError(t, svc.Create(&models.CapacityConfig{
		SpecificDate: strPtr("2025-06-10"),
		Active:       true,
		SlotCapacity: datatypes.JSON(`{"19:00": 15}`),
	}))
	err = svc.Create(&models.CapacityConfig{
		SpecificDate: strPtr("2025-06-10"),
		Active:       true,
		SlotCapacity: datatypes.JSON(`{"19:00": 20}`),
	})
	require.ErrorAs(t, err, &conflictErr)
}

func TestCapacityConfigInactiveDoesNotConflict(t *testing.T) {
	db := setupServiceTest(t)
	svc := NewCapacityConfigService(db)

	require.NoError(t, svc.Create(&models.CapacityConfig{
		Weekday:      intPtr(2),
		Active:       true,
		SlotCapacity: datatypes.JSON(`{"19:00": 10}`),
	}))

	require.NoError(t, svc.Create(&models.CapacityConfig{
		Weekday:      intPtr(2),
		Active:       false,
		SlotCapacity: datatypes.JSON(`{"19:00": 15}`),
	}))
}

func TestCapacityConfigUpdateAndDisable(t *testing.T) {
	db := setupServiceTest(t)
	svc := NewCapacityConfigService(db)

	cfg := &models.CapacityConfig{
		Weekday:      intPtr(2),
		Active:       true,
		Description:  "Martes",
		SlotCapacity: datatypes.JSON(`{"19:00": 10}`),
	}
	require.NoError(t, svc.Create(cfg))

	updated, err := svc.Update(cfg.ID, &models.CapacityConfig{
		Weekday:      intPtr(2),
		Active:       true,
		Description:  "Martes ampliado",
		SlotCapacity: datatypes.JSON(`{"19:00": 30, "20:00": 30}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "Martes ampliado", updated.Description)

	table, err := updated.CapacityTable()
	require.NoError(t, err)
	assert.Equal(t, 30, table["19:00"])

	require.NoError(t, svc.Disable(cfg.ID))

	// disabled config no longer participates in resolution
	res := ResolveCapacityConfig(db, "2025-06-10")
	assert.Equal(t, TierDefault, res.Tier)

	assert.ErrorIs(t, svc.Disable(999), ErrCapacityConfigNotFound)
}
