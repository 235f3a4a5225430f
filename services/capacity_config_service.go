// services/capacity_config_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"restaurante-backend/models"

	"gorm.io/gorm"
)

var ErrCapacityConfigNotFound = errors.New("configuración no encontrada")

// ConfigConflictError means another active config already covers the same
// date or weekday. Duplicate active overrides are a configuration-integrity
// violation, so they are rejected at write time instead of being resolved by
// query order.
type ConfigConflictError struct {
	ExistingID uint
}

func (e *ConfigConflictError) Error() string {
	return fmt.Sprintf("ya existe una configuración activa para ese objetivo (id %d)", e.ExistingID)
}

var slotLabelPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type CapacityConfigService struct {
	DB *gorm.DB
}

func NewCapacityConfigService(db *gorm.DB) *CapacityConfigService {
	return &CapacityConfigService{DB: db}
}

// validateConfig enforces the structural rules: exactly one target
// (fecha_especifica or dia_semana), weekday in 0..6, and a well formed slot
// table with positive capacities.
func validateConfig(cfg *models.CapacityConfig) error {
	hasDate := cfg.SpecificDate != nil && *cfg.SpecificDate != ""
	hasWeekday := cfg.Weekday != nil

	if hasDate == hasWeekday {
		return &ValidationError{Message: "La configuración debe indicar fecha_especifica o dia_semana, pero no ambos"}
	}
	if hasDate {
		if _, err := weekdayOf(*cfg.SpecificDate); err != nil {
			return &ValidationError{Message: "fecha_especifica debe tener formato YYYY-MM-DD"}
		}
	}
	if hasWeekday && (*cfg.Weekday < 0 || *cfg.Weekday > 6) {
		return &ValidationError{Message: "dia_semana debe estar entre 0 (domingo) y 6 (sábado)"}
	}

	table := map[string]int{}
	if len(cfg.SlotCapacity) > 0 {
		if err := json.Unmarshal(cfg.SlotCapacity, &table); err != nil {
			return &ValidationError{Message: "capacidad_por_horario debe ser un objeto {\"HH:MM\": capacidad}"}
		}
	}
	if len(table) == 0 {
		return &ValidationError{Message: "capacidad_por_horario no puede estar vacío"}
	}
	for hora, capacity := range table {
		if !slotLabelPattern.MatchString(hora) {
			return &ValidationError{Message: fmt.Sprintf("horario inválido: %q (se espera HH:MM)", hora)}
		}
		if capacity <= 0 {
			return &ValidationError{Message: fmt.Sprintf("la capacidad del horario %s debe ser mayor a 0", hora)}
		}
	}
	return nil
}

// findConflict looks for another ACTIVE config on the same target. Inactive
// configs never conflict.
func (s *CapacityConfigService) findConflict(cfg *models.CapacityConfig, excludeID uint) error {
	if !cfg.Active {
		return nil
	}

	query := s.DB.Model(&models.CapacityConfig{}).Where("activo = ?", true)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if cfg.SpecificDate != nil && *cfg.SpecificDate != "" {
		query = query.Where("fecha_especifica = ?", *cfg.SpecificDate)
	} else {
		query = query.Where("dia_semana = ? AND fecha_especifica IS NULL", *cfg.Weekday)
	}

	var existing models.CapacityConfig
	err := query.Order("id ASC").First(&existing).Error
	if err == nil {
		return &ConfigConflictError{ExistingID: existing.ID}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func (s *CapacityConfigService) List() ([]models.CapacityConfig, error) {
	var configs []models.CapacityConfig
	err := s.DB.Order("id ASC").Find(&configs).Error
	return configs, err
}

func (s *CapacityConfigService) Create(cfg *models.CapacityConfig) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if err := s.findConflict(cfg, 0); err != nil {
		return err
	}
	return s.DB.Create(cfg).Error
}

func (s *CapacityConfigService) Update(id uint, cfg *models.CapacityConfig) (*models.CapacityConfig, error) {
	var existing models.CapacityConfig
	if err := s.DB.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCapacityConfigNotFound
		}
		return nil, err
	}

	existing.SpecificDate = cfg.SpecificDate
	existing.Weekday = cfg.Weekday
	existing.Active = cfg.Active
	existing.Description = cfg.Description
	existing.SlotCapacity = cfg.SlotCapacity

	if err := validateConfig(&existing); err != nil {
		return nil, err
	}
	if err := s.findConflict(&existing, existing.ID); err != nil {
		return nil, err
	}
	if err := s.DB.Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// Disable turns a config off instead of deleting it, so history stays
// queryable.
func (s *CapacityConfigService) Disable(id uint) error {
	result := s.DB.Model(&models.CapacityConfig{}).Where("id = ?", id).Update("activo", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCapacityConfigNotFound
	}
	return nil
}
