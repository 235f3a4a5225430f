package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// CapacityConfig overrides the per-slot capacity table for either one exact
// calendar date or one weekday (0=Sunday..6=Saturday). Exactly one of
// SpecificDate / Weekday must be set. Date overrides beat weekday overrides.
type CapacityConfig struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SpecificDate *string `gorm:"column:fecha_especifica;size:10;index" json:"fecha_especifica"`
	Weekday      *int    `gorm:"column:dia_semana;index" json:"dia_semana"`

	Active      bool   `gorm:"column:activo;default:true" json:"activo"`
	Description string `gorm:"column:descripcion;size:255" json:"descripcion"`

	// SlotCapacity maps slot label -> max party capacity, e.g. {"19:30": 25}.
	SlotCapacity datatypes.JSON `gorm:"column:capacidad_por_horario" json:"capacidad_por_horario"`
}

func (CapacityConfig) TableName() string { return "configuracion_capacidad" }

// CapacityTable decodes the JSON slot capacity column.
func (c *CapacityConfig) CapacityTable() (map[string]int, error) {
	table := map[string]int{}
	if len(c.SlotCapacity) == 0 {
		return table, nil
	}
	if err := json.Unmarshal(c.SlotCapacity, &table); err != nil {
		return nil, err
	}
	return table, nil
}
