package models

import (
	"time"
)

// Reservation status values. Cancelled rows stay in the table; cancellation
// is a status transition, never a delete.
const (
	ReservationPending   = "pendiente"
	ReservationConfirmed = "confirmada"
	ReservationCancelled = "cancelada"
	ReservationCompleted = "completada"
)

type Reservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ReferenceCode string `gorm:"column:codigo_reserva;size:32;index" json:"codigo_reserva,omitempty"`

	Name  string `gorm:"column:nombre;size:150" json:"nombre"`
	Email string `gorm:"column:email;size:150" json:"email"`
	Phone string `gorm:"column:telefono;size:50" json:"telefono,omitempty"`

	// Fecha is the civil date "YYYY-MM-DD", Hora the slot label "HH:MM".
	Date string `gorm:"column:fecha;size:10;index:idx_reservas_fecha_hora" json:"fecha"`
	Slot string `gorm:"column:hora;size:5;index:idx_reservas_fecha_hora" json:"hora"`

	PartySize int        `gorm:"column:personas" json:"personas"`
	DateTime  *time.Time `gorm:"column:fecha_hora" json:"fecha_hora,omitempty"`

	Status   string `gorm:"column:estado;size:32;default:pendiente;index" json:"estado"`
	Comments string `gorm:"column:comentarios;type:text" json:"comentarios,omitempty"`
}

func (Reservation) TableName() string { return "reservas" }
