// services/reservation_service.go
package services

import (
	"errors"
	"fmt"

	"restaurante-backend/models"

	"gorm.io/gorm"
)

var ErrReservationNotFound = errors.New("reserva no encontrada")

// ReservationService wraps *gorm.DB for the reservation flows. The capacity
// guard also runs inside the create callback, so a reservation written through
// any code path gets the authoritative check.
type ReservationService struct {
	DB *gorm.DB
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{DB: db}
}

// AvailableSlot is one bookable slot in the GET /reservations listing.
type AvailableSlot struct {
	Slot        string `json:"hora"`
	MaxCapacity int    `json:"capacidadMaxima"`
	Booked      int    `json:"personasReservadas"`
	Remaining   int    `json:"espaciosDisponibles"`
	Available   bool   `json:"disponible"`
}

// SlotListing is the GET /reservations response body.
type SlotListing struct {
	Date       string             `json:"fecha"`
	Resolution CapacityResolution `json:"configuracion"`
	Slots      []AvailableSlot    `json:"horariosDisponibles"`
	Total      int                `json:"total"`
}

// ListAvailableSlots returns the slots of fecha that still have room,
// chronologically ordered, with the configuration tier that was applied.
func (s *ReservationService) ListAvailableSlots(fecha string) (*SlotListing, error) {
	resolution := ResolveCapacityConfig(s.DB, fecha)
	booked, err := bookedBySlot(s.DB, fecha)
	if err != nil {
		return nil, err
	}

	listing := &SlotListing{
		Date:       fecha,
		Resolution: resolution,
		Slots:      []AvailableSlot{},
	}
	for _, hora := range SortedSlots(resolution.Table) {
		remaining := resolution.Table[hora] - booked[hora]
		if remaining <= 0 {
			continue
		}
		listing.Slots = append(listing.Slots, AvailableSlot{
			Slot:        hora,
			MaxCapacity: resolution.Table[hora],
			Booked:      booked[hora],
			Remaining:   remaining,
			Available:   true,
		})
	}
	listing.Total = len(listing.Slots)
	return listing, nil
}

// Create runs the advisory guard and persists the reservation. The create
// callback repeats the guard at the write boundary, so a failure there also
// surfaces here as a typed error.
func (s *ReservationService) Create(r *models.Reservation) error {
	if err := ValidateReservation(s.DB, r); err != nil {
		return err
	}
	return s.DB.Create(r).Error
}

func (s *ReservationService) GetByID(id uint) (*models.Reservation, error) {
	var r models.Reservation
	if err := s.DB.First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &r, nil
}

// Update patches the allowed fields of an existing reservation. Capacity is
// not re-validated on update, matching the create-only enforcement of the
// write boundary.
func (s *ReservationService) Update(id uint, updates map[string]interface{}) (*models.Reservation, error) {
	if len(updates) == 0 {
		return s.GetByID(id)
	}

	result := s.DB.Model(&models.Reservation{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("no se pudo actualizar la reserva: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrReservationNotFound
	}
	return s.GetByID(id)
}

// Cancel soft-cancels: estado becomes "cancelada" and the row is kept, so the
// freed capacity shows up in the next availability check.
func (s *ReservationService) Cancel(id uint) error {
	result := s.DB.Model(&models.Reservation{}).
		Where("id = ? AND estado <> ?", id, models.ReservationCancelled).
		Update("estado", models.ReservationCancelled)
	if result.Error != nil {
		return fmt.Errorf("no se pudo cancelar la reserva: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		s.DB.Model(&models.Reservation{}).Where("id = ?", id).Count(&count)
		if count == 0 {
			return ErrReservationNotFound
		}
		// already cancelled, idempotent
	}
	return nil
}
