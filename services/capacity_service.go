// services/capacity_service.go
package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"restaurante-backend/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CapacityTable maps a slot label ("19:30") to its maximum party capacity.
type CapacityTable map[string]int

// Resolution tiers, highest priority first.
const (
	TierSpecificDate = "fecha_especifica"
	TierWeekday      = "dia_semana"
	TierDefault      = "default"
)

// DefaultCapacity is the global fallback table. It applies whenever no active
// CapacityConfig matches the date, and it is the last tier of the resolver,
// so resolution can never come back empty.
var DefaultCapacity = CapacityTable{
	"10:00": 20,
	"10:30": 20,
	"11:00": 20,
	"11:30": 20,
	"12:00": 20,
	"12:30": 20,
	"13:00": 25,
	"13:30": 25,
	"14:00": 30,
	"14:30": 30,
	"15:00": 25,
	"19:00": 25,
	"19:30": 25,
	"20:00": 30,
	"20:30": 30,
	"21:00": 25,
	"21:30": 20,
}

const defaultConfigDescription = "Configuración estándar"

// CapacityResolution is the capacity table that applies to one date, together
// with the tier it came from.
type CapacityResolution struct {
	Table       CapacityTable `json:"-"`
	Tier        string        `json:"tipo"`
	Description string        `json:"descripcion"`
}

// Availability is the result of checking one (date, slot) pair.
type Availability struct {
	MaxCapacity int
	Booked      int
	Remaining   int
	Resolution  CapacityResolution
}

// OccupancyPercent reports occupancy rounded to one decimal, e.g. "12.5".
func (a *Availability) OccupancyPercent() string {
	if a.MaxCapacity <= 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(a.Booked)/float64(a.MaxCapacity)*100)
}

// ValidationError is a rejected input: missing or malformed fields. Produced
// before any database access.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// SlotUnavailableError means the slot has no entry in the capacity table that
// applies to the date.
type SlotUnavailableError struct {
	Date string
	Slot string
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("El horario %s no está disponible para la fecha %s", e.Slot, e.Date)
}

// CapacityError means the slot exists but cannot hold the requested party.
type CapacityError struct {
	Date      string
	Slot      string
	Remaining int
	Requested int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf(
		"Capacidad insuficiente para %s. Solo quedan %d espacios disponibles para el horario de las %s, pero solicitas %d personas.",
		e.Date, e.Remaining, e.Slot, e.Requested,
	)
}

// weekdayOf derives 0=Sunday..6=Saturday from a civil "YYYY-MM-DD" date.
// The weekday is a property of the calendar date itself, so no timezone is
// involved.
func weekdayOf(fecha string) (int, error) {
	t, err := time.Parse("2006-01-02", fecha)
	if err != nil {
		return 0, err
	}
	return int(t.Weekday()), nil
}

// ResolveCapacityConfig returns the capacity table that applies to fecha.
// Priority: active date-specific config, then active weekday config, then
// DefaultCapacity. Lookup failures are logged and treated as not-found for
// that tier, so the result is always usable.
func ResolveCapacityConfig(db *gorm.DB, fecha string) CapacityResolution {
	if res, ok := lookupConfig(db, fecha,
		"fecha_especifica = ? AND activo = ?", fecha, true); ok {
		res.Tier = TierSpecificDate
		return res
	}

	weekday, err := weekdayOf(fecha)
	if err != nil {
		logrus.WithField("fecha", fecha).WithError(err).Warn("unparseable date, skipping weekday tier")
	} else if res, ok := lookupConfig(db, fecha,
		"dia_semana = ? AND activo = ? AND fecha_especifica IS NULL", weekday, true); ok {
		res.Tier = TierWeekday
		return res
	}

	return CapacityResolution{
		Table:       DefaultCapacity,
		Tier:        TierDefault,
		Description: defaultConfigDescription,
	}
}

// lookupConfig fetches the first (lowest id) config matching the condition.
// Any error, including a corrupt capacity column, degrades to not-found.
func lookupConfig(db *gorm.DB, fecha string, query string, args ...interface{}) (CapacityResolution, bool) {
	var cfg models.CapacityConfig
	err := db.Where(query, args...).Order("id ASC").First(&cfg).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithField("fecha", fecha).WithError(err).Warn("capacity config lookup failed, falling through")
		}
		return CapacityResolution{}, false
	}

	table, err := cfg.CapacityTable()
	if err != nil || len(table) == 0 {
		logrus.WithFields(logrus.Fields{"fecha": fecha, "config_id": cfg.ID}).
			WithError(err).Warn("capacity config has unusable slot table, falling through")
		return CapacityResolution{}, false
	}

	return CapacityResolution{Table: table, Description: cfg.Description}, true
}

// bookedPartySize sums party sizes of non-cancelled reservations for one
// (date, slot). Cancelled reservations never count toward occupancy.
func bookedPartySize(db *gorm.DB, fecha, hora string) (int, error) {
	var total int64
	err := db.Model(&models.Reservation{}).
		Where("fecha = ? AND hora = ? AND estado <> ?", fecha, hora, models.ReservationCancelled).
		Select("COALESCE(SUM(personas), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("consulta de reservas fallida: %w", err)
	}
	return int(total), nil
}

// CheckAvailability resolves the capacity table for fecha and computes the
// remaining capacity of hora. Returns SlotUnavailableError when the slot has
// no entry in the applicable table.
func CheckAvailability(db *gorm.DB, fecha, hora string) (*Availability, error) {
	resolution := ResolveCapacityConfig(db, fecha)

	maxCapacity, ok := resolution.Table[hora]
	if !ok {
		return nil, &SlotUnavailableError{Date: fecha, Slot: hora}
	}

	booked, err := bookedPartySize(db, fecha, hora)
	if err != nil {
		return nil, err
	}

	return &Availability{
		MaxCapacity: maxCapacity,
		Booked:      booked,
		Remaining:   maxCapacity - booked,
		Resolution:  resolution,
	}, nil
}

// ValidateReservation is the booking guard. Gate 1 checks fields without any
// I/O; gate 2 checks remaining capacity. It runs in the POST handler as an
// advisory pre-check and again inside the create callback, where it is
// authoritative.
func ValidateReservation(db *gorm.DB, r *models.Reservation) error {
	if r.Date == "" || r.Slot == "" {
		return &ValidationError{Message: "Datos de reserva incompletos: fecha, hora y personas son requeridos"}
	}
	if r.PartySize <= 0 {
		return &ValidationError{Message: "Número de personas debe ser mayor a 0"}
	}

	avail, err := CheckAvailability(db, r.Date, r.Slot)
	if err != nil {
		return err
	}

	if avail.Remaining < r.PartySize {
		return &CapacityError{
			Date:      r.Date,
			Slot:      r.Slot,
			Remaining: avail.Remaining,
			Requested: r.PartySize,
		}
	}

	logrus.WithFields(logrus.Fields{
		"fecha":     r.Date,
		"hora":      r.Slot,
		"personas":  r.PartySize,
		"restantes": avail.Remaining,
		"config":    avail.Resolution.Description,
	}).Debug("reservation passed capacity validation")
	return nil
}

// Slot availability states used by the day map.
const (
	SlotStateFull         = "lleno"
	SlotStateInsufficient = "insuficiente"
	SlotStateAvailable    = "disponible"
)

type SlotAvailability struct {
	MaxCapacity       int    `json:"capacidadMaxima"`
	Booked            int    `json:"personasReservadas"`
	Remaining         int    `json:"espaciosDisponibles"`
	AvailableForGroup bool   `json:"disponibleParaGrupo"`
	OccupancyPercent  string `json:"porcentajeOcupacion"`
	State             string `json:"estado"`
}

type DaySummary struct {
	TotalSlots        int `json:"totalHorarios"`
	AvailableSlots    int `json:"horariosDisponibles"`
	FullSlots         int `json:"horariosLlenos"`
	InsufficientSlots int `json:"horariosInsuficientes"`
}

type DayAvailability struct {
	Date          string                      `json:"fecha"`
	RequestedSize int                         `json:"personasSolicitadas"`
	Slots         map[string]SlotAvailability `json:"horarios"`
	Summary       DaySummary                  `json:"resumen"`
	Resolution    CapacityResolution          `json:"configuracion"`
}

// bookedBySlot aggregates non-cancelled reservations of one date per slot in
// a single query.
func bookedBySlot(db *gorm.DB, fecha string) (map[string]int, error) {
	var rows []struct {
		Hora  string
		Total int
	}
	err := db.Model(&models.Reservation{}).
		Where("fecha = ? AND estado <> ?", fecha, models.ReservationCancelled).
		Select("hora, COALESCE(SUM(personas), 0) AS total").
		Group("hora").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("consulta de reservas fallida: %w", err)
	}

	booked := make(map[string]int, len(rows))
	for _, row := range rows {
		booked[row.Hora] = row.Total
	}
	return booked, nil
}

// BuildDayAvailability computes the per-slot availability map for a whole day
// against the requested party size.
func BuildDayAvailability(db *gorm.DB, fecha string, personas int) (*DayAvailability, error) {
	if personas <= 0 {
		personas = 1
	}

	resolution := ResolveCapacityConfig(db, fecha)
	booked, err := bookedBySlot(db, fecha)
	if err != nil {
		return nil, err
	}

	day := &DayAvailability{
		Date:          fecha,
		RequestedSize: personas,
		Slots:         make(map[string]SlotAvailability, len(resolution.Table)),
		Resolution:    resolution,
	}

	for hora, maxCapacity := range resolution.Table {
		avail := Availability{
			MaxCapacity: maxCapacity,
			Booked:      booked[hora],
			Remaining:   maxCapacity - booked[hora],
			Resolution:  resolution,
		}

		state := SlotStateAvailable
		switch {
		case avail.Remaining <= 0:
			state = SlotStateFull
		case avail.Remaining < personas:
			state = SlotStateInsufficient
		}

		day.Slots[hora] = SlotAvailability{
			MaxCapacity:       avail.MaxCapacity,
			Booked:            avail.Booked,
			Remaining:         avail.Remaining,
			AvailableForGroup: avail.Remaining >= personas,
			OccupancyPercent:  avail.OccupancyPercent(),
			State:             state,
		}
	}

	day.Summary.TotalSlots = len(day.Slots)
	for _, slot := range day.Slots {
		switch {
		case slot.AvailableForGroup:
			day.Summary.AvailableSlots++
		case slot.Remaining <= 0:
			day.Summary.FullSlots++
		default:
			day.Summary.InsufficientSlots++
		}
	}

	return day, nil
}

// SortedSlots returns the slot labels of a table in chronological order.
// "HH:MM" labels sort correctly as strings.
func SortedSlots(table CapacityTable) []string {
	slots := make([]string, 0, len(table))
	for hora := range table {
		slots = append(slots, hora)
	}
	sort.Strings(slots)
	return slots
}
