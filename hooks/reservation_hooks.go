// hooks/reservation_hooks.go
//
// Write-boundary guard for reservations. The callbacks are registered on the
// gorm create pipeline, so every insert into "reservas" — no matter which
// handler or service issued it — passes field and capacity validation right
// before the row is written. The controller-side check is advisory; this one
// is authoritative.
package hooks

import (
	"time"

	"restaurante-backend/models"
	"restaurante-backend/services"
	"restaurante-backend/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	validateCallback = "reservas:validate"
	notifyCallback   = "reservas:notify"
)

// Register installs the reservation callbacks. Call once after the database
// connection is established.
func Register(db *gorm.DB) error {
	if err := db.Callback().Create().Before("gorm:create").Register(validateCallback, validateReservations); err != nil {
		return err
	}
	return db.Callback().Create().After("gorm:create").Register(notifyCallback, notifyReservations)
}

// destReservations extracts the reservations about to be created, if any.
// Other models pass through untouched.
func destReservations(db *gorm.DB) []*models.Reservation {
	switch dest := db.Statement.Dest.(type) {
	case *models.Reservation:
		return []*models.Reservation{dest}
	case []models.Reservation:
		out := make([]*models.Reservation, 0, len(dest))
		for i := range dest {
			out = append(out, &dest[i])
		}
		return out
	case *[]models.Reservation:
		out := make([]*models.Reservation, 0, len(*dest))
		for i := range *dest {
			out = append(out, &(*dest)[i])
		}
		return out
	case []*models.Reservation:
		return dest
	default:
		return nil
	}
}

func validateReservations(db *gorm.DB) {
	if db.Error != nil {
		return
	}

	for _, r := range destReservations(db) {
		if r.Status == "" {
			r.Status = models.ReservationPending
		}

		if err := services.ValidateReservation(db.Session(&gorm.Session{NewDB: true}), r); err != nil {
			logrus.WithFields(logrus.Fields{
				"fecha":    r.Date,
				"hora":     r.Slot,
				"personas": r.PartySize,
			}).WithError(err).Warn("reservation rejected at write boundary")
			_ = db.AddError(err)
			return
		}

		if r.ReferenceCode == "" {
			code, err := utils.GenerateReservationCode()
			if err == nil {
				r.ReferenceCode = code
			} else {
				logrus.WithError(err).Warn("could not generate reservation code")
			}
		}

		if r.DateTime == nil {
			if t, err := time.Parse("2006-01-02 15:04", r.Date+" "+r.Slot); err == nil {
				r.DateTime = &t
			}
		}
	}
}

func notifyReservations(db *gorm.DB) {
	if db.Error != nil {
		return
	}

	for _, r := range destReservations(db) {
		logrus.WithFields(logrus.Fields{
			"id":       r.ID,
			"codigo":   r.ReferenceCode,
			"fecha":    r.Date,
			"hora":     r.Slot,
			"personas": r.PartySize,
		}).Info("reservation created")

		if r.Email != "" {
			// best effort, never blocks or fails the request
			go func(r models.Reservation) {
				if err := utils.SendReservationConfirmationEmail(r.Email, r.Name, r.Date, r.Slot, r.PartySize, r.ReferenceCode); err != nil {
					logrus.WithField("id", r.ID).WithError(err).Warn("confirmation email failed")
				}
			}(*r)
		}
	}
}
