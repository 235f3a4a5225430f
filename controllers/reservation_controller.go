// controllers/reservation_controller.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"restaurante-backend/models"
	"restaurante-backend/services"
	"restaurante-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type CreateReservationRequest struct {
	Name      string `json:"nombre"`
	Email     string `json:"email"`
	Phone     string `json:"telefono"`
	Date      string `json:"fecha"`
	Slot      string `json:"hora"`
	PartySize int    `json:"personas"`
	Comments  string `json:"comentarios"`
}

// UpdateReservationRequest patches a reservation; only non-nil fields are
// applied.
type UpdateReservationRequest struct {
	ID        uint    `json:"id"`
	Name      *string `json:"nombre"`
	Email     *string `json:"email"`
	Phone     *string `json:"telefono"`
	Date      *string `json:"fecha"`
	Slot      *string `json:"hora"`
	PartySize *int    `json:"personas"`
	Status    *string `json:"estado"`
	Comments  *string `json:"comentarios"`
}

// ---------------------------
// Controller
// ---------------------------

type ReservationController struct {
	ReservationSvc *services.ReservationService
}

func NewReservationController(svc *services.ReservationService) *ReservationController {
	return &ReservationController{ReservationSvc: svc}
}

// respondGuardError maps the guard's typed errors onto HTTP statuses:
// validation 400, unknown slot 400, capacity 409, anything else 500.
func respondGuardError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var slotErr *services.SlotUnavailableError
	var capacityErr *services.CapacityError

	switch {
	case errors.As(err, &validationErr):
		utils.JSONErrorWithMessage(c, http.StatusBadRequest, "Datos inválidos", validationErr.Message)
	case errors.As(err, &slotErr):
		utils.JSONErrorWithMessage(c, http.StatusBadRequest, "Horario no disponible",
			fmt.Sprintf("El horario %s no está disponible para la fecha %s.", slotErr.Slot, slotErr.Date))
	case errors.As(err, &capacityErr):
		utils.JSONErrorWithMessage(c, http.StatusConflict, "Capacidad insuficiente", capacityErr.Error())
	default:
		logrus.WithError(err).Error("reservation request failed")
		body := gin.H{
			"success": false,
			"error":   "Error interno",
			"message": "Ocurrió un error inesperado. Por favor intenta nuevamente.",
		}
		if utils.IsDevelopment() {
			body["details"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}

// GetAvailableSlots handles GET /api/reservations?fecha=YYYY-MM-DD.
func (ctrl *ReservationController) GetAvailableSlots(c *gin.Context) {
	fecha := c.Query("fecha")
	if fecha == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parámetro fecha requerido"})
		return
	}

	listing, err := ctrl.ReservationSvc.ListAvailableSlots(fecha)
	if err != nil {
		logrus.WithField("fecha", fecha).WithError(err).Error("slot listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al consultar disponibilidad"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// CreateReservation handles POST /api/reservations. The guard runs here as an
// advisory pre-check and again inside the create callback.
func (ctrl *ReservationController) CreateReservation(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONErrorWithMessage(c, http.StatusBadRequest, "Datos inválidos",
			"Por favor completa todos los campos requeridos")
		return
	}

	reservation := models.Reservation{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Date:      req.Date,
		Slot:      req.Slot,
		PartySize: req.PartySize,
		Comments:  req.Comments,
		Status:    models.ReservationPending,
	}

	if err := ctrl.ReservationSvc.Create(&reservation); err != nil {
		respondGuardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"data":          reservation,
		"configuracion": services.ResolveCapacityConfig(ctrl.ReservationSvc.DB, reservation.Date),
		"message": fmt.Sprintf(
			"¡Reserva confirmada! Tu mesa para %d personas está reservada el %s a las %s. Por favor revisa tu email (incluyendo la carpeta de spam) para ver los detalles de tu reserva.",
			reservation.PartySize, reservation.Date, reservation.Slot,
		),
	})
}

// GetReservation handles GET /api/reservations/:id.
func (ctrl *ReservationController) GetReservation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "ID de reserva inválido"})
		return
	}

	reservation, err := ctrl.ReservationSvc.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrReservationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Reserva no encontrada"})
			return
		}
		respondGuardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": reservation})
}

// UpdateReservation handles PUT /api/reservations with {id, ...fields}.
func (ctrl *ReservationController) UpdateReservation(c *gin.Context) {
	var req UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "ID de reserva requerido"})
		return
	}

	updates := map[string]interface{}{}
	setIf := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	setIf("nombre", req.Name)
	setIf("email", req.Email)
	setIf("telefono", req.Phone)
	setIf("fecha", req.Date)
	setIf("hora", req.Slot)
	setIf("estado", req.Status)
	setIf("comentarios", req.Comments)
	if req.PartySize != nil {
		updates["personas"] = *req.PartySize
	}

	reservation, err := ctrl.ReservationSvc.Update(req.ID, updates)
	if err != nil {
		if errors.Is(err, services.ErrReservationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Reserva no encontrada"})
			return
		}
		respondGuardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reservation,
		"message": "Reserva actualizada exitosamente",
	})
}

// CancelReservation handles DELETE /api/reservations?id=. Soft cancel only.
func (ctrl *ReservationController) CancelReservation(c *gin.Context) {
	idParam := c.Query("id")
	if idParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "ID de reserva requerido"})
		return
	}
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "ID de reserva inválido"})
		return
	}

	if err := ctrl.ReservationSvc.Cancel(uint(id)); err != nil {
		if errors.Is(err, services.ErrReservationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Reserva no encontrada"})
			return
		}
		respondGuardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Reserva cancelada exitosamente",
	})
}
