// controllers/availability_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"restaurante-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AvailabilityController struct {
	DB *gorm.DB
}

func NewAvailabilityController(db *gorm.DB) *AvailabilityController {
	return &AvailabilityController{DB: db}
}

// GetAvailability handles GET /api/availability?fecha=YYYY-MM-DD&personas=N
// and returns the whole day's per-slot availability map.
func (ctrl *AvailabilityController) GetAvailability(c *gin.Context) {
	fecha := c.Query("fecha")
	if fecha == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parámetro fecha es requerido"})
		return
	}

	personas, err := strconv.Atoi(c.DefaultQuery("personas", "1"))
	if err != nil || personas <= 0 {
		personas = 1
	}

	day, err := services.BuildDayAvailability(ctrl.DB, fecha, personas)
	if err != nil {
		logrus.WithField("fecha", fecha).WithError(err).Error("availability check failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al verificar disponibilidad",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, day)
}
