// controllers/capacity_config_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"restaurante-backend/models"
	"restaurante-backend/services"
	"restaurante-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CapacityConfigController struct {
	ConfigSvc *services.CapacityConfigService
}

func NewCapacityConfigController(svc *services.CapacityConfigService) *CapacityConfigController {
	return &CapacityConfigController{ConfigSvc: svc}
}

func (ctrl *CapacityConfigController) GetConfigs(c *gin.Context) {
	configs, err := ctrl.ConfigSvc.List()
	if err != nil {
		logrus.WithError(err).Error("capacity config listing failed")
		utils.JSONError(c, http.StatusInternalServerError, "Error al consultar configuraciones")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, configs)
}

func (ctrl *CapacityConfigController) CreateConfig(c *gin.Context) {
	var cfg models.CapacityConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Cuerpo de la solicitud inválido: "+err.Error())
		return
	}

	if err := ctrl.ConfigSvc.Create(&cfg); err != nil {
		ctrl.respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, cfg)
}

func (ctrl *CapacityConfigController) UpdateConfig(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "ID de configuración inválido")
		return
	}

	var cfg models.CapacityConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Cuerpo de la solicitud inválido: "+err.Error())
		return
	}

	updated, err := ctrl.ConfigSvc.Update(uint(id), &cfg)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}

// DeleteConfig disables instead of deleting, keeping the override history.
func (ctrl *CapacityConfigController) DeleteConfig(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "ID de configuración inválido")
		return
	}

	if err := ctrl.ConfigSvc.Disable(uint(id)); err != nil {
		ctrl.respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "activo": false})
}

func (ctrl *CapacityConfigController) respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var conflictErr *services.ConfigConflictError
	switch {
	case errors.Is(err, services.ErrCapacityConfigNotFound):
		utils.JSONError(c, http.StatusNotFound, "Configuración no encontrada")
	case errors.As(err, &validationErr):
		utils.JSONError(c, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &conflictErr):
		utils.JSONError(c, http.StatusConflict, conflictErr.Error())
	default:
		logrus.WithError(err).Error("capacity config request failed")
		utils.JSONError(c, http.StatusInternalServerError, "Error al guardar la configuración")
	}
}
