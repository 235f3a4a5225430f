// controllers/contact_controller.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"restaurante-backend/services"
	"restaurante-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type contactStatusPayload struct {
	ID         uint   `json:"id"`
	Status     string `json:"estado"`
	AdminNotes string `json:"notas_admin"`
}

type ContactController struct {
	ContactSvc *services.ContactService
}

func NewContactController(svc *services.ContactService) *ContactController {
	return &ContactController{ContactSvc: svc}
}

// CreateContact handles POST /api/contact: validate everything, persist with
// estado "nuevo" and the caller IP.
func (ctrl *ContactController) CreateContact(c *gin.Context) {
	var input services.ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONErrorWithMessage(c, http.StatusBadRequest, "Datos inválidos",
			"Cuerpo de la solicitud inválido")
		return
	}

	msg, validationErrors := services.ValidateContactInput(input)
	if len(validationErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Datos inválidos",
			"message": strings.Join(validationErrors, ", "),
			"details": validationErrors,
		})
		return
	}

	if err := ctrl.ContactSvc.Create(msg, c.ClientIP()); err != nil {
		logrus.WithError(err).Error("contact message create failed")
		body := gin.H{
			"success": false,
			"error":   "Error del servidor",
			"message": "Hubo un problema al enviar tu mensaje. Por favor intenta nuevamente.",
		}
		if utils.IsDevelopment() {
			body["details"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"id": msg.ID, "estado": msg.Status},
		"message": fmt.Sprintf(
			"¡Gracias por contactarnos, %s! Hemos recibido tu mensaje y te responderemos pronto a %s.",
			msg.Name, msg.Email,
		),
	})
}

// ListContacts handles GET /api/contact?limite=&pagina=&estado=.
func (ctrl *ContactController) ListContacts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limite", "10"))
	page, _ := strconv.Atoi(c.DefaultQuery("pagina", "1"))
	estado := c.Query("estado")

	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}

	messages, err := ctrl.ContactSvc.List(limit, page, estado)
	if err != nil {
		logrus.WithError(err).Error("contact listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al consultar mensajes de contacto"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    messages,
		"meta": gin.H{
			"total":  len(messages),
			"pagina": page,
			"limite": limit,
		},
	})
}

// UpdateContact handles PUT /api/contact with {id, estado?, notas_admin?}.
func (ctrl *ContactController) UpdateContact(c *gin.Context) {
	var payload contactStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "ID de mensaje requerido"})
		return
	}

	msg, err := ctrl.ContactSvc.UpdateStatus(payload.ID, payload.Status, payload.AdminNotes)
	if err != nil {
		ctrl.respondError(c, err, "Error al actualizar", "No se pudo actualizar el mensaje")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    msg,
		"message": "Mensaje actualizado exitosamente",
	})
}

// ArchiveContact handles DELETE /api/contact?id=. Archival, not removal.
func (ctrl *ContactController) ArchiveContact(c *gin.Context) {
	idParam := c.Query("id")
	if idParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "ID de mensaje requerido"})
		return
	}
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "ID de mensaje inválido"})
		return
	}

	msg, err := ctrl.ContactSvc.Archive(uint(id))
	if err != nil {
		ctrl.respondError(c, err, "Error al archivar", "No se pudo archivar el mensaje")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    msg,
		"message": "Mensaje archivado exitosamente",
	})
}

func (ctrl *ContactController) respondError(c *gin.Context, err error, label, fallback string) {
	var validationErr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrContactNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Mensaje no encontrado"})
	case errors.As(err, &validationErr):
		utils.JSONErrorWithMessage(c, http.StatusBadRequest, "Estado inválido", validationErr.Message)
	default:
		logrus.WithError(err).Error("contact request failed")
		utils.JSONErrorWithMessage(c, http.StatusInternalServerError, label, fallback)
	}
}
