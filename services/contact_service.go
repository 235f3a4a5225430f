// services/contact_service.go
package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"restaurante-backend/models"

	"gorm.io/gorm"
)

var ErrContactNotFound = errors.New("mensaje no encontrado")

var (
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneSeparatorsRe = regexp.MustCompile(`[\s\-()]`)
)

// ContactInput is the raw POST /contact payload before validation.
type ContactInput struct {
	Name    string `json:"nombre"`
	Email   string `json:"email"`
	Phone   string `json:"telefono"`
	Subject string `json:"asunto"`
	Message string `json:"mensaje"`
}

// ValidateContactInput checks all fields and returns every failure, not just
// the first, so the client can show the full list. On success it returns the
// normalized record: trimmed strings, lowercased email, empty phone as NULL.
func ValidateContactInput(in ContactInput) (*models.ContactMessage, []string) {
	var errs []string

	name := strings.TrimSpace(in.Name)
	if utf8.RuneCountInString(name) < 2 {
		errs = append(errs, "El nombre debe tener al menos 2 caracteres")
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !emailPattern.MatchString(email) {
		errs = append(errs, "Por favor ingresa un email válido")
	}

	phone := strings.TrimSpace(in.Phone)
	if phone != "" {
		digits := phoneSeparatorsRe.ReplaceAllString(phone, "")
		if len(digits) < 10 {
			errs = append(errs, "El teléfono debe tener al menos 10 dígitos")
		}
	}

	subject := strings.TrimSpace(in.Subject)
	if utf8.RuneCountInString(subject) < 3 {
		errs = append(errs, "El asunto debe tener al menos 3 caracteres")
	}

	message := strings.TrimSpace(in.Message)
	if utf8.RuneCountInString(message) < 10 {
		errs = append(errs, "El mensaje debe tener al menos 10 caracteres")
	}

	if len(errs) > 0 {
		return nil, errs
	}

	msg := &models.ContactMessage{
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
		Status:  models.ContactNew,
	}
	if phone != "" {
		msg.Phone = &phone
	}
	return msg, nil
}

type ContactService struct {
	DB *gorm.DB
}

func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{DB: db}
}

// Create persists a validated message with estado "nuevo" and the caller IP.
func (s *ContactService) Create(msg *models.ContactMessage, originIP string) error {
	msg.Status = models.ContactNew
	msg.OriginIP = originIP
	return s.DB.Create(msg).Error
}

// List returns one page of messages, newest first, optionally filtered by
// estado.
func (s *ContactService) List(limit, page int, estado string) ([]models.ContactMessage, error) {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}

	query := s.DB.Model(&models.ContactMessage{}).
		Order("fecha_creacion DESC").
		Limit(limit).
		Offset((page - 1) * limit)
	if estado != "" {
		query = query.Where("estado = ?", estado)
	}

	var messages []models.ContactMessage
	if err := query.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func isValidContactStatus(estado string) bool {
	for _, s := range models.ValidContactStatuses {
		if s == estado {
			return true
		}
	}
	return false
}

// UpdateStatus transitions a message. Moving to "respondido" stamps
// fecha_respuesta automatically.
func (s *ContactService) UpdateStatus(id uint, estado, adminNotes string) (*models.ContactMessage, error) {
	if estado != "" && !isValidContactStatus(estado) {
		return nil, &ValidationError{Message: fmt.Sprintf(
			"El estado debe ser uno de: %s", strings.Join(models.ValidContactStatuses, ", "))}
	}

	var msg models.ContactMessage
	if err := s.DB.First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}

	if estado != "" {
		msg.Status = estado
		if estado == models.ContactReplied {
			now := time.Now().UTC()
			msg.RepliedAt = &now
		}
	}
	if notes := strings.TrimSpace(adminNotes); notes != "" {
		msg.AdminNotes = notes
	}

	if err := s.DB.Save(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// Archive is the soft delete: estado "archivado" plus fecha_archivado. The
// row is never removed.
func (s *ContactService) Archive(id uint) (*models.ContactMessage, error) {
	var msg models.ContactMessage
	if err := s.DB.First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	msg.Status = models.ContactArchived
	msg.ArchivedAt = &now
	if err := s.DB.Save(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}
