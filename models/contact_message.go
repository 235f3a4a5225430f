package models

import "time"

// Contact message status values. Archival replaces deletion.
const (
	ContactNew      = "nuevo"
	ContactRead     = "leido"
	ContactReplied  = "respondido"
	ContactArchived = "archivado"
)

// ValidContactStatuses in the order they are reported to clients.
var ValidContactStatuses = []string{ContactNew, ContactRead, ContactReplied, ContactArchived}

type ContactMessage struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `gorm:"column:fecha_creacion" json:"fecha_creacion"`
	UpdatedAt time.Time `json:"-"`

	Name    string  `gorm:"column:nombre;size:150" json:"nombre"`
	Email   string  `gorm:"column:email;size:150" json:"email"`
	Phone   *string `gorm:"column:telefono;size:50" json:"telefono,omitempty"`
	Subject string  `gorm:"column:asunto;size:255" json:"asunto"`
	Message string  `gorm:"column:mensaje;type:text" json:"mensaje"`

	Status   string `gorm:"column:estado;size:32;default:nuevo;index" json:"estado"`
	OriginIP string `gorm:"column:ip_origen;size:64" json:"ip_origen,omitempty"`

	AdminNotes string     `gorm:"column:notas_admin;type:text" json:"notas_admin,omitempty"`
	RepliedAt  *time.Time `gorm:"column:fecha_respuesta" json:"fecha_respuesta,omitempty"`
	ArchivedAt *time.Time `gorm:"column:fecha_archivado" json:"fecha_archivado,omitempty"`
}

func (ContactMessage) TableName() string { return "contactos" }
