package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// SendReservationConfirmationEmail sends the booking confirmation. When SMTP
// is not configured it logs the email instead, so local setups keep working.
func SendReservationConfirmationEmail(recipientEmail, name, fecha, hora string, personas int, referenceCode string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USERNAME")
	smtpPass := os.Getenv("SMTP_PASSWORD")
	fromName := os.Getenv("SMTP_FROM_NAME")

	if smtpUser == "" || smtpPass == "" || smtpHost == "" || smtpPort == "" {
		log.Printf("[MOCK EMAIL] confirmation to:%s ref:%s fecha:%s hora:%s personas:%d",
			recipientEmail, referenceCode, fecha, hora, personas)
		return nil
	}

	safe := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", " ")
	}
	name = safe(name)
	if name == "" {
		name = "cliente"
	}

	restaurant := EnvOrDefault("RESTAURANT_NAME", "nuestro restaurante")

	from := fmt.Sprintf("%s <%s>", fromName, smtpUser)
	to := []string{recipientEmail}
	auth := smtp.PlainAuth("", smtpUser, smtpPass, smtpHost)
	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)

	subject := fmt.Sprintf("Confirmación de reserva %s", referenceCode)
	boundary := "----=_RESERVATION_EMAIL_BOUNDARY"

	plainBody := fmt.Sprintf(
		"Hola %s,\n\n"+
			"Tu reserva en %s está confirmada.\n"+
			"Código: %s\nFecha: %s\nHora: %s\nPersonas: %d\n\n"+
			"Si necesitas modificarla o cancelarla, responde a este correo.\n",
		name, restaurant, referenceCode, fecha, hora, personas,
	)

	htmlBody := fmt.Sprintf(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Reserva confirmada</title>
<style>
body { background:#f5f7fb; font-family:Arial, Helvetica, sans-serif; color:#222; }
.container { max-width:640px; margin:20px auto; }
.card { background:#fff; border:1px solid #e6eef6; padding:24px; border-radius:8px; }
.ref { font-size:20px; font-weight:bold; letter-spacing:1px; }
</style>
</head>
<body>
<div class="container">
  <div class="card">
    <h2>¡Reserva confirmada!</h2>
    <p>Hola %s,</p>
    <p>Tu reserva en <strong>%s</strong> está confirmada.</p>
    <p class="ref">%s</p>
    <p>Fecha: <strong>%s</strong><br>Hora: <strong>%s</strong><br>Personas: <strong>%d</strong></p>
    <p>Si necesitas modificarla o cancelarla, responde a este correo.</p>
  </div>
</div>
</body>
</html>`,
		name, restaurant, referenceCode, fecha, hora, personas,
	)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", recipientEmail))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary))

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(plainBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(htmlBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	if err := smtp.SendMail(addr, auth, smtpUser, to, []byte(sb.String())); err != nil {
		log.Printf("Failed to send confirmation email to %s: %v", recipientEmail, err)
		return err
	}

	log.Printf("Confirmation email sent to %s", recipientEmail)
	return nil
}
