package mail

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joy095/marketplace/logger"
	gomail "gopkg.in/gomail.v2"
)

// SendBookingEmail sends a plain booking notification to a customer. Callers
// treat a failure as a reportable cleanup problem, not a request failure.
func SendBookingEmail(toEmail, subject, body string) error {
	if toEmail == "" {
		return fmt.Errorf("no recipient email address")
	}

	host := os.Getenv("SMTP_HOST")
	portStr := os.Getenv("SMTP_PORT")
	if host == "" || portStr == "" {
		return fmt.Errorf("smtp not configured")
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid SMTP_PORT %q: %w", portStr, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("FROM_EMAIL"))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(host, port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD"))
	if err := d.DialAndSend(m); err != nil {
		logger.ErrorLogger.Errorf("Failed to send email to %s: %v", toEmail, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.InfoLogger.Infof("Booking email sent to %s (%s)", toEmail, subject)
	return nil
}
