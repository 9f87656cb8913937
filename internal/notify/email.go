package notify

import (
	"fmt"
	"time"

	"github.com/aquaeye/internal/models"
	"gopkg.in/gomail.v2"
)

// EmailNotifier sends alert mail through one SMTP account.
type EmailNotifier struct {
	dialer *gomail.Dialer
	from   string
}

// NewEmailNotifier builds a notifier and verifies the SMTP connection once
// so bad credentials disable the channel at startup.
func NewEmailNotifier(host string, port int, from, password string) (*EmailNotifier, error) {
	dialer := gomail.NewDialer(host, port, from, password)

	conn, err := dialer.Dial()
	if err != nil {
		return nil, fmt.Errorf("SMTP connection check failed: %w", err)
	}
	conn.Close()

	return &EmailNotifier{dialer: dialer, from: from}, nil
}

func (e *EmailNotifier) Notify(to string, pond *models.Pond, alert *models.Alert) error {
	m := gomail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Alert: %s - %s", alert.Severity, pond.Name))

	body := fmt.Sprintf(`Pond: %s
Severity: %s
Type: %s
Message: %s
Time: %s

This is an automated alert from your AquaEye monitoring system.
Please check your dashboard for details.`,
		pond.Name, alert.Severity, alert.Type, alert.Message,
		time.Now().Format(time.RFC3339))

	m.SetBody("text/plain", body)

	return e.dialer.DialAndSend(m)
}
