package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aquaeye/internal/models"
	"github.com/slack-go/slack"
)

const slackTimeout = 10 * time.Second

// SlackNotifier posts alert attachments to one Slack channel.
type SlackNotifier struct {
	client  *slack.Client
	channel string
}

// NewSlackNotifier builds a notifier and validates the token with an auth
// probe so a bad credential disables the channel at startup, not mid-tick.
func NewSlackNotifier(token, channel string) (*SlackNotifier, error) {
	client := slack.New(token)

	ctx, cancel := context.WithTimeout(context.Background(), slackTimeout)
	defer cancel()
	if _, err := client.AuthTestContext(ctx); err != nil {
		return nil, fmt.Errorf("slack auth test failed: %w", err)
	}

	return &SlackNotifier{client: client, channel: channel}, nil
}

func (s *SlackNotifier) Notify(pond *models.Pond, alert *models.Alert) error {
	fields := []slack.AttachmentField{
		{Title: "Pond", Value: pond.Name, Short: true},
		{Title: "Severity", Value: string(alert.Severity), Short: true},
	}
	if alert.Parameter != nil {
		fields = append(fields, slack.AttachmentField{
			Title: "Parameter", Value: alert.Parameter.DisplayName(), Short: true,
		})
	}
	if alert.Value != nil {
		fields = append(fields, slack.AttachmentField{
			Title: "Current Value", Value: fmt.Sprintf("%.2f", *alert.Value), Short: true,
		})
	}
	if alert.Threshold != nil {
		fields = append(fields, slack.AttachmentField{
			Title: "Threshold", Value: fmt.Sprintf("%.2f", *alert.Threshold), Short: true,
		})
	}

	attachment := slack.Attachment{
		Color:  severityColor(alert.Severity),
		Title:  fmt.Sprintf("AquaEye Alert: %s", pond.Name),
		Text:   alert.Message,
		Fields: fields,
		Footer: "AquaEye Water Quality Monitor",
		Ts:     json.Number(strconv.FormatInt(time.Now().Unix(), 10)),
	}

	ctx, cancel := context.WithTimeout(context.Background(), slackTimeout)
	defer cancel()

	_, _, err := s.client.PostMessageContext(
		ctx,
		s.channel,
		slack.MsgOptionAttachments(attachment),
	)
	return err
}

func severityColor(severity models.AlertSeverity) string {
	switch severity {
	case models.SeverityCritical:
		return "#dc3545"
	case models.SeverityHigh:
		return "#fd7e14"
	case models.SeverityMedium:
		return "#ffc107"
	case models.SeverityLow:
		return "#28a745"
	default:
		return "#6c757d"
	}
}
