package notifier

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"farewatch/internal/domain/entity"
	"farewatch/internal/domain/repository"
	"farewatch/pkg/logger"
	"farewatch/templates"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailNotifier sends price drop alert emails through the Gmail API
type GmailNotifier struct {
	gmailService *gmail.Service
	fromAddress  string
	logger       logger.Logger
}

// NewGmailNotifier creates a new Gmail notifier
func NewGmailNotifier(ctx context.Context, tokenSource oauth2.TokenSource, fromAddress string, logger logger.Logger) (repository.Notifier, error) {
	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}

	return &GmailNotifier{
		gmailService: service,
		fromAddress:  fromAddress,
		logger:       logger,
	}, nil
}

// SendPriceDropAlert renders and sends one alert email
func (n *GmailNotifier) SendPriceDropAlert(ctx context.Context, alert *entity.PriceAlert) error {
	subject, body := templates.RenderPriceDrop(alert)

	raw := buildMessage(n.fromAddress, alert.UserEmail, subject, body)
	message := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	_, err := n.gmailService.Users.Messages.Send("me", message).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	n.logger.Info("Alert email sent",
		"to", alert.UserEmail,
		"flightID", alert.FlightPublicID,
		"newPrice", alert.NewPrice)

	return nil
}

// buildMessage assembles an RFC 2822 HTML mail
func buildMessage(from, to, subject, htmlBody string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", from))
	b.WriteString(fmt.Sprintf("To: %s\r\n", to))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return b.String()
}
