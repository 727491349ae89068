package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/entity"
	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/pricing"
)

// Mailer consumes order events and sends the confirmation and admin
// notification emails. Everything here is best-effort: a failed send is
// logged and dropped, the order itself already committed.
type Mailer struct {
	reader     *kafka.Reader
	mailAPIURL string
	mailAPIKey string
	from       string
	adminTo    string
}

func NewMailer(reader *kafka.Reader) *Mailer {
	from := os.Getenv("EMAIL_FROM")
	if from == "" {
		from = "orders@example.com"
	}
	adminTo := os.Getenv("ADMIN_EMAIL")
	if adminTo == "" {
		adminTo = "admin@example.com"
	}
	return &Mailer{
		reader:     reader,
		mailAPIURL: os.Getenv("MAIL_API_URL"),
		mailAPIKey: os.Getenv("MAIL_API_KEY"),
		from:       from,
		adminTo:    adminTo,
	}
}

// Start consumes order events until the context is cancelled.
func (m *Mailer) Start(ctx context.Context) {
	for {
		msg, err := m.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Msgf("Error reading message: %v", err)
			continue
		}

		m.processMessage(ctx, msg)
	}
}

func (m *Mailer) processMessage(ctx context.Context, msg kafka.Message) {
	var order entity.Order
	if err := json.Unmarshal(msg.Value, &order); err != nil {
		log.Error().Msgf("Error unmarshalling message: %v", err)
		return
	}

	// key -> "order.created.orderID"
	key := string(msg.Key)
	listKey := strings.Split(key, ".")
	if len(listKey) < 2 {
		log.Error().Msgf("Unknown event key: %s", key)
		return
	}

	switch listKey[1] {
	case "created":
		if err := m.sendEmail(ctx, order.UserEmail, fmt.Sprintf("Order %s received", order.OrderNumber), customerEmailHTML(&order)); err != nil {
			log.Error().Msgf("Error sending confirmation for order %s: %v", order.OrderNumber, err)
		}
		if err := m.sendEmail(ctx, m.adminTo, fmt.Sprintf("New order %s", order.OrderNumber), adminEmailHTML(&order)); err != nil {
			log.Error().Msgf("Error sending admin notification for order %s: %v", order.OrderNumber, err)
		}
	default:
		log.Error().Msgf("Unknown order event: %s", key)
	}
}

// sendEmail posts to an HTTP mail API. No configured endpoint means sends
// are skipped, which keeps local runs quiet.
func (m *Mailer) sendEmail(ctx context.Context, to, subject, html string) error {
	if m.mailAPIURL == "" {
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"from":    m.from,
		"to":      to,
		"subject": subject,
		"html":    html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.mailAPIURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.mailAPIKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail API returned status %d", resp.StatusCode)
	}
	return nil
}

func customerEmailHTML(order *entity.Order) string {
	return fmt.Sprintf(
		`<div><h2>Order %s received</h2><p>Hi %s,</p><p>Thank you for your order. We will contact you with shipping details.</p><ul><li>Size: %s</li><li>Qty: %d</li><li>Total: %s</li><li>Status: %s</li></ul></div>`,
		order.OrderNumber, order.CustomerName, order.SizeLabel, order.Quantity,
		pricing.FormatPaise(order.TotalPaise), order.PaymentStatus,
	)
}

func adminEmailHTML(order *entity.Order) string {
	address := order.AddressLine1
	if order.AddressLine2 != "" {
		address += ", " + order.AddressLine2
	}
	return fmt.Sprintf(
		`<div><h2>New order %s</h2><ul><li>Customer: %s (%s)</li><li>Phone: %s</li><li>Address: %s, %s, %s %s</li><li>Size %s, Qty %d</li><li>Total: %s</li></ul></div>`,
		order.OrderNumber, order.CustomerName, order.UserEmail, order.Phone,
		address, order.City, order.State, order.Pincode,
		order.SizeLabel, order.Quantity, pricing.FormatPaise(order.TotalPaise),
	)
}
