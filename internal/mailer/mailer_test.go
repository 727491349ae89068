package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harshith-Reddy-Revoori/oneproduct-store/internal/entity"
)

func TestProcessMessageSendsBothEmails(t *testing.T) {
	var mu sync.Mutex
	var sent []map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		mu.Lock()
		sent = append(sent, payload)
		mu.Unlock()
		w.WriteHeader(200)
	}))
	defer srv.Close()

	m := &Mailer{
		mailAPIURL: srv.URL,
		from:       "orders@example.com",
		adminTo:    "admin@example.com",
	}

	order := entity.Order{
		ID:            42,
		OrderNumber:   "ORD-2026-0001",
		UserEmail:     "buyer@example.com",
		CustomerName:  "A Buyer",
		SizeLabel:     "250G",
		Quantity:      2,
		TotalPaise:    90000,
		PaymentStatus: entity.PaymentStatusPending,
	}
	orderJSON, err := json.Marshal(order)
	require.NoError(t, err)

	m.processMessage(context.Background(), kafka.Message{
		Key:   []byte("order.created.42"),
		Value: orderJSON,
	})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, sent, 2)
	assert.Equal(t, "buyer@example.com", sent[0]["to"])
	assert.Contains(t, sent[0]["subject"], "ORD-2026-0001")
	assert.Contains(t, sent[0]["html"], "₹900.00")
	assert.Equal(t, "admin@example.com", sent[1]["to"])
}

func TestProcessMessageIgnoresUnknownEvents(t *testing.T) {
	m := &Mailer{}

	// no mail API configured and an unknown key; must not panic
	m.processMessage(context.Background(), kafka.Message{
		Key:   []byte("order.cancelled.42"),
		Value: []byte(`{}`),
	})
}

func TestSendEmailSkipsWithoutEndpoint(t *testing.T) {
	m := &Mailer{}
	assert.NoError(t, m.sendEmail(context.Background(), "x@example.com", "s", "<p>h</p>"))
}
