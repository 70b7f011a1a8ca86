package catalog

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Notification announces a newly created product. Price doubles as a numeric
// routing attribute so subscribers can filter on it.
type Notification struct {
	ID      string
	Subject string
	Payload []byte
	Price   decimal.Decimal
}

// NotificationPayload is the JSON body subscribers receive
type NotificationPayload struct {
	ProductID   string      `json:"productId"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Count       int64       `json:"count"`
}

// NewNotification builds the notification for a product and its stock
func NewNotification(p Product, s Stock) (Notification, error) {
	payload, err := json.Marshal(NotificationPayload{
		ProductID:   p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       json.Number(p.Price.String()),
		Count:       s.Count,
	})
	if err != nil {
		return Notification{}, err
	}

	return Notification{
		ID:      p.ID,
		Subject: notificationSubject(p.Title),
		Payload: payload,
		Price:   p.Price,
	}, nil
}

// SNS only accepts single-line printable ASCII subjects up to 100 characters
const (
	maxSubjectLength = 100
	defaultSubject   = "New product"
)

func notificationSubject(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 0x20 && r < 0x7f:
			b.WriteRune(r)
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteByte(' ')
		default:
			b.WriteByte('?')
		}
	}

	subject := strings.Join(strings.Fields(b.String()), " ")
	if len(subject) > maxSubjectLength {
		subject = strings.TrimSpace(subject[:maxSubjectLength])
	}
	if subject == "" {
		return defaultSubject
	}
	return subject
}
