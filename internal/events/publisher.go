package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"storefront-service/internal/models"
)

// Subjects for storefront events.
const (
	SubjectCatalogLoaded = "storefront.catalog.loaded"
	SubjectCartUpdated   = "storefront.cart.updated"
)

// Publisher emits storefront events to NATS. It is optional: the
// service runs without it when NATS_URL is unset, and a nil Publisher
// is safe to call.
type Publisher struct {
	conn   *nats.Conn
	logger *logrus.Entry
}

// NewPublisher connects to NATS at natsURL.
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	conn, err := nats.Connect(natsURL,
		nats.Name("storefront-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Publisher{
		conn:   conn,
		logger: logger.WithField("component", "storefront-events"),
	}, nil
}

// Close drains the NATS connection.
func (p *Publisher) Close() {
	if p != nil && p.conn != nil {
		p.conn.Close()
	}
}

type catalogLoadedEvent struct {
	Source    string    `json:"source"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

type cartUpdatedEvent struct {
	SessionID  string    `json:"sessionId"`
	ItemCount  int       `json:"itemCount"`
	TotalPrice float64   `json:"totalPrice"`
	Timestamp  time.Time `json:"timestamp"`
}

// PublishCatalogLoaded records which source supplied the catalog and
// how many products it holds.
func (p *Publisher) PublishCatalogLoaded(sourceName string, count int) {
	p.publish(SubjectCatalogLoaded, catalogLoadedEvent{
		Source:    sourceName,
		Count:     count,
		Timestamp: time.Now(),
	})
}

// RenderCart publishes a cart.updated event after every cart mutation.
// Together with RenderResults it lets the publisher sit on the
// session's render listener seam.
func (p *Publisher) RenderCart(sessionID string, view models.CartView) {
	p.publish(SubjectCartUpdated, cartUpdatedEvent{
		SessionID:  sessionID,
		ItemCount:  view.ItemCount,
		TotalPrice: view.TotalPrice,
		Timestamp:  time.Now(),
	})
}

// RenderResults is a no-op: pipeline runs are request-scoped and too
// chatty to put on the bus.
func (p *Publisher) RenderResults(string, models.ResultsView) {}

func (p *Publisher) publish(subject string, payload interface{}) {
	if p == nil || p.conn == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.WithError(err).WithField("subject", subject).Warn("Failed to marshal event")
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.WithError(err).WithField("subject", subject).Warn("Failed to publish event")
	}
}
