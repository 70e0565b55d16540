package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicore/hospital-api/pkg/messaging"
	"github.com/medicore/hospital-api/pkg/metrics"
)

// Notification is the payload pushed to a user's channel. The web client
// subscribes to its own channel and reconnects on a fixed 3 second delay
// after any disconnect; the server side is plain fire-and-forget publish.
type Notification struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type Service struct {
	broker  messaging.Broker
	logger  *zerolog.Logger
	metrics *metrics.Metrics
}

func NewService(broker messaging.Broker, logger *zerolog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		broker:  broker,
		logger:  logger,
		metrics: m,
	}
}

func channelFor(userID uuid.UUID) string {
	return fmt.Sprintf("notifications:%s", userID)
}

// Notify publishes to the user's channel. Errors are logged and swallowed:
// a failed push must never fail the request that triggered it.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, typ, message string, data interface{}) {
	if s.broker == nil {
		return
	}

	n := Notification{
		Type:      typ,
		Message:   message,
		Data:      data,
		CreatedAt: time.Now(),
	}

	if err := s.broker.Publish(ctx, channelFor(userID), n); err != nil {
		if s.metrics != nil {
			s.metrics.NotificationsFailed.Inc()
		}
		s.logger.Warn().
			Err(err).
			Str("user_id", userID.String()).
			Str("type", typ).
			Msg("failed to publish notification")
		return
	}

	if s.metrics != nil {
		s.metrics.NotificationsSent.Inc()
	}
}

// ErrBrokerUnavailable is returned by Subscribe when no broker is configured.
var ErrBrokerUnavailable = errors.New("notification broker is not configured")

// Subscribe opens the user's channel stream. The channel closes when ctx is
// cancelled.
func (s *Service) Subscribe(ctx context.Context, userID uuid.UUID) (<-chan []byte, error) {
	if s.broker == nil {
		return nil, ErrBrokerUnavailable
	}
	return s.broker.Subscribe(ctx, channelFor(userID))
}
