package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/000000-cmd/SaasBack/pkg/kafka"
	"github.com/000000-cmd/SaasBack/pkg/logger"
)

// Event types emitted on the audit topic
const (
	EventLogin          = "auth.login"
	EventLoginFailed    = "auth.login_failed"
	EventRefresh        = "auth.refresh"
	EventLogout         = "auth.logout"
	EventUserCreated    = "auth.user_created"
	EventPasswordChange = "auth.password_changed"
	EventRolesChanged   = "auth.roles_changed"
)

// DefaultTopic is the Kafka topic for authentication audit events
const DefaultTopic = "auth.events"

// Event is a single audit record
type Event struct {
	Type      string    `json:"type"`
	UserID    string    `json:"userId,omitempty"`
	Username  string    `json:"username,omitempty"`
	IP        string    `json:"ip,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher emits audit events. Implementations must never block the
// request path; failures are logged and dropped.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// KafkaPublisher publishes audit events to Kafka
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
	log      *logger.Logger
}

// NewKafkaPublisher creates a new KafkaPublisher
func NewKafkaPublisher(producer *kafka.Producer, topic string, log *logger.Logger) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaPublisher{producer: producer, topic: topic, log: log}
}

// Publish sends the event to the audit topic in the background
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		if err := p.producer.ProduceJSON(ctx, p.topic, event.UserID, event, nil); err != nil {
			p.log.Warn("Failed to publish audit event",
				zap.String("type", event.Type),
				zap.String("user_id", event.UserID),
				zap.Error(err),
			)
		}
	}()
}

// NopPublisher drops all events. Used when Kafka is not configured.
type NopPublisher struct{}

// Publish implements Publisher
func (NopPublisher) Publish(context.Context, Event) {}
