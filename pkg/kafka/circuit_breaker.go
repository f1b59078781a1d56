package kafka

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/cloudevents"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/logging"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/metrics"
)

// CircuitBreakerProducer wraps Producer with circuit breaker protection
type CircuitBreakerProducer struct {
	producer *Producer
	breaker  *gobreaker.CircuitBreaker
	metrics  *metrics.Metrics
	logger   *logging.Logger
}

// NewCircuitBreakerProducer creates a circuit breaker protected Kafka producer
func NewCircuitBreakerProducer(producer *Producer, m *metrics.Metrics, logger *logging.Logger) *CircuitBreakerProducer {
	p := &CircuitBreakerProducer{
		producer: producer,
		metrics:  m,
		logger:   logger,
	}

	settings := gobreaker.Settings{
		Name:        "kafka-producer",
		MaxRequests: 5,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn("Kafka circuit breaker state change",
					"name", name,
					"from", from.String(),
					"to", to.String(),
				)
			}
			if m != nil {
				m.SetCircuitBreakerState(name, int(to))
				if to == gobreaker.StateOpen {
					m.RecordCircuitBreakerTrip(name)
				}
			}
		},
	}

	p.breaker = gobreaker.NewCircuitBreaker(settings)
	return p
}

// PublishEvent publishes a CloudEvent with circuit breaker protection
func (p *CircuitBreakerProducer) PublishEvent(ctx context.Context, topic string, event *cloudevents.CloudEvent) error {
	start := time.Now()
	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, p.producer.PublishEvent(ctx, topic, event)
	})
	p.record(ctx, topic, event.Type, err == nil, time.Since(start))
	return err
}

// PublishBatch publishes multiple events with circuit breaker protection
func (p *CircuitBreakerProducer) PublishBatch(ctx context.Context, topic string, events []*cloudevents.CloudEvent) error {
	start := time.Now()
	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, p.producer.PublishBatch(ctx, topic, events)
	})
	for _, event := range events {
		p.record(ctx, topic, event.Type, err == nil, time.Since(start))
	}
	return err
}

// PublishEventAsync publishes a CloudEvent asynchronously with circuit breaker protection
func (p *CircuitBreakerProducer) PublishEventAsync(ctx context.Context, topic string, event *cloudevents.CloudEvent, callback func(error)) {
	if p.breaker.State() == gobreaker.StateOpen {
		if callback != nil {
			callback(gobreaker.ErrOpenState)
		}
		return
	}

	go func() {
		err := p.PublishEvent(ctx, topic, event)
		if callback != nil {
			callback(err)
		}
	}()
}

// State returns the current circuit breaker state
func (p *CircuitBreakerProducer) State() gobreaker.State {
	return p.breaker.State()
}

// Close closes the underlying producer
func (p *CircuitBreakerProducer) Close() error {
	return p.producer.Close()
}

// Underlying returns the wrapped Producer
func (p *CircuitBreakerProducer) Underlying() *Producer {
	return p.producer
}

func (p *CircuitBreakerProducer) record(ctx context.Context, topic, eventType string, success bool, duration time.Duration) {
	if p.metrics != nil {
		p.metrics.RecordKafkaPublish(topic, eventType, success, duration)
	}
	if p.logger != nil {
		p.logger.KafkaPublish(ctx, topic, eventType, success, duration)
	}
}

// NewProductionProducer creates a fully configured Kafka producer with
// instrumentation and circuit breaker protection
func NewProductionProducer(config *Config, m *metrics.Metrics, logger *logging.Logger) *CircuitBreakerProducer {
	return NewCircuitBreakerProducer(NewProducer(config), m, logger)
}
