package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"github.com/Midnighter/knowledge-chat/application/ports"
)

const eventSource = "knowledge-chat"

// putEventsBatchLimit is the EventBridge PutEvents request cap.
const putEventsBatchLimit = 10

// Publisher forwards committed domain events to an EventBridge bus for
// downstream consumers (audit trails, projections). Committed events are
// facts; failures here are reported but never rolled back.
type Publisher struct {
	client  *eventbridge.Client
	busName string
	logger  *zap.Logger
}

// NewPublisher creates an EventBridge publisher
func NewPublisher(client *eventbridge.Client, busName string, logger *zap.Logger) *Publisher {
	return &Publisher{client: client, busName: busName, logger: logger}
}

// eventDetail is the published JSON payload of one committed event.
type eventDetail struct {
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	Version       int             `json:"version"`
	Timestamp     time.Time       `json:"timestamp"`
	Data          json.RawMessage `json:"data"`
}

// Publish sends the events in PutEvents-sized batches
func (p *Publisher) Publish(ctx context.Context, stored []ports.StoredEvent) error {
	entries := make([]types.PutEventsRequestEntry, 0, len(stored))
	for _, event := range stored {
		detail, err := json.Marshal(eventDetail{
			AggregateID:   event.AggregateID.String(),
			AggregateType: event.AggregateType,
			Version:       event.Version,
			Timestamp:     event.Timestamp,
			Data:          event.Data,
		})
		if err != nil {
			return fmt.Errorf("marshal event detail: %w", err)
		}
		entries = append(entries, types.PutEventsRequestEntry{
			EventBusName: aws.String(p.busName),
			Source:       aws.String(eventSource),
			DetailType:   aws.String(event.EventType),
			Detail:       aws.String(string(detail)),
		})
	}

	for start := 0; start < len(entries); start += putEventsBatchLimit {
		end := start + putEventsBatchLimit
		if end > len(entries) {
			end = len(entries)
		}
		result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
			Entries: entries[start:end],
		})
		if err != nil {
			return fmt.Errorf("put events: %w", err)
		}
		if result.FailedEntryCount > 0 {
			p.logger.Warn("some events failed to publish",
				zap.Int32("failed", result.FailedEntryCount),
			)
			return fmt.Errorf("%d events failed to publish", result.FailedEntryCount)
		}
	}
	return nil
}
