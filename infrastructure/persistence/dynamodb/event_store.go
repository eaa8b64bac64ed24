package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Midnighter/knowledge-chat/application/ports"
	kcerrors "github.com/Midnighter/knowledge-chat/pkg/errors"
)

// EventStore persists event streams in a single DynamoDB table with
// PK=EVENTS#<aggregate_id> and SK=VERSION#<version>. Optimistic
// concurrency comes from a conditional write per event item: a version
// slot can only ever be written once.
type EventStore struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// eventRecord is the DynamoDB shape of one stored event.
type eventRecord struct {
	PK            string `dynamodbav:"PK"`
	SK            string `dynamodbav:"SK"`
	AggregateID   string `dynamodbav:"AggregateID"`
	AggregateType string `dynamodbav:"AggregateType"`
	EventType     string `dynamodbav:"EventType"`
	Version       int    `dynamodbav:"Version"`
	Timestamp     string `dynamodbav:"Timestamp"`
	EventData     string `dynamodbav:"EventData"`
}

// NewEventStore creates a DynamoDB-backed event store
func NewEventStore(client *dynamodb.Client, tableName string, logger *zap.Logger) *EventStore {
	return &EventStore{client: client, tableName: tableName, logger: logger}
}

func streamPartitionKey(aggregateID uuid.UUID) string {
	return fmt.Sprintf("EVENTS#%s", aggregateID)
}

func versionSortKey(version int) string {
	return fmt.Sprintf("VERSION#%010d", version)
}

// Append writes the events in one transaction. Each item carries an
// existence condition, so a concurrent writer that claimed any version
// slot first cancels the whole transaction.
func (s *EventStore) Append(ctx context.Context, stored []ports.StoredEvent) error {
	if len(stored) == 0 {
		return nil
	}

	items := make([]types.TransactWriteItem, 0, len(stored))
	for _, event := range stored {
		record := eventRecord{
			PK:            streamPartitionKey(event.AggregateID),
			SK:            versionSortKey(event.Version),
			AggregateID:   event.AggregateID.String(),
			AggregateType: event.AggregateType,
			EventType:     event.EventType,
			Version:       event.Version,
			Timestamp:     event.Timestamp.Format(time.RFC3339Nano),
			EventData:     string(event.Data),
		}
		item, err := attributevalue.MarshalMap(record)
		if err != nil {
			return fmt.Errorf("marshal event record: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(s.tableName),
				Item:                item,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			},
		})
	}

	_, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		if conflicted, event := isVersionConflict(err, stored); conflicted {
			return kcerrors.NewConcurrencyConflict(event.AggregateID.String(), event.Version)
		}
		return fmt.Errorf("append events: %w", err)
	}
	return nil
}

// Load returns the aggregate's events in version order, following
// pagination.
func (s *EventStore) Load(ctx context.Context, aggregateID uuid.UUID) ([]ports.StoredEvent, error) {
	keyCondition := expression.Key("PK").Equal(expression.Value(streamPartitionKey(aggregateID)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCondition).Build()
	if err != nil {
		return nil, fmt.Errorf("build query expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(true),
	}

	var loaded []ports.StoredEvent
	for {
		result, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("query events: %w", err)
		}
		for _, item := range result.Items {
			var record eventRecord
			if err := attributevalue.UnmarshalMap(item, &record); err != nil {
				return nil, fmt.Errorf("unmarshal event record: %w", err)
			}
			event, err := recordToStored(record)
			if err != nil {
				return nil, err
			}
			loaded = append(loaded, event)
		}
		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
	return loaded, nil
}

func recordToStored(record eventRecord) (ports.StoredEvent, error) {
	aggregateID, err := uuid.Parse(record.AggregateID)
	if err != nil {
		return ports.StoredEvent{}, fmt.Errorf("parse aggregate id: %w", err)
	}
	timestamp, err := time.Parse(time.RFC3339Nano, record.Timestamp)
	if err != nil {
		return ports.StoredEvent{}, fmt.Errorf("parse event timestamp: %w", err)
	}
	return ports.StoredEvent{
		AggregateID:   aggregateID,
		AggregateType: record.AggregateType,
		EventType:     record.EventType,
		Version:       record.Version,
		Timestamp:     timestamp,
		Data:          []byte(record.EventData),
	}, nil
}

// isVersionConflict reports whether the transaction was cancelled by a
// conditional check and identifies the first conflicting event.
func isVersionConflict(err error, stored []ports.StoredEvent) (bool, ports.StoredEvent) {
	var cancelled *types.TransactionCanceledException
	if !errors.As(err, &cancelled) {
		return false, ports.StoredEvent{}
	}
	for i, reason := range cancelled.CancellationReasons {
		if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" && i < len(stored) {
			return true, stored[i]
		}
	}
	return false, ports.StoredEvent{}
}
