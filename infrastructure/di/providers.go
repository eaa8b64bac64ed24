package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"github.com/Midnighter/knowledge-chat/application/ports"
	"github.com/Midnighter/knowledge-chat/application/services"
	domainservice "github.com/Midnighter/knowledge-chat/domain/service"
	"github.com/Midnighter/knowledge-chat/infrastructure/agent"
	"github.com/Midnighter/knowledge-chat/infrastructure/config"
	"github.com/Midnighter/knowledge-chat/infrastructure/graph"
	"github.com/Midnighter/knowledge-chat/infrastructure/llm"
	"github.com/Midnighter/knowledge-chat/infrastructure/messaging/eventbridge"
	"github.com/Midnighter/knowledge-chat/infrastructure/persistence"
	"github.com/Midnighter/knowledge-chat/infrastructure/persistence/dynamodb"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	EventStore  ports.EventStore
	EventBus    ports.EventBus
	Repository  ports.Repository
	Graph       *graph.Neo4jGraph
	Model       *llm.GeminiModel
	Registry    *domainservice.Registry
	Agent       domainservice.ResponseAgent
	ChatService *services.ChatService
}

// Close releases held connections
func (c *Container) Close(ctx context.Context) error {
	if c.Graph != nil {
		return c.Graph.Close(ctx)
	}
	return nil
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideEventStore creates the DynamoDB event store
func ProvideEventStore(
	client *awsdynamodb.Client,
	cfg *config.Config,
	logger *zap.Logger,
) ports.EventStore {
	return dynamodb.NewEventStore(client, cfg.EventsTable, logger)
}

// ProvideEventBus creates the committed-event publisher, or nil when no
// bus is configured
func ProvideEventBus(
	client *awseventbridge.Client,
	cfg *config.Config,
	logger *zap.Logger,
) ports.EventBus {
	if cfg.EventBusName == "" {
		return nil
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideRepository creates the event-sourced repository
func ProvideRepository(
	store ports.EventStore,
	bus ports.EventBus,
	logger *zap.Logger,
) ports.Repository {
	return persistence.NewEventSourcedRepository(store, bus, logger)
}

// ProvideKnowledgeGraph connects to the Neo4j knowledge graph
func ProvideKnowledgeGraph(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
) (*graph.Neo4jGraph, error) {
	return graph.NewNeo4jGraph(
		ctx,
		cfg.Neo4jURI,
		cfg.Neo4jUser,
		cfg.Neo4jPassword,
		cfg.Neo4jDatabase,
		logger,
	)
}

// ProvideChatModel creates the Gemini chat model
func ProvideChatModel(ctx context.Context, cfg *config.Config) (*llm.GeminiModel, error) {
	return llm.NewGeminiModel(ctx, cfg.GeminiAPIKey, cfg.GCPProject, cfg.GCPLocation, cfg.ModelName)
}

// ProvideRegistry creates the response agent registry
func ProvideRegistry() *domainservice.Registry {
	return agent.NewRegistry()
}

// ProvideResponseAgent resolves the configured response agent once at
// startup
func ProvideResponseAgent(
	registry *domainservice.Registry,
	cfg *config.Config,
	knowledgeGraph *graph.Neo4jGraph,
	model *llm.GeminiModel,
) (domainservice.ResponseAgent, error) {
	return registry.Resolve(cfg.ResponseAgent, knowledgeGraph, model)
}

// ProvideChatService creates the chat application service
func ProvideChatService(
	repository ports.Repository,
	responseAgent domainservice.ResponseAgent,
	logger *zap.Logger,
) *services.ChatService {
	return services.NewChatService(repository, responseAgent, logger)
}
