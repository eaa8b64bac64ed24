package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// Neo4jGraph exposes a Neo4j database through the opaque knowledge-graph
// handle the response agent consumes.
type Neo4jGraph struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *zap.Logger
}

// NewNeo4jGraph connects to Neo4j and verifies connectivity
func NewNeo4jGraph(
	ctx context.Context,
	uri, username, password, database string,
	logger *zap.Logger,
) (*Neo4jGraph, error) {
	driver, err := neo4j.NewDriverWithContext(
		uri,
		neo4j.BasicAuth(username, password, ""),
		func(cfg *neo4j.Config) {
			cfg.SocketConnectTimeout = 10 * time.Second
		},
	)
	if err != nil {
		return nil, fmt.Errorf("init neo4j driver: %w", err)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}

	return &Neo4jGraph{driver: driver, database: database, logger: logger}, nil
}

// Schema returns a textual summary of node labels, relationship types and
// property keys, enough for a model to write Cypher against.
func (g *Neo4jGraph) Schema(ctx context.Context) (string, error) {
	labels, err := g.collectStrings(ctx, "CALL db.labels() YIELD label RETURN label", "label")
	if err != nil {
		return "", err
	}
	relationships, err := g.collectStrings(
		ctx,
		"CALL db.relationshipTypes() YIELD relationshipType RETURN relationshipType",
		"relationshipType",
	)
	if err != nil {
		return "", err
	}
	properties, err := g.collectStrings(
		ctx,
		"CALL db.propertyKeys() YIELD propertyKey RETURN propertyKey",
		"propertyKey",
	)
	if err != nil {
		return "", err
	}

	var schema strings.Builder
	schema.WriteString("Node labels: ")
	schema.WriteString(strings.Join(labels, ", "))
	schema.WriteString("\nRelationship types: ")
	schema.WriteString(strings.Join(relationships, ", "))
	schema.WriteString("\nProperty keys: ")
	schema.WriteString(strings.Join(properties, ", "))
	return schema.String(), nil
}

// Query runs a read query and returns the result rows as maps
func (g *Neo4jGraph) Query(ctx context.Context, query string) ([]map[string]interface{}, error) {
	result, err := neo4j.ExecuteQuery(
		ctx,
		g.driver,
		query,
		nil,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(g.database),
		neo4j.ExecuteQueryWithReadersRouting(),
	)
	if err != nil {
		return nil, fmt.Errorf("run graph query: %w", err)
	}

	rows := make([]map[string]interface{}, 0, len(result.Records))
	for _, record := range result.Records {
		rows = append(rows, record.AsMap())
	}
	return rows, nil
}

// Close releases the underlying driver
func (g *Neo4jGraph) Close(ctx context.Context) error {
	return g.driver.Close(ctx)
}

func (g *Neo4jGraph) collectStrings(ctx context.Context, query, key string) ([]string, error) {
	rows, err := g.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		if value, ok := row[key].(string); ok {
			values = append(values, value)
		}
	}
	return values, nil
}
