// Package neogeosync keeps a Neo4j graph view and a web map view in step: graph nodes
// carrying a geographic identifier are shown as map features, and map viewport changes
// re-query the graph for the nodes inside the viewport.
package neogeosync

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.trai.ch/zerr"
)

//go:generate mockgen -source=db.go -destination=mocks/mock_db.go -package=mocks

// DBRunner defines the interface for a generic query executor.
// It abstracts the execution of a Cypher query, allowing for different implementations
// or mocking in tests.
type DBRunner interface {
	// Run executes a given Cypher query with parameters and returns a fully-buffered result.
	Run(ctx context.Context, query string, params map[string]interface{}) (*neo4j.EagerResult, error)
}

//---

// Neo4jExecutor is the DBRunner backed by the official Neo4j Go driver.
// It manages the driver instance and the target database name.
type Neo4jExecutor struct {
	Driver neo4j.DriverWithContext
	DBName string
}

// NewNeo4jExecutor creates and initializes a new Neo4jExecutor.
//
// Parameters:
//   - uri: The connection URI for the Neo4j instance (e.g., "neo4j://localhost:7687").
//   - username: The username for authentication.
//   - password: The password for authentication.
//   - dbName: The name of the database to connect to (e.g., "neo4j").
//
// Returns:
//
//	A pointer to the newly created Neo4jExecutor or an error if the driver creation fails.
func NewNeo4jExecutor(uri, username, password, dbName string) (*Neo4jExecutor, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "could not create Neo4j driver"), "uri", uri)
	}
	return &Neo4jExecutor{Driver: driver, DBName: dbName}, nil
}

// NewNeo4jExecutorFromConfig creates an executor from the neo4j config section.
func NewNeo4jExecutorFromConfig(cfg Neo4jConfig) (*Neo4jExecutor, error) {
	return NewNeo4jExecutor(cfg.URI, cfg.Username, cfg.Password, cfg.Database)
}

// Verify checks the connectivity to the Neo4j database.
func (e *Neo4jExecutor) Verify(ctx context.Context) error {
	if err := e.Driver.VerifyConnectivity(ctx); err != nil {
		return zerr.Wrap(err, "could not connect to Neo4j")
	}
	return nil
}

// Close releases the driver's connections.
func (e *Neo4jExecutor) Close(ctx context.Context) error {
	return e.Driver.Close(ctx)
}

// Run executes a Cypher query using ExecuteQuery, which handles session and
// transaction management automatically. It is suitable for both the read-only
// bounds queries and the bounding-box write-back.
//
// Parameters:
//   - ctx: The context for the query execution.
//   - query: The Cypher query string to execute.
//   - params: A map of parameters to be used in the query.
//
// Returns:
//
//	An EagerResult containing all buffered records from the query, or an error if
//	the execution fails.
func (e *Neo4jExecutor) Run(ctx context.Context, query string, params map[string]interface{}) (*neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(
		ctx,
		e.Driver,
		query,
		params,
		neo4j.EagerResultTransformer, // Buffers all results in memory before returning.
		neo4j.ExecuteQueryWithDatabase(e.DBName),
	)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "error executing neo4j query"), "database", e.DBName)
	}

	return result, nil
}
