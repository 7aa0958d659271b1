//go:build integration

package containers

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Consent-Management-Platform/consent-management-api/internal/platform/dynamo"
)

const (
	dynamoDBLocalImage = "amazon/dynamodb-local:2.5.4"
	dynamoDBLocalPort  = "8000/tcp"
	dynamoDBRegion     = "us-west-2"
)

// DynamoDBContainer wraps a DynamoDB Local instance.
type DynamoDBContainer struct {
	Container testcontainers.Container
	Endpoint  string
	Client    *dynamodb.Client
}

// NewDynamoDBContainer starts DynamoDB Local with an in-memory database.
func NewDynamoDBContainer(t *testing.T) *DynamoDBContainer {
	t.Helper()

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        dynamoDBLocalImage,
			ExposedPorts: []string{dynamoDBLocalPort},
			Cmd:          []string{"-jar", "DynamoDBLocal.jar", "-inMemory", "-sharedDb"},
			WaitingFor:   wait.ForListeningPort(dynamoDBLocalPort).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start dynamodb-local container: %v", err)
	}

	endpoint, err := container.PortEndpoint(ctx, dynamoDBLocalPort, "http")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get dynamodb-local endpoint: %v", err)
	}

	client, err := dynamo.NewClient(ctx, dynamo.Options{Region: dynamoDBRegion, Endpoint: endpoint})
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to build dynamodb client: %v", err)
	}

	// Shared across suites through the Manager; Ryuk removes the container
	// when the test process exits.
	return &DynamoDBContainer{
		Container: container,
		Endpoint:  endpoint,
		Client:    client,
	}
}

// CreateTable creates a uniquely named copy of the given table definition so
// suites sharing the container never see each other's items. It returns the
// table name.
func (c *DynamoDBContainer) CreateTable(t *testing.T, def *dynamodb.CreateTableInput) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), dynamo.TableWaitTimeout)
	defer cancel()

	input := *def
	name := fmt.Sprintf("%s_%s", aws.ToString(def.TableName), strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	input.TableName = aws.String(name)

	if err := dynamo.EnsureTable(ctx, c.Client, &input); err != nil {
		t.Fatalf("failed to create table %s: %v", name, err)
	}
	t.Cleanup(func() {
		_, _ = c.Client.DeleteTable(context.Background(), &dynamodb.DeleteTableInput{TableName: aws.String(name)})
	})
	return name
}
