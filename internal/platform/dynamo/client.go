// Package dynamo builds DynamoDB clients and table lifecycle helpers.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Static credentials accepted by DynamoDB Local.
const (
	localAccessKey = "local"
	localSecretKey = "local"
)

// TableWaitTimeout bounds how long EnsureTable waits for a new table.
const TableWaitTimeout = 2 * time.Minute

var loadDefaultAWSConfig = config.LoadDefaultConfig

// Options selects the region and, for DynamoDB Local, an endpoint override.
type Options struct {
	Region   string
	Endpoint string
}

// NewClient builds a DynamoDB client from the default AWS credential chain.
// With an Endpoint set it uses static credentials and points the client at
// that endpoint.
func NewClient(ctx context.Context, opts Options) (*dynamodb.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.Endpoint != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(localAccessKey, localSecretKey, ""),
		))
	}
	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	}), nil
}

// TableAPI is the subset of the DynamoDB client used for table management.
type TableAPI interface {
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// TableReadyCheck returns a readiness check that passes while the table is
// ACTIVE or UPDATING.
func TableReadyCheck(client TableAPI, tableName string) func(context.Context) error {
	return func(ctx context.Context) error {
		out, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(tableName)})
		if err != nil {
			return fmt.Errorf("describe table %s: %w", tableName, err)
		}
		if out.Table == nil {
			return fmt.Errorf("table %s not described", tableName)
		}
		switch out.Table.TableStatus {
		case types.TableStatusActive, types.TableStatusUpdating:
			return nil
		default:
			return fmt.Errorf("table %s is %s", tableName, out.Table.TableStatus)
		}
	}
}

// EnsureTable creates the table when it does not exist and waits until it
// is ready. It is meant for DynamoDB Local and tests; production tables are
// provisioned out of band.
func EnsureTable(ctx context.Context, client TableAPI, input *dynamodb.CreateTableInput) error {
	name := aws.ToString(input.TableName)
	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: input.TableName})
	if err == nil {
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("describe table %s: %w", name, err)
	}

	if _, err := client.CreateTable(ctx, input); err != nil {
		var inUse *types.ResourceInUseException
		if !errors.As(err, &inUse) {
			return fmt.Errorf("create table %s: %w", name, err)
		}
	}

	waiter := dynamodb.NewTableExistsWaiter(client, func(o *dynamodb.TableExistsWaiterOptions) {
		o.MinDelay = 100 * time.Millisecond
		o.MaxDelay = 2 * time.Second
	})
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: input.TableName}, TableWaitTimeout); err != nil {
		return fmt.Errorf("wait for table %s: %w", name, err)
	}
	return nil
}
