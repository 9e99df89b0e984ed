/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/juju/loggo"

	ddbconfig "github.com/suparena/ddbstreams/config"
	"github.com/suparena/ddbstreams/errors"
	"github.com/suparena/ddbstreams/registry"
	"github.com/suparena/ddbstreams/storagemodels"
)

var logger = loggo.GetLogger("ddbstreams.ddb")

// ItemAPI is the part of the DynamoDB client used for item access.
type ItemAPI interface {
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
	Scan(ctx context.Context, params *sdk.ScanInput, optFns ...func(*sdk.Options)) (*sdk.ScanOutput, error)
}

// Client is everything this package needs from DynamoDB. *dynamodb.Client satisfies it.
type Client interface {
	ItemAPI
	TableAPI
}

// DynamodbDataStore implements datastore.DataStore[T] by using AWS DynamoDB as the underlying data store.
type DynamodbDataStore[T any] struct {
	client    ItemAPI
	tableName string
	schema    registry.TableSchema
}

// LoadAWSConfig resolves the shared AWS configuration. Static credentials are used when
// given; a custom endpoint without credentials gets dummy ones, which DynamoDB Local accepts.
func LoadAWSConfig(ctx context.Context, c ddbconfig.AWSConfig) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(c.Region),
	}

	accessKey, secretKey := c.AccessKeyID, c.SecretAccessKey
	if accessKey == "" && c.Endpoint != "" {
		accessKey, secretKey = "local", "local"
	}
	if accessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return cfg, nil
}

// NewDynamoDBClient initializes a DynamoDB client.
func NewDynamoDBClient(ctx context.Context, c ddbconfig.AWSConfig) (*sdk.Client, error) {
	cfg, err := LoadAWSConfig(ctx, c)
	if err != nil {
		return nil, err
	}

	client := sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
	})

	logger.Infof("DynamoDB client initialized for region %s (endpoint %q)", c.Region, c.Endpoint)
	return client, nil
}

// NewDynamodbDataStore constructs a new DynamodbDataStore for type T.
// T must have a table schema registered; an empty tableName selects the schema's default.
func NewDynamodbDataStore[T any](client ItemAPI, tableName string) (*DynamodbDataStore[T], error) {
	schema, ok := registry.GetTable[T]()
	if !ok {
		var zero T
		return nil, errors.NewValidationError("", fmt.Sprintf("no table schema registered for %T", zero))
	}
	if tableName == "" {
		tableName = schema.Name
	}

	return &DynamodbDataStore[T]{
		client:    client,
		tableName: tableName,
		schema:    schema,
	}, nil
}

// TableName returns the table the store reads and writes.
func (d *DynamodbDataStore[T]) TableName() string {
	return d.tableName
}

// GetOne retrieves a single item by its hash key.
func (d *DynamodbDataStore[T]) GetOne(ctx context.Context, key string) (*T, error) {
	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &d.tableName,
		Key:       d.key(key),
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		var zero T
		return nil, errors.NewNotFoundError(fmt.Sprintf("%T", zero), key)
	}

	result, err := registry.Decode[T](out.Item)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return result, nil
}

// Put stores the given entity. Each successful Put emits one change record on the table stream.
func (d *DynamodbDataStore[T]) Put(ctx context.Context, entity T) error {
	av, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	if !hasKeyValue(av[d.schema.HashKey]) {
		return errors.NewValidationError(d.schema.HashKey, "hash key is missing or empty")
	}

	_, err = d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: &d.tableName,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("PutItem failed: %w", err)
	}
	return nil
}

// Delete removes an item by its hash key.
func (d *DynamodbDataStore[T]) Delete(ctx context.Context, key string) error {
	_, err := d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: &d.tableName,
		Key:       d.key(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}
	return nil
}

// Scan reads the whole table, following pagination, and decodes every item.
func (d *DynamodbDataStore[T]) Scan(ctx context.Context, params *storagemodels.ScanParams) ([]T, error) {
	input := &sdk.ScanInput{
		TableName: &d.tableName,
	}
	if params != nil {
		input.FilterExpression = params.FilterExpression
		input.ProjectionExpression = params.ProjectionExpression
		input.ExpressionAttributeNames = params.ExpressionAttributeNames
		input.ExpressionAttributeValues = params.ExpressionAttributeValues
		input.Limit = params.Limit
	}

	var results []T
	paginator := sdk.NewScanPaginator(d.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		for _, item := range page.Items {
			v, err := registry.Decode[T](item)
			if err != nil {
				return nil, fmt.Errorf("failed to unmarshal scanned item: %w", err)
			}
			results = append(results, *v)
		}
	}
	return results, nil
}

func (d *DynamodbDataStore[T]) key(key string) map[string]types.AttributeValue {
	var av types.AttributeValue = &types.AttributeValueMemberS{Value: key}
	if d.schema.HashKeyType == types.ScalarAttributeTypeN {
		av = &types.AttributeValueMemberN{Value: key}
	}
	return map[string]types.AttributeValue{d.schema.HashKey: av}
}

func hasKeyValue(av types.AttributeValue) bool {
	switch tv := av.(type) {
	case *types.AttributeValueMemberS:
		return tv.Value != ""
	case *types.AttributeValueMemberN:
		return tv.Value != ""
	case *types.AttributeValueMemberB:
		return len(tv.Value) > 0
	}
	return false
}
