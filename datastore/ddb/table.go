/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/ddbstreams/errors"
	"github.com/suparena/ddbstreams/registry"
)

// TableAPI is the part of the DynamoDB client used to manage tables.
type TableAPI interface {
	CreateTable(ctx context.Context, params *sdk.CreateTableInput, optFns ...func(*sdk.Options)) (*sdk.CreateTableOutput, error)
	DescribeTable(ctx context.Context, params *sdk.DescribeTableInput, optFns ...func(*sdk.Options)) (*sdk.DescribeTableOutput, error)
	DeleteTable(ctx context.Context, params *sdk.DeleteTableInput, optFns ...func(*sdk.Options)) (*sdk.DeleteTableOutput, error)
}

// TableOptions configures CreateStreamTable.
type TableOptions struct {
	// StreamViewType selects which images the stream records carry.
	StreamViewType types.StreamViewType
	ReadCapacity   int64
	WriteCapacity  int64
	// WaitTimeout bounds how long to wait for the table to become active (default 2m).
	WaitTimeout time.Duration
}

const defaultWaitTimeout = 2 * time.Minute

// CreateStreamTable creates the table registered for T with a change stream enabled, waits
// until it is active and returns its description. An existing table is reused as is.
func CreateStreamTable[T any](ctx context.Context, api TableAPI, name string, opts TableOptions) (*types.TableDescription, error) {
	schema, ok := registry.GetTable[T]()
	if !ok {
		var zero T
		return nil, errors.NewValidationError("", fmt.Sprintf("no table schema registered for %T", zero))
	}
	if name == "" {
		name = schema.Name
	}
	if opts.StreamViewType == "" {
		return nil, errors.NewValidationError("StreamViewType", "is required")
	}

	input := &sdk.CreateTableInput{
		TableName: aws.String(name),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(schema.HashKey), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(schema.HashKey), AttributeType: schema.HashKeyType},
		},
		ProvisionedThroughput: &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(opts.ReadCapacity),
			WriteCapacityUnits: aws.Int64(opts.WriteCapacity),
		},
		StreamSpecification: &types.StreamSpecification{
			StreamEnabled:  aws.Bool(true),
			StreamViewType: opts.StreamViewType,
		},
	}

	logger.Infof("issuing CreateTable request for %s", name)
	if _, err := api.CreateTable(ctx, input); err != nil {
		var inUse *types.ResourceInUseException
		if !stderrors.As(err, &inUse) {
			return nil, fmt.Errorf("CreateTable failed for %s: %w", name, err)
		}
		logger.Infof("table %s already exists", name)
	}

	waiter := sdk.NewTableExistsWaiter(api, func(o *sdk.TableExistsWaiterOptions) {
		o.MinDelay = time.Second
		o.MaxDelay = 5 * time.Second
	})
	if err := waiter.Wait(ctx, &sdk.DescribeTableInput{TableName: aws.String(name)}, waitTimeout(opts.WaitTimeout)); err != nil {
		return nil, fmt.Errorf("table %s did not become active: %w", name, err)
	}

	return DescribeTable(ctx, api, name)
}

// DescribeTable returns the description of an existing table.
func DescribeTable(ctx context.Context, api TableAPI, name string) (*types.TableDescription, error) {
	out, err := api.DescribeTable(ctx, &sdk.DescribeTableInput{TableName: aws.String(name)})
	if err != nil {
		var nf *types.ResourceNotFoundException
		if stderrors.As(err, &nf) {
			return nil, errors.NewNotFoundError("table", name)
		}
		return nil, fmt.Errorf("DescribeTable failed for %s: %w", name, err)
	}
	return out.Table, nil
}

// LatestStreamArn returns the ARN of the table's current stream.
func LatestStreamArn(desc *types.TableDescription) (string, error) {
	if desc == nil {
		return "", errors.NewValidationError("table", "no table description")
	}
	if desc.LatestStreamArn == nil || *desc.LatestStreamArn == "" {
		return "", errors.NewConfigurationError("table "+aws.ToString(desc.TableName), "stream is not enabled")
	}
	return *desc.LatestStreamArn, nil
}

// DeleteTable drops the table and waits until it is gone. A missing table is not an error.
func DeleteTable(ctx context.Context, api TableAPI, name string, timeout time.Duration) error {
	_, err := api.DeleteTable(ctx, &sdk.DeleteTableInput{TableName: aws.String(name)})
	if err != nil {
		var nf *types.ResourceNotFoundException
		if stderrors.As(err, &nf) {
			return nil
		}
		return fmt.Errorf("DeleteTable failed for %s: %w", name, err)
	}

	waiter := sdk.NewTableNotExistsWaiter(api, func(o *sdk.TableNotExistsWaiterOptions) {
		o.MinDelay = time.Second
		o.MaxDelay = 5 * time.Second
	})
	if err := waiter.Wait(ctx, &sdk.DescribeTableInput{TableName: aws.String(name)}, waitTimeout(timeout)); err != nil {
		return fmt.Errorf("table %s was not deleted: %w", name, err)
	}
	logger.Infof("table %s deleted", name)
	return nil
}

func waitTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultWaitTimeout
	}
	return d
}
