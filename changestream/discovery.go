/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package changestream

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodbstreams"
	streamtypes "github.com/aws/aws-sdk-go-v2/service/dynamodbstreams/types"
	"github.com/juju/loggo"

	ddbconfig "github.com/suparena/ddbstreams/config"
	"github.com/suparena/ddbstreams/datastore/ddb"
	"github.com/suparena/ddbstreams/errors"
	"github.com/suparena/ddbstreams/storagemodels"
)

var logger = loggo.GetLogger("ddbstreams.changestream")

// StreamsAPI is the part of the DynamoDB Streams client used to read a stream.
// *dynamodbstreams.Client satisfies it.
type StreamsAPI interface {
	DescribeStream(ctx context.Context, params *dynamodbstreams.DescribeStreamInput, optFns ...func(*dynamodbstreams.Options)) (*dynamodbstreams.DescribeStreamOutput, error)
	GetShardIterator(ctx context.Context, params *dynamodbstreams.GetShardIteratorInput, optFns ...func(*dynamodbstreams.Options)) (*dynamodbstreams.GetShardIteratorOutput, error)
	GetRecords(ctx context.Context, params *dynamodbstreams.GetRecordsInput, optFns ...func(*dynamodbstreams.Options)) (*dynamodbstreams.GetRecordsOutput, error)
}

// NewStreamsClient initializes a DynamoDB Streams client from the same settings as the table client.
func NewStreamsClient(ctx context.Context, c ddbconfig.AWSConfig) (*dynamodbstreams.Client, error) {
	cfg, err := ddb.LoadAWSConfig(ctx, c)
	if err != nil {
		return nil, err
	}

	client := dynamodbstreams.NewFromConfig(cfg, func(o *dynamodbstreams.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
	})

	logger.Infof("DynamoDB Streams client initialized for region %s (endpoint %q)", c.Region, c.Endpoint)
	return client, nil
}

// DiscoverCursors lists every shard of the stream and opens a TRIM_HORIZON cursor on each,
// in listing order. A stream without shards is a configuration error.
func DiscoverCursors(ctx context.Context, api StreamsAPI, streamArn string, opts ...storagemodels.PollOption) (*CursorSet, error) {
	options := storagemodels.ApplyPollOptions(opts...)

	var shards []streamtypes.Shard
	var start *string
	for {
		input := &dynamodbstreams.DescribeStreamInput{
			StreamArn:             aws.String(streamArn),
			ExclusiveStartShardId: start,
		}
		if options.ShardPageSize > 0 {
			input.Limit = aws.Int32(options.ShardPageSize)
		}

		out, err := api.DescribeStream(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("DescribeStream failed for %s: %w", streamArn, err)
		}
		if out.StreamDescription == nil {
			break
		}
		shards = append(shards, out.StreamDescription.Shards...)

		start = out.StreamDescription.LastEvaluatedShardId
		if start == nil || *start == "" {
			break
		}
	}

	if len(shards) == 0 {
		return nil, errors.NewConfigurationError("stream "+streamArn, "no stream shards")
	}

	set := NewCursorSet()
	for _, sh := range shards {
		shardID := aws.ToString(sh.ShardId)
		out, err := api.GetShardIterator(ctx, &dynamodbstreams.GetShardIteratorInput{
			StreamArn:         aws.String(streamArn),
			ShardId:           aws.String(shardID),
			ShardIteratorType: streamtypes.ShardIteratorTypeTrimHorizon,
		})
		if err != nil {
			return nil, fmt.Errorf("GetShardIterator failed for shard %s: %w", shardID, err)
		}
		if out.ShardIterator == nil {
			logger.Debugf("shard %s returned no iterator, skipping", shardID)
			continue
		}
		set.Push(&Cursor{ShardID: shardID, Token: *out.ShardIterator})
	}
	if set.Len() == 0 {
		return nil, errors.NewConfigurationError("stream "+streamArn, "no stream shards")
	}

	logger.Infof("%d starting cursors for stream %s", set.Len(), streamArn)
	return set, nil
}
