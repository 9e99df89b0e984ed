/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddbstreams

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/juju/loggo"

	"github.com/suparena/ddbstreams/changestream"
	"github.com/suparena/ddbstreams/config"
	"github.com/suparena/ddbstreams/datastore"
	"github.com/suparena/ddbstreams/datastore/ddb"
	"github.com/suparena/ddbstreams/loader"
	"github.com/suparena/ddbstreams/model"
	"github.com/suparena/ddbstreams/query"
	"github.com/suparena/ddbstreams/storagemodels"
)

var logger = loggo.GetLogger("ddbstreams.session")

// Session holds everything one change stream scenario needs: the clients, the reviews
// table with its stream, and the query engine. Create one per scenario and Close it.
type Session struct {
	db        ddb.Client
	streams   changestream.StreamsAPI
	cfg       config.Config
	store     *ddb.DynamodbDataStore[model.CustomerReview]
	table     *types.TableDescription
	streamArn string
	runner    *query.Runner
}

// NewSession creates the reviews table with the configured stream view type and opens the
// query engine. A nil cfg uses config.Default().
func NewSession(ctx context.Context, db ddb.Client, streams changestream.StreamsAPI, cfg *config.Config) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	table, err := ddb.CreateStreamTable[model.CustomerReview](ctx, db, cfg.Table.Name, ddb.TableOptions{
		StreamViewType: types.StreamViewType(cfg.Table.StreamViewType),
		ReadCapacity:   cfg.Table.ReadCapacity,
		WriteCapacity:  cfg.Table.WriteCapacity,
	})
	if err != nil {
		return nil, err
	}
	streamArn, err := ddb.LatestStreamArn(table)
	if err != nil {
		return nil, err
	}

	store, err := ddb.NewDynamodbDataStore[model.CustomerReview](db, aws.ToString(table.TableName))
	if err != nil {
		return nil, err
	}
	runner, err := query.NewRunner()
	if err != nil {
		return nil, err
	}

	logger.Infof("session ready: table %s, stream %s (%s)", store.TableName(), streamArn, cfg.Table.StreamViewType)
	return &Session{
		db:        db,
		streams:   streams,
		cfg:       *cfg,
		store:     store,
		table:     table,
		streamArn: streamArn,
		runner:    runner,
	}, nil
}

// TableName returns the name of the session's table.
func (s *Session) TableName() string {
	return s.store.TableName()
}

// StreamArn returns the ARN of the table's stream.
func (s *Session) StreamArn() string {
	return s.streamArn
}

// Table returns the table description captured when the session started.
func (s *Session) Table() *types.TableDescription {
	return s.table
}

// Store returns the write path of the reviews table.
func (s *Session) Store() datastore.DataStore[model.CustomerReview] {
	return s.store
}

// LoadSampleData loads each file in order and sums the stats. Loading stops at the first
// file that fails to parse.
func (s *Session) LoadSampleData(ctx context.Context, paths ...string) (loader.Stats, error) {
	var total loader.Stats
	for _, path := range paths {
		stats, err := loader.Load(ctx, s.store, path)
		total.Parsed += stats.Parsed
		total.Written += stats.Written
		total.Failed += stats.Failed
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (s *Session) pollOptions() []storagemodels.PollOption {
	var opts []storagemodels.PollOption
	if s.cfg.Poll.RecordLimit > 0 {
		opts = append(opts, storagemodels.WithRecordLimit(s.cfg.Poll.RecordLimit))
	}
	if s.cfg.Poll.ShardPageSize > 0 {
		opts = append(opts, storagemodels.WithShardPageSize(s.cfg.Poll.ShardPageSize))
	}
	return opts
}

// ChangeImages discovers the stream's shards and returns a fresh iterator over the kind image
// of every change record, starting at the trim horizon.
func (s *Session) ChangeImages(ctx context.Context, kind changestream.ImageKind) (*changestream.ImageIterator[model.CustomerReview], error) {
	opts := s.pollOptions()
	cursors, err := changestream.DiscoverCursors(ctx, s.streams, s.streamArn, opts...)
	if err != nil {
		return nil, err
	}
	return changestream.NewImageIterator[model.CustomerReview](s.streams, cursors, kind, opts...), nil
}

// CollectImages drains a fresh iterator into a query collection, one element per change
// record, null where the record has no such image.
func (s *Session) CollectImages(ctx context.Context, kind changestream.ImageKind) (query.Collection, error) {
	start := time.Now()
	it, err := s.ChangeImages(ctx, kind)
	if err != nil {
		return query.Collection{}, err
	}
	reviews, err := it.Collect(ctx)
	if err != nil {
		return query.Collection{}, err
	}

	p := it.Progress()
	logger.Infof("collected %d %s values in %d polls (%s)", len(reviews), kind, p.Polls, time.Since(start).Round(time.Millisecond))
	return model.Collection(reviews), nil
}

// ReviewsWithRating scans the table for reviews with the given star rating. Only the
// customer id and rating are fetched.
func (s *Session) ReviewsWithRating(ctx context.Context, rating int) ([]model.CustomerReview, error) {
	reviews, err := s.store.Scan(ctx, &storagemodels.ScanParams{
		FilterExpression:     aws.String("star_rating = :stars"),
		ProjectionExpression: aws.String(strings.Join([]string{model.HashKey, "star_rating"}, ", ")),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":stars": &types.AttributeValueMemberN{Value: strconv.Itoa(rating)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("scan for %d star reviews: %w", rating, err)
	}
	return reviews, nil
}

// Query compiles and evaluates text against b.
func (s *Session) Query(ctx context.Context, text string, b query.Bindings) (query.Collection, error) {
	return s.runner.Run(ctx, text, b)
}

// Close releases the query engine and drops the table unless the configuration keeps it.
func (s *Session) Close(ctx context.Context) error {
	if err := s.runner.Close(); err != nil {
		logger.Warningf("failed to close query engine: %v", err)
	}
	if s.cfg.Table.Keep {
		logger.Infof("keeping table %s", s.TableName())
		return nil
	}
	return ddb.DeleteTable(ctx, s.db, s.TableName(), 0)
}
