/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package changestream_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/dynamodbstreams"
	streamtypes "github.com/aws/aws-sdk-go-v2/service/dynamodbstreams/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/ddbstreams/changestream"
	"github.com/suparena/ddbstreams/datastore/ddb"
	"github.com/suparena/ddbstreams/datastore/mock"
	"github.com/suparena/ddbstreams/errors"
	"github.com/suparena/ddbstreams/model"
	"github.com/suparena/ddbstreams/storagemodels"
)

type fixture struct {
	backend *mock.Backend
	store   *ddb.DynamodbDataStore[model.CustomerReview]
	arn     string
}

func newFixture(t *testing.T, view types.StreamViewType, opts ...mock.BackendOption) *fixture {
	t.Helper()
	ctx := context.Background()
	backend := mock.NewBackend(opts...)

	desc, err := ddb.CreateStreamTable[model.CustomerReview](ctx, backend, "", ddb.TableOptions{
		StreamViewType: view,
		ReadCapacity:   10,
		WriteCapacity:  5,
		WaitTimeout:    5 * time.Second,
	})
	require.NoError(t, err)
	arn, err := ddb.LatestStreamArn(desc)
	require.NoError(t, err)

	store, err := ddb.NewDynamodbDataStore[model.CustomerReview](backend, "")
	require.NoError(t, err)
	return &fixture{backend: backend, store: store, arn: arn}
}

func (f *fixture) put(t *testing.T, id string, rating int) {
	t.Helper()
	require.NoError(t, f.store.Put(context.Background(), model.CustomerReview{
		CustomerID:    id,
		ReviewID:      "R-" + id,
		ProductTitle:  "Kettle",
		StarRating:    rating,
		TotalVotes:    1,
		ReviewHeading: fmt.Sprintf("%d stars", rating),
	}))
}

func (f *fixture) iterator(t *testing.T, kind changestream.ImageKind, opts ...storagemodels.PollOption) *changestream.ImageIterator[model.CustomerReview] {
	t.Helper()
	cursors, err := changestream.DiscoverCursors(context.Background(), f.backend, f.arn, opts...)
	require.NoError(t, err)
	return changestream.NewImageIterator[model.CustomerReview](f.backend, cursors, kind, opts...)
}

func TestIteratorYieldsOneImagePerWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, types.StreamViewTypeNewImage)
	for i := 0; i < 7; i++ {
		f.put(t, fmt.Sprintf("C%02d", i), i%5+1)
	}

	items, err := f.iterator(t, changestream.NewImage).Collect(ctx)
	require.NoError(t, err)
	require.Len(t, items, 7)

	seen := map[string]bool{}
	for i, item := range items {
		require.NotNil(t, item)
		assert.Equal(t, fmt.Sprintf("C%02d", i), item.CustomerID, "single shard preserves write order")
		assert.False(t, seen[item.CustomerID], "duplicate %s", item.CustomerID)
		seen[item.CustomerID] = true
	}
}

func TestIteratorPairsOldAndNewImages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, types.StreamViewTypeNewAndOldImages)
	f.put(t, "A", 3)
	f.put(t, "B", 4)
	f.put(t, "A", 5)

	newImages, err := f.iterator(t, changestream.NewImage).Collect(ctx)
	require.NoError(t, err)
	oldImages, err := f.iterator(t, changestream.OldImage).Collect(ctx)
	require.NoError(t, err)
	require.Len(t, newImages, 3)
	require.Len(t, oldImages, 3)

	assert.Nil(t, oldImages[0], "an insert has no old image")
	assert.Nil(t, oldImages[1])
	require.NotNil(t, oldImages[2])
	assert.Equal(t, "A", oldImages[2].CustomerID)
	assert.Equal(t, 3, oldImages[2].StarRating)
	assert.Equal(t, "A", newImages[2].CustomerID)
	assert.Equal(t, 5, newImages[2].StarRating)
}

func TestIteratorExhausted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, types.StreamViewTypeNewImage)
	f.put(t, "A", 1)

	it := f.iterator(t, changestream.NewImage)
	item, err := it.Next(ctx)
	require.NoError(t, err)
	require.NotNil(t, item)

	ok, err := it.HasNext(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	for i := 0; i < 2; i++ {
		item, err = it.Next(ctx)
		assert.Nil(t, item)
		assert.True(t, errors.IsExhausted(err), "expected exhausted error, got %v", err)
	}
}

func TestIteratorOldImageOnNewImageStream(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, types.StreamViewTypeNewImage)
	f.put(t, "A", 3)
	f.put(t, "A", 5)
	f.put(t, "B", 2)

	items, err := f.iterator(t, changestream.OldImage).Collect(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, item := range items {
		assert.Nil(t, item)
	}
}

func TestIteratorKeysImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, types.StreamViewTypeKeysOnly)
	f.put(t, "A", 3)

	items, err := f.iterator(t, changestream.KeysImage).Collect(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.CustomerReview{CustomerID: "A"}, *items[0])
}

func TestIteratorMultipleShards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, types.StreamViewTypeNewImage, mock.WithShards(3), mock.WithDescribePageSize(1))
	for i := 0; i < 20; i++ {
		f.put(t, fmt.Sprintf("C%02d", i), 4)
	}

	var reports []storagemodels.PollProgress
	it := f.iterator(t, changestream.NewImage,
		storagemodels.WithRecordLimit(2),
		storagemodels.WithProgressHandler(func(p storagemodels.PollProgress) {
			reports = append(reports, p)
		}),
	)

	items, err := it.Collect(ctx)
	require.NoError(t, err)
	require.Len(t, items, 20)

	seen := map[string]bool{}
	for _, item := range items {
		seen[item.CustomerID] = true
	}
	assert.Len(t, seen, 20)

	p := it.Progress()
	assert.Equal(t, int64(20), p.RecordsPolled)
	assert.Equal(t, int64(20), p.RecordsYielded)
	assert.Equal(t, 3, p.OpenCursors, "open shards keep their cursors")
	assert.GreaterOrEqual(t, p.Polls, 10)
	assert.Len(t, reports, p.Polls)
	assert.Equal(t, f.backend.Calls("GetRecords"), p.Polls)
}

func TestIteratorClosedShards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, types.StreamViewTypeNewImage, mock.WithShards(2))
	for i := 0; i < 6; i++ {
		f.put(t, fmt.Sprintf("C%d", i), 2)
	}
	require.NoError(t, f.backend.CloseShards(f.arn))

	it := f.iterator(t, changestream.NewImage, storagemodels.WithRecordLimit(4))
	items, err := it.Collect(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 6)

	p := it.Progress()
	assert.Equal(t, 0, p.OpenCursors)
	assert.Equal(t, 2, p.ClosedShards)
}

func TestIteratorResultMetadata(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, types.StreamViewTypeNewAndOldImages)
	f.put(t, "A", 1)
	f.put(t, "A", 2)
	require.NoError(t, f.store.Delete(ctx, "A"))

	it := f.iterator(t, changestream.NewImage)
	var events []string
	for i := int64(0); ; i++ {
		ok, err := it.HasNext(ctx)
		require.NoError(t, err)
		if !ok {
			break
		}
		r, err := it.NextResult(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, r.Meta.Index)
		assert.NotEmpty(t, r.Meta.ShardID)
		assert.NotEmpty(t, r.Meta.SequenceNumber)
		assert.False(t, time.Time(r.Meta.CreatedAt).IsZero())
		events = append(events, r.Meta.EventName)
		if r.Meta.EventName == "REMOVE" {
			assert.Nil(t, r.Item)
			assert.Nil(t, r.Raw)
		} else {
			assert.NotNil(t, r.Raw["star_rating"])
		}
	}
	assert.Equal(t, []string{"INSERT", "MODIFY", "REMOVE"}, events)
}

// scriptedStreams replays GetRecords pages keyed by shard iterator token.
type scriptedStreams struct {
	pages map[string]*dynamodbstreams.GetRecordsOutput
	err   error
	calls []string
}

func (s *scriptedStreams) DescribeStream(context.Context, *dynamodbstreams.DescribeStreamInput, ...func(*dynamodbstreams.Options)) (*dynamodbstreams.DescribeStreamOutput, error) {
	return nil, stderrors.New("not scripted")
}

func (s *scriptedStreams) GetShardIterator(context.Context, *dynamodbstreams.GetShardIteratorInput, ...func(*dynamodbstreams.Options)) (*dynamodbstreams.GetShardIteratorOutput, error) {
	return nil, stderrors.New("not scripted")
}

func (s *scriptedStreams) GetRecords(_ context.Context, in *dynamodbstreams.GetRecordsInput, _ ...func(*dynamodbstreams.Options)) (*dynamodbstreams.GetRecordsOutput, error) {
	token := aws.ToString(in.ShardIterator)
	s.calls = append(s.calls, token)
	if s.err != nil {
		return nil, s.err
	}
	out, ok := s.pages[token]
	if !ok {
		return nil, fmt.Errorf("unexpected token %q", token)
	}
	return out, nil
}

func record(id string, rating int) streamtypes.Record {
	return streamtypes.Record{
		EventID:   aws.String("ev-" + id),
		EventName: streamtypes.OperationTypeInsert,
		Dynamodb: &streamtypes.StreamRecord{
			SequenceNumber: aws.String("1"),
			Keys: map[string]streamtypes.AttributeValue{
				"customer_id": &streamtypes.AttributeValueMemberS{Value: id},
			},
			NewImage: map[string]streamtypes.AttributeValue{
				"customer_id": &streamtypes.AttributeValueMemberS{Value: id},
				"star_rating": &streamtypes.AttributeValueMemberN{Value: fmt.Sprint(rating)},
			},
		},
	}
}

func TestIteratorYieldsPageFromLastClosingShard(t *testing.T) {
	ctx := context.Background()
	api := &scriptedStreams{pages: map[string]*dynamodbstreams.GetRecordsOutput{
		"a1": {Records: []streamtypes.Record{record("A", 1), record("B", 2)}},
	}}
	cursors := changestream.NewCursorSet(&changestream.Cursor{ShardID: "a", Token: "a1"})

	items, err := changestream.NewImageIterator[model.CustomerReview](api, cursors, changestream.NewImage).Collect(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "B", items[1].CustomerID)
	assert.Equal(t, []string{"a1"}, api.calls)
}

func TestIteratorRoundRobinAndSweep(t *testing.T) {
	ctx := context.Background()
	api := &scriptedStreams{pages: map[string]*dynamodbstreams.GetRecordsOutput{
		"a1": {NextShardIterator: aws.String("a2")},
		"b1": {Records: []streamtypes.Record{record("B", 2)}, NextShardIterator: aws.String("b2")},
		"a2": {Records: []streamtypes.Record{record("A", 1)}, NextShardIterator: aws.String("a3")},
		"b2": {NextShardIterator: aws.String("b3")},
		"a3": {NextShardIterator: aws.String("a4")},
	}}
	cursors := changestream.NewCursorSet(
		&changestream.Cursor{ShardID: "a", Token: "a1"},
		&changestream.Cursor{ShardID: "b", Token: "b1"},
	)

	items, err := changestream.NewImageIterator[model.CustomerReview](api, cursors, changestream.NewImage).Collect(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "B", items[0].CustomerID)
	assert.Equal(t, "A", items[1].CustomerID)
	// a1 was empty, but draining B's page starts a new sweep, so a2 is still polled.
	// The scan stops once b2 and a3 both come back empty.
	assert.Equal(t, []string{"a1", "b1", "a2", "b2", "a3"}, api.calls)
	assert.Equal(t, 2, cursors.Len())
}

func TestIteratorEmptyCursorSet(t *testing.T) {
	api := &scriptedStreams{}
	it := changestream.NewImageIterator[model.CustomerReview](api, changestream.NewCursorSet(), changestream.NewImage)

	ok, err := it.HasNext(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, api.calls)
}

func TestIteratorPollError(t *testing.T) {
	boom := &streamtypes.ExpiredIteratorException{Message: aws.String("expired")}
	api := &scriptedStreams{err: boom}
	cursors := changestream.NewCursorSet(&changestream.Cursor{ShardID: "a", Token: "a1"})
	it := changestream.NewImageIterator[model.CustomerReview](api, cursors, changestream.NewImage)

	_, err := it.Next(context.Background())
	var expired *streamtypes.ExpiredIteratorException
	require.True(t, stderrors.As(err, &expired), "expected the poll error, got %v", err)
	assert.Equal(t, 1, cursors.Len(), "a failed poll keeps its cursor")
}

func TestIteratorDecodeError(t *testing.T) {
	bad := record("A", 1)
	bad.Dynamodb.NewImage = map[string]streamtypes.AttributeValue{
		"star_rating": &streamtypes.AttributeValueMemberN{Value: "1"},
	}
	api := &scriptedStreams{pages: map[string]*dynamodbstreams.GetRecordsOutput{
		"a1": {Records: []streamtypes.Record{bad}},
	}}
	cursors := changestream.NewCursorSet(&changestream.Cursor{ShardID: "a", Token: "a1"})

	_, err := changestream.NewImageIterator[model.CustomerReview](api, cursors, changestream.NewImage).Next(context.Background())
	assert.True(t, errors.IsValidationError(err), "expected validation error, got %v", err)
}

func TestIteratorCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	api := &scriptedStreams{}
	cursors := changestream.NewCursorSet(&changestream.Cursor{ShardID: "a", Token: "a1"})

	_, err := changestream.NewImageIterator[model.CustomerReview](api, cursors, changestream.NewImage).HasNext(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, api.calls)
}
