/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package changestream

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodbstreams"
	streamtypes "github.com/aws/aws-sdk-go-v2/service/dynamodbstreams/types"
	"github.com/go-openapi/strfmt"

	"github.com/suparena/ddbstreams/errors"
	"github.com/suparena/ddbstreams/registry"
	"github.com/suparena/ddbstreams/storagemodels"
)

type pendingRecord struct {
	record  streamtypes.Record
	shardID string
	poll    int
}

// ImageIterator is a forward-only, single-pass sequence of T rebuilt from one image kind of
// every change record in a stream. It polls a shard only when the caller needs the next
// element and its buffer is empty.
//
// Records are yielded in the order shards are polled round-robin, which is shard order and
// not a global chronological order. Shards created after discovery are not followed.
type ImageIterator[T any] struct {
	api     StreamsAPI
	kind    ImageKind
	cursors *CursorSet
	options storagemodels.PollOptions

	pending  []pendingRecord
	done     bool
	index    int64
	progress storagemodels.PollProgress
}

// NewImageIterator returns an iterator over the kind image of every record reachable from cursors.
// The iterator takes ownership of cursors.
func NewImageIterator[T any](api StreamsAPI, cursors *CursorSet, kind ImageKind, opts ...storagemodels.PollOption) *ImageIterator[T] {
	if cursors == nil {
		cursors = NewCursorSet()
	}
	return &ImageIterator[T]{
		api:     api,
		kind:    kind,
		cursors: cursors,
		options: storagemodels.ApplyPollOptions(opts...),
	}
}

// Kind returns the image kind the iterator yields.
func (it *ImageIterator[T]) Kind() ImageKind {
	return it.kind
}

// HasNext reports whether another element is available, polling shards as needed.
//
// With an empty buffer, shards are polled round-robin until one returns records. The
// sequence ends when no cursor is left, or when every remaining cursor has returned an
// empty page since the buffer last ran dry. Records already buffered are always yielded.
func (it *ImageIterator[T]) HasNext(ctx context.Context) (bool, error) {
	if len(it.pending) > 0 {
		return true, nil
	}
	if it.done {
		return false, nil
	}
	if it.progress.StartTime.IsZero() {
		it.progress.StartTime = time.Now()
	}

	it.cursors.ResetSweep()
	for len(it.pending) == 0 {
		if it.cursors.Len() == 0 || it.cursors.Swept() {
			it.done = true
			logger.Debugf("%s scan finished: %d records in %d polls, %d shards closed",
				it.kind, it.progress.RecordsPolled, it.progress.Polls, it.cursors.Closed())
			return false, nil
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if err := it.poll(ctx); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (it *ImageIterator[T]) poll(ctx context.Context) error {
	c, _ := it.cursors.Pop()

	input := &dynamodbstreams.GetRecordsInput{ShardIterator: aws.String(c.Token)}
	if it.options.RecordLimit > 0 {
		input.Limit = aws.Int32(it.options.RecordLimit)
	}

	out, err := it.api.GetRecords(ctx, input)
	if err != nil {
		// Put the cursor back untouched so the set still describes the stream.
		it.cursors.Push(c)
		return fmt.Errorf("GetRecords failed for shard %s: %w", c.ShardID, err)
	}

	it.progress.Polls++
	for _, r := range out.Records {
		it.pending = append(it.pending, pendingRecord{record: r, shardID: c.ShardID, poll: it.progress.Polls})
	}
	if len(out.Records) == 0 {
		it.progress.EmptyPolls++
	}
	it.progress.RecordsPolled += int64(len(out.Records))

	it.cursors.Requeue(c, out.NextShardIterator, len(out.Records))
	if c.State == CursorClosed {
		logger.Debugf("shard %s closed after %d polls", c.ShardID, c.Polls)
	}

	it.reportProgress()
	return nil
}

func (it *ImageIterator[T]) reportProgress() {
	it.progress.OpenCursors = it.cursors.Len()
	it.progress.ClosedShards = it.cursors.Closed()
	if elapsed := time.Since(it.progress.StartTime).Seconds(); elapsed > 0 {
		it.progress.CurrentRate = float64(it.progress.RecordsPolled) / elapsed
	}
	if it.options.ProgressHandler != nil {
		it.options.ProgressHandler(it.progress)
	}
}

// Next returns the next element. A record without the selected image yields a nil element.
// Calling Next after the sequence ended returns an error matching errors.ErrExhausted.
func (it *ImageIterator[T]) Next(ctx context.Context) (*T, error) {
	r, err := it.NextResult(ctx)
	if err != nil {
		return nil, err
	}
	return r.Item, nil
}

// NextResult is Next with the raw image and record metadata.
func (it *ImageIterator[T]) NextResult(ctx context.Context) (*storagemodels.ChangeResult[T], error) {
	ok, err := it.HasNext(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s iterator: %w", it.kind, errors.ErrExhausted)
	}

	p := it.pending[0]
	it.pending[0] = pendingRecord{}
	it.pending = it.pending[1:]

	result := &storagemodels.ChangeResult[T]{
		Meta: storagemodels.ChangeMeta{
			Index:     it.index,
			Poll:      p.poll,
			ShardID:   p.shardID,
			EventID:   aws.ToString(p.record.EventID),
			EventName: string(p.record.EventName),
		},
	}
	if rec := p.record.Dynamodb; rec != nil {
		result.Meta.SequenceNumber = aws.ToString(rec.SequenceNumber)
		if rec.ApproximateCreationDateTime != nil {
			result.Meta.CreatedAt = strfmt.DateTime(*rec.ApproximateCreationDateTime)
		}
	}
	it.index++
	it.progress.RecordsYielded++

	image := it.kind.Extract(p.record)
	if image == nil {
		return result, nil
	}

	raw, err := attributevalue.FromDynamoDBStreamsMap(image)
	if err != nil {
		return nil, errors.NewParseError(it.kind.String(), 0, "", err)
	}
	item, err := registry.Decode[T](raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s of record %s: %w", it.kind, result.Meta.EventID, err)
	}
	result.Raw = raw
	result.Item = item
	return result, nil
}

// Collect drains the iterator into a slice, one element per record, nil where the image is absent.
func (it *ImageIterator[T]) Collect(ctx context.Context) ([]*T, error) {
	var items []*T
	for {
		ok, err := it.HasNext(ctx)
		if err != nil {
			return items, err
		}
		if !ok {
			return items, nil
		}
		item, err := it.Next(ctx)
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
}

// Progress returns a snapshot of the scan counters.
func (it *ImageIterator[T]) Progress() storagemodels.PollProgress {
	p := it.progress
	p.OpenCursors = it.cursors.Len()
	p.ClosedShards = it.cursors.Closed()
	return p
}
