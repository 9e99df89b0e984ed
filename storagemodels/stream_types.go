package storagemodels

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-openapi/strfmt"
)

// ChangeResult represents a single change image yielded by a change stream scan
type ChangeResult[T any] struct {
	Item *T                              // The decoded image; nil when the record carries no such image
	Raw  map[string]types.AttributeValue // Raw image attributes, nil when absent
	Meta ChangeMeta                      // Metadata about the originating record
}

// ChangeMeta contains metadata about the change record an image came from
type ChangeMeta struct {
	Index          int64           // Position in the scan (0-based)
	Poll           int             // GetRecords call that returned the record (1-based)
	ShardID        string          // Shard the record was read from
	EventID        string          // Stream event id
	EventName      string          // INSERT, MODIFY or REMOVE
	SequenceNumber string          // Shard-local sequence number
	CreatedAt      strfmt.DateTime // Approximate creation time of the record
}

// PollOptions configures how a change stream is read
type PollOptions struct {
	RecordLimit     int32              // GetRecords page limit (0: service default)
	ShardPageSize   int32              // DescribeStream page limit (0: service default)
	ProgressHandler func(PollProgress) // Optional callback after each poll
}

// PollProgress tracks change stream scan progress
type PollProgress struct {
	Polls          int       // GetRecords calls issued
	EmptyPolls     int       // GetRecords calls that returned no records
	RecordsPolled  int64     // Records received from the stream
	RecordsYielded int64     // Images handed to the caller
	OpenCursors    int       // Cursors still queued
	ClosedShards   int       // Shards that returned no continuation
	StartTime      time.Time // When the scan started
	CurrentRate    float64   // Records polled per second
}

// PollOption is a functional option for configuring change stream reads
type PollOption func(*PollOptions)

// DefaultPollOptions returns default poll options
func DefaultPollOptions() PollOptions {
	return PollOptions{}
}

// ApplyPollOptions folds opts over the defaults
func ApplyPollOptions(opts ...PollOption) PollOptions {
	options := DefaultPollOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// WithRecordLimit sets the maximum records returned per GetRecords call
func WithRecordLimit(limit int32) PollOption {
	return func(opts *PollOptions) {
		opts.RecordLimit = limit
	}
}

// WithShardPageSize sets the maximum shards returned per DescribeStream call
func WithShardPageSize(size int32) PollOption {
	return func(opts *PollOptions) {
		opts.ShardPageSize = size
	}
}

// WithProgressHandler sets a progress callback
func WithProgressHandler(handler func(PollProgress)) PollOption {
	return func(opts *PollOptions) {
		opts.ProgressHandler = handler
	}
}
