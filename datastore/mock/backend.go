/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock

import (
	"context"
	"fmt"
	"hash/fnv"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/dynamodbstreams"
	streamtypes "github.com/aws/aws-sdk-go-v2/service/dynamodbstreams/types"
	"github.com/aws/smithy-go"
)

const (
	defaultDescribePageSize = 100
	defaultRecordPageSize   = 1000
)

// Backend is an in-memory stand-in for DynamoDB and DynamoDB Streams. It implements the
// item, table and stream calls the ddbstreams packages use, with the same paging and
// shard-closing behaviour as the real services.
type Backend struct {
	mu sync.Mutex

	tables  map[string]*table
	streams map[string]*stream

	shardCount       int
	describePageSize int32
	recordPageSize   int32
	putFailure       func(item map[string]types.AttributeValue) error

	seq     int64
	now     func() time.Time
	calls   map[string]int
	streamN int
}

type table struct {
	desc   types.TableDescription
	items  map[string]map[string]types.AttributeValue
	stream *stream
}

type stream struct {
	arn       string
	tableName string
	hashKey   string
	viewType  streamtypes.StreamViewType
	created   time.Time
	shards    []*shard
	nextShard int
}

type shard struct {
	id       string
	parent   string
	records  []streamtypes.Record
	closed   bool
	startSeq string
	endSeq   string
}

// BackendOption configures a Backend.
type BackendOption func(*Backend)

// WithShards sets how many shards a new stream starts with. Zero leaves the stream without
// shards until the first write.
func WithShards(n int) BackendOption {
	return func(b *Backend) {
		b.shardCount = n
	}
}

// WithDescribePageSize sets the default number of shards per DescribeStream page.
func WithDescribePageSize(n int32) BackendOption {
	return func(b *Backend) {
		b.describePageSize = n
	}
}

// WithRecordPageSize sets the default number of records per GetRecords page.
func WithRecordPageSize(n int32) BackendOption {
	return func(b *Backend) {
		b.recordPageSize = n
	}
}

// WithPutFailure installs a hook that can reject individual PutItem calls.
func WithPutFailure(f func(item map[string]types.AttributeValue) error) BackendOption {
	return func(b *Backend) {
		b.putFailure = f
	}
}

// NewBackend creates an empty backend.
func NewBackend(opts ...BackendOption) *Backend {
	b := &Backend{
		tables:           make(map[string]*table),
		streams:          make(map[string]*stream),
		shardCount:       1,
		describePageSize: defaultDescribePageSize,
		recordPageSize:   defaultRecordPageSize,
		now:              time.Now,
		calls:            make(map[string]int),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Calls returns how many times the named API operation was invoked.
func (b *Backend) Calls(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

// RecordCount returns the number of change records written to a stream.
func (b *Backend) RecordCount(streamArn string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.streams[streamArn]
	if !ok {
		return 0
	}
	n := 0
	for _, sh := range s.shards {
		n += len(sh.records)
	}
	return n
}

// CloseShards closes every open shard of a stream. Later writes go to a new child shard.
func (b *Backend) CloseShards(streamArn string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.streams[streamArn]
	if !ok {
		return &streamtypes.ResourceNotFoundException{Message: aws.String("stream not found: " + streamArn)}
	}
	for _, sh := range s.shards {
		b.closeShard(sh)
	}
	return nil
}

// DynamoDB

func (b *Backend) CreateTable(_ context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["CreateTable"]++

	name := aws.ToString(in.TableName)
	if name == "" {
		return nil, validationError("TableName is required")
	}
	if _, exists := b.tables[name]; exists {
		return nil, &types.ResourceInUseException{Message: aws.String("Table already exists: " + name)}
	}

	var hashKey string
	for _, k := range in.KeySchema {
		if k.KeyType == types.KeyTypeHash {
			hashKey = aws.ToString(k.AttributeName)
		}
	}
	if hashKey == "" {
		return nil, validationError("KeySchema must contain a HASH key")
	}

	now := b.now()
	t := &table{
		items: make(map[string]map[string]types.AttributeValue),
		desc: types.TableDescription{
			TableName:            aws.String(name),
			TableArn:             aws.String("arn:aws:dynamodb:local:000000000000:table/" + name),
			TableStatus:          types.TableStatusActive,
			KeySchema:            in.KeySchema,
			AttributeDefinitions: in.AttributeDefinitions,
			CreationDateTime:     aws.Time(now),
			StreamSpecification:  in.StreamSpecification,
		},
	}
	if in.ProvisionedThroughput != nil {
		t.desc.ProvisionedThroughput = &types.ProvisionedThroughputDescription{
			ReadCapacityUnits:  in.ProvisionedThroughput.ReadCapacityUnits,
			WriteCapacityUnits: in.ProvisionedThroughput.WriteCapacityUnits,
		}
	}

	if spec := in.StreamSpecification; spec != nil && aws.ToBool(spec.StreamEnabled) {
		b.streamN++
		label := fmt.Sprintf("%s.%03d", now.UTC().Format("2006-01-02T15:04:05"), b.streamN)
		s := &stream{
			arn:       fmt.Sprintf("%s/stream/%s", aws.ToString(t.desc.TableArn), label),
			tableName: name,
			hashKey:   hashKey,
			viewType:  streamtypes.StreamViewType(spec.StreamViewType),
			created:   now,
		}
		for i := 0; i < b.shardCount; i++ {
			b.addShard(s, "")
		}
		t.stream = s
		b.streams[s.arn] = s
		t.desc.LatestStreamArn = aws.String(s.arn)
		t.desc.LatestStreamLabel = aws.String(label)
	}

	b.tables[name] = t
	desc := t.desc
	return &dynamodb.CreateTableOutput{TableDescription: &desc}, nil
}

func (b *Backend) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["DescribeTable"]++

	t, err := b.table(in.TableName)
	if err != nil {
		return nil, err
	}
	desc := t.desc
	desc.ItemCount = aws.Int64(int64(len(t.items)))
	return &dynamodb.DescribeTableOutput{Table: &desc}, nil
}

func (b *Backend) DeleteTable(_ context.Context, in *dynamodb.DeleteTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteTableOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["DeleteTable"]++

	t, err := b.table(in.TableName)
	if err != nil {
		return nil, err
	}
	delete(b.tables, aws.ToString(in.TableName))

	// The stream stays readable after the table is gone, but no shard receives records.
	if t.stream != nil {
		for _, sh := range t.stream.shards {
			b.closeShard(sh)
		}
	}

	desc := t.desc
	desc.TableStatus = types.TableStatusDeleting
	return &dynamodb.DeleteTableOutput{TableDescription: &desc}, nil
}

func (b *Backend) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["PutItem"]++

	t, err := b.table(in.TableName)
	if err != nil {
		return nil, err
	}
	key, ok := keyString(in.Item[t.hashKey()])
	if !ok {
		return nil, validationError("One of the required keys was not given a value")
	}
	if b.putFailure != nil {
		if err := b.putFailure(in.Item); err != nil {
			return nil, err
		}
	}

	item := copyItem(in.Item)
	old, existed := t.items[key]
	t.items[key] = item

	out := &dynamodb.PutItemOutput{}
	if existed && in.ReturnValues == types.ReturnValueAllOld {
		out.Attributes = copyItem(old)
	}

	switch {
	case !existed:
		b.emit(t, key, streamtypes.OperationTypeInsert, nil, item)
	case !reflect.DeepEqual(old, item):
		b.emit(t, key, streamtypes.OperationTypeModify, old, item)
	}
	return out, nil
}

func (b *Backend) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["GetItem"]++

	t, err := b.table(in.TableName)
	if err != nil {
		return nil, err
	}
	key, ok := keyString(in.Key[t.hashKey()])
	if !ok {
		return nil, validationError("The provided key element does not match the schema")
	}
	item, found := t.items[key]
	if !found {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: copyItem(item)}, nil
}

func (b *Backend) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["DeleteItem"]++

	t, err := b.table(in.TableName)
	if err != nil {
		return nil, err
	}
	key, ok := keyString(in.Key[t.hashKey()])
	if !ok {
		return nil, validationError("The provided key element does not match the schema")
	}
	old, existed := t.items[key]
	if !existed {
		return &dynamodb.DeleteItemOutput{}, nil
	}
	delete(t.items, key)
	b.emit(t, key, streamtypes.OperationTypeRemove, old, nil)

	out := &dynamodb.DeleteItemOutput{}
	if in.ReturnValues == types.ReturnValueAllOld {
		out.Attributes = copyItem(old)
	}
	return out, nil
}

var filterPattern = regexp.MustCompile(`^\s*(#?[A-Za-z_][A-Za-z0-9_]*)\s*(=|<>|<=|>=|<|>)\s*(:[A-Za-z0-9_]+)\s*$`)

// Scan supports a single comparison filter ("attr = :v") and a comma separated projection.
// Items are returned in key order; Limit bounds the items evaluated per page.
func (b *Backend) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["Scan"]++

	t, err := b.table(in.TableName)
	if err != nil {
		return nil, err
	}

	var match func(map[string]types.AttributeValue) bool
	if expr := aws.ToString(in.FilterExpression); expr != "" {
		m := filterPattern.FindStringSubmatch(expr)
		if m == nil {
			return nil, validationError("unsupported FilterExpression: " + expr)
		}
		attr := resolveName(m[1], in.ExpressionAttributeNames)
		want, ok := in.ExpressionAttributeValues[m[3]]
		if !ok {
			return nil, validationError("An expression attribute value used in expression is not defined: " + m[3])
		}
		op := m[2]
		match = func(item map[string]types.AttributeValue) bool {
			got, ok := item[attr]
			if !ok {
				return false
			}
			return compare(got, op, want)
		}
	}

	var projection []string
	if expr := aws.ToString(in.ProjectionExpression); expr != "" {
		for _, p := range strings.Split(expr, ",") {
			projection = append(projection, resolveName(strings.TrimSpace(p), in.ExpressionAttributeNames))
		}
	}

	keys := make([]string, 0, len(t.items))
	for k := range t.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if in.ExclusiveStartKey != nil {
		after, ok := keyString(in.ExclusiveStartKey[t.hashKey()])
		if !ok {
			return nil, validationError("The provided starting key is invalid")
		}
		start = sort.SearchStrings(keys, after)
		if start < len(keys) && keys[start] == after {
			start++
		}
	}

	end := len(keys)
	if in.Limit != nil && *in.Limit > 0 && start+int(*in.Limit) < end {
		end = start + int(*in.Limit)
	}

	out := &dynamodb.ScanOutput{}
	for _, k := range keys[start:end] {
		item := t.items[k]
		if match != nil && !match(item) {
			continue
		}
		out.Items = append(out.Items, project(item, projection))
	}
	out.Count = int32(len(out.Items))
	out.ScannedCount = int32(end - start)
	if end < len(keys) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			t.hashKey(): copyItem(t.items[keys[end-1]])[t.hashKey()],
		}
	}
	return out, nil
}

// DynamoDB Streams

func (b *Backend) DescribeStream(_ context.Context, in *dynamodbstreams.DescribeStreamInput, _ ...func(*dynamodbstreams.Options)) (*dynamodbstreams.DescribeStreamOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["DescribeStream"]++

	s, err := b.stream(in.StreamArn)
	if err != nil {
		return nil, err
	}

	limit := int(b.describePageSize)
	if in.Limit != nil && *in.Limit > 0 {
		limit = int(*in.Limit)
	}
	start := 0
	if id := aws.ToString(in.ExclusiveStartShardId); id != "" {
		start = len(s.shards)
		for i, sh := range s.shards {
			if sh.id == id {
				start = i + 1
				break
			}
		}
	}
	end := len(s.shards)
	if start+limit < end {
		end = start + limit
	}

	desc := &streamtypes.StreamDescription{
		StreamArn:               aws.String(s.arn),
		StreamLabel:             aws.String(s.arn[strings.LastIndex(s.arn, "/")+1:]),
		StreamStatus:            streamtypes.StreamStatusEnabled,
		StreamViewType:          s.viewType,
		TableName:               aws.String(s.tableName),
		CreationRequestDateTime: aws.Time(s.created),
		KeySchema: []streamtypes.KeySchemaElement{
			{AttributeName: aws.String(s.hashKey), KeyType: streamtypes.KeyTypeHash},
		},
	}
	for _, sh := range s.shards[start:end] {
		out := streamtypes.Shard{
			ShardId: aws.String(sh.id),
			SequenceNumberRange: &streamtypes.SequenceNumberRange{
				StartingSequenceNumber: aws.String(sh.startSeq),
			},
		}
		if sh.parent != "" {
			out.ParentShardId = aws.String(sh.parent)
		}
		if sh.closed {
			out.SequenceNumberRange.EndingSequenceNumber = aws.String(sh.endSeq)
		}
		desc.Shards = append(desc.Shards, out)
	}
	if end < len(s.shards) {
		desc.LastEvaluatedShardId = aws.String(s.shards[end-1].id)
	}
	return &dynamodbstreams.DescribeStreamOutput{StreamDescription: desc}, nil
}

func (b *Backend) GetShardIterator(_ context.Context, in *dynamodbstreams.GetShardIteratorInput, _ ...func(*dynamodbstreams.Options)) (*dynamodbstreams.GetShardIteratorOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["GetShardIterator"]++

	s, err := b.stream(in.StreamArn)
	if err != nil {
		return nil, err
	}
	sh := s.shard(aws.ToString(in.ShardId))
	if sh == nil {
		return nil, &streamtypes.ResourceNotFoundException{Message: aws.String("shard not found: " + aws.ToString(in.ShardId))}
	}

	var pos int
	switch in.ShardIteratorType {
	case streamtypes.ShardIteratorTypeTrimHorizon:
		pos = 0
	case streamtypes.ShardIteratorTypeLatest:
		pos = len(sh.records)
	case streamtypes.ShardIteratorTypeAtSequenceNumber, streamtypes.ShardIteratorTypeAfterSequenceNumber:
		seq := aws.ToString(in.SequenceNumber)
		pos = -1
		for i, r := range sh.records {
			if aws.ToString(r.Dynamodb.SequenceNumber) == seq {
				pos = i
				break
			}
		}
		if pos < 0 {
			return nil, &streamtypes.TrimmedDataAccessException{Message: aws.String("sequence number not in shard: " + seq)}
		}
		if in.ShardIteratorType == streamtypes.ShardIteratorTypeAfterSequenceNumber {
			pos++
		}
	default:
		return nil, validationError(fmt.Sprintf("unsupported ShardIteratorType %q", in.ShardIteratorType))
	}

	return &dynamodbstreams.GetShardIteratorOutput{ShardIterator: aws.String(iteratorToken(s.arn, sh.id, pos))}, nil
}

// GetRecords returns the next page of a shard. A closed shard that has been read to the end
// returns no NextShardIterator.
func (b *Backend) GetRecords(_ context.Context, in *dynamodbstreams.GetRecordsInput, _ ...func(*dynamodbstreams.Options)) (*dynamodbstreams.GetRecordsOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["GetRecords"]++

	arn, shardID, pos, ok := parseIteratorToken(aws.ToString(in.ShardIterator))
	if !ok {
		return nil, &streamtypes.ExpiredIteratorException{Message: aws.String("invalid shard iterator")}
	}
	s, err := b.stream(aws.String(arn))
	if err != nil {
		return nil, err
	}
	sh := s.shard(shardID)
	if sh == nil || pos > len(sh.records) {
		return nil, &streamtypes.ExpiredIteratorException{Message: aws.String("invalid shard iterator")}
	}

	limit := int(b.recordPageSize)
	if in.Limit != nil && *in.Limit > 0 {
		limit = int(*in.Limit)
	}
	end := len(sh.records)
	if pos+limit < end {
		end = pos + limit
	}

	out := &dynamodbstreams.GetRecordsOutput{
		Records: append([]streamtypes.Record(nil), sh.records[pos:end]...),
	}
	if !sh.closed || end < len(sh.records) {
		out.NextShardIterator = aws.String(iteratorToken(s.arn, sh.id, end))
	}
	return out, nil
}

func (b *Backend) table(name *string) (*table, error) {
	t, ok := b.tables[aws.ToString(name)]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("Requested resource not found: Table: " + aws.ToString(name) + " not found")}
	}
	return t, nil
}

func (b *Backend) stream(arn *string) (*stream, error) {
	s, ok := b.streams[aws.ToString(arn)]
	if !ok {
		return nil, &streamtypes.ResourceNotFoundException{Message: aws.String("Requested resource not found: Stream: " + aws.ToString(arn) + " not found")}
	}
	return s, nil
}

func (t *table) hashKey() string {
	for _, k := range t.desc.KeySchema {
		if k.KeyType == types.KeyTypeHash {
			return aws.ToString(k.AttributeName)
		}
	}
	return ""
}

func (s *stream) shard(id string) *shard {
	for _, sh := range s.shards {
		if sh.id == id {
			return sh
		}
	}
	return nil
}

func (s *stream) openShards() []*shard {
	var open []*shard
	for _, sh := range s.shards {
		if !sh.closed {
			open = append(open, sh)
		}
	}
	return open
}

func (b *Backend) addShard(s *stream, parent string) *shard {
	s.nextShard++
	sh := &shard{
		id:       fmt.Sprintf("shardId-%020d-%08x", b.now().UnixMilli(), s.nextShard),
		parent:   parent,
		startSeq: b.sequenceNumber(b.seq + 1),
	}
	s.shards = append(s.shards, sh)
	return sh
}

func (b *Backend) closeShard(sh *shard) {
	if sh.closed {
		return
	}
	sh.closed = true
	sh.endSeq = b.sequenceNumber(b.seq)
}

// emit appends a change record for a write to the shard owning the key.
func (b *Backend) emit(t *table, key string, op streamtypes.OperationType, oldItem, newItem map[string]types.AttributeValue) {
	s := t.stream
	if s == nil {
		return
	}

	open := s.openShards()
	if len(open) == 0 {
		parent := ""
		if n := len(s.shards); n > 0 {
			parent = s.shards[n-1].id
		}
		open = []*shard{b.addShard(s, parent)}
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	sh := open[int(h.Sum32()%uint32(len(open)))]

	b.seq++
	hk := t.hashKey()
	source := newItem
	if source == nil {
		source = oldItem
	}
	rec := &streamtypes.StreamRecord{
		ApproximateCreationDateTime: aws.Time(b.now()),
		Keys:                        toStreamItem(map[string]types.AttributeValue{hk: source[hk]}),
		SequenceNumber:              aws.String(b.sequenceNumber(b.seq)),
		StreamViewType:              s.viewType,
	}
	switch s.viewType {
	case streamtypes.StreamViewTypeNewImage:
		rec.NewImage = toStreamItem(newItem)
	case streamtypes.StreamViewTypeOldImage:
		rec.OldImage = toStreamItem(oldItem)
	case streamtypes.StreamViewTypeNewAndOldImages:
		rec.NewImage = toStreamItem(newItem)
		rec.OldImage = toStreamItem(oldItem)
	}

	sh.records = append(sh.records, streamtypes.Record{
		AwsRegion:    aws.String("local"),
		EventID:      aws.String(fmt.Sprintf("%032x", b.seq)),
		EventName:    op,
		EventSource:  aws.String("aws:dynamodb"),
		EventVersion: aws.String("1.1"),
		Dynamodb:     rec,
	})
}

func (b *Backend) sequenceNumber(n int64) string {
	return fmt.Sprintf("%021d", n)
}

func iteratorToken(arn, shardID string, pos int) string {
	return arn + "|" + shardID + "|" + strconv.Itoa(pos)
}

func parseIteratorToken(token string) (arn, shardID string, pos int, ok bool) {
	parts := strings.Split(token, "|")
	if len(parts) != 3 {
		return "", "", 0, false
	}
	pos, err := strconv.Atoi(parts[2])
	if err != nil || pos < 0 {
		return "", "", 0, false
	}
	return parts[0], parts[1], pos, true
}

func validationError(msg string) error {
	return &smithy.GenericAPIError{Code: "ValidationException", Message: msg, Fault: smithy.FaultClient}
}

func keyString(av types.AttributeValue) (string, bool) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value, v.Value != ""
	case *types.AttributeValueMemberN:
		return v.Value, v.Value != ""
	case *types.AttributeValueMemberB:
		return string(v.Value), len(v.Value) > 0
	}
	return "", false
}

func resolveName(name string, names map[string]string) string {
	if strings.HasPrefix(name, "#") {
		if resolved, ok := names[name]; ok {
			return resolved
		}
	}
	return name
}

func project(item map[string]types.AttributeValue, attrs []string) map[string]types.AttributeValue {
	if len(attrs) == 0 {
		return copyItem(item)
	}
	out := make(map[string]types.AttributeValue, len(attrs))
	for _, a := range attrs {
		if v, ok := item[a]; ok {
			out[a] = v
		}
	}
	return out
}

func compare(got types.AttributeValue, op string, want types.AttributeValue) bool {
	var c int
	switch g := got.(type) {
	case *types.AttributeValueMemberN:
		w, ok := want.(*types.AttributeValueMemberN)
		if !ok {
			return op == "<>"
		}
		gf, err1 := strconv.ParseFloat(g.Value, 64)
		wf, err2 := strconv.ParseFloat(w.Value, 64)
		if err1 != nil || err2 != nil {
			return false
		}
		switch {
		case gf < wf:
			c = -1
		case gf > wf:
			c = 1
		}
	case *types.AttributeValueMemberS:
		w, ok := want.(*types.AttributeValueMemberS)
		if !ok {
			return op == "<>"
		}
		c = strings.Compare(g.Value, w.Value)
	default:
		eq := reflect.DeepEqual(got, want)
		switch op {
		case "=":
			return eq
		case "<>":
			return !eq
		}
		return false
	}

	switch op {
	case "=":
		return c == 0
	case "<>":
		return c != 0
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	}
	return false
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	if item == nil {
		return nil
	}
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func toStreamItem(item map[string]types.AttributeValue) map[string]streamtypes.AttributeValue {
	if item == nil {
		return nil
	}
	out := make(map[string]streamtypes.AttributeValue, len(item))
	for k, v := range item {
		out[k] = toStreamValue(v)
	}
	return out
}

func toStreamValue(av types.AttributeValue) streamtypes.AttributeValue {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return &streamtypes.AttributeValueMemberS{Value: v.Value}
	case *types.AttributeValueMemberN:
		return &streamtypes.AttributeValueMemberN{Value: v.Value}
	case *types.AttributeValueMemberB:
		return &streamtypes.AttributeValueMemberB{Value: append([]byte(nil), v.Value...)}
	case *types.AttributeValueMemberBOOL:
		return &streamtypes.AttributeValueMemberBOOL{Value: v.Value}
	case *types.AttributeValueMemberNULL:
		return &streamtypes.AttributeValueMemberNULL{Value: v.Value}
	case *types.AttributeValueMemberSS:
		return &streamtypes.AttributeValueMemberSS{Value: append([]string(nil), v.Value...)}
	case *types.AttributeValueMemberNS:
		return &streamtypes.AttributeValueMemberNS{Value: append([]string(nil), v.Value...)}
	case *types.AttributeValueMemberBS:
		bs := make([][]byte, len(v.Value))
		for i, b := range v.Value {
			bs[i] = append([]byte(nil), b...)
		}
		return &streamtypes.AttributeValueMemberBS{Value: bs}
	case *types.AttributeValueMemberL:
		l := make([]streamtypes.AttributeValue, len(v.Value))
		for i, e := range v.Value {
			l[i] = toStreamValue(e)
		}
		return &streamtypes.AttributeValueMemberL{Value: l}
	case *types.AttributeValueMemberM:
		return &streamtypes.AttributeValueMemberM{Value: toStreamItem(v.Value)}
	}
	return &streamtypes.AttributeValueMemberNULL{Value: true}
}
