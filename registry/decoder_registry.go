package registry

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DecodeFunc turns a raw DynamoDB attribute map (a table item or a change image) into a T.
type DecodeFunc[T any] func(item map[string]types.AttributeValue) (*T, error)

var (
	decoderRegistry = make(map[reflect.Type]any)
	decoderMu       sync.RWMutex
)

// RegisterDecoder registers the decode function for type T.
// If a decoder is already registered for T, it panics to prevent accidental overrides.
func RegisterDecoder[T any](fn DecodeFunc[T]) {
	t := reflect.TypeOf((*T)(nil)).Elem()

	decoderMu.Lock()
	defer decoderMu.Unlock()
	if _, exists := decoderRegistry[t]; exists {
		panic(fmt.Sprintf("decoder registry: decoder for %v already registered", t))
	}
	decoderRegistry[t] = fn
}

// GetDecoder returns the registered decode function for type T.
func GetDecoder[T any]() (DecodeFunc[T], bool) {
	t := reflect.TypeOf((*T)(nil)).Elem()

	decoderMu.RLock()
	defer decoderMu.RUnlock()
	fn, ok := decoderRegistry[t]
	if !ok {
		return nil, false
	}
	return fn.(DecodeFunc[T]), true
}

// Decode converts item into a T with the registered decoder, falling back to
// attributevalue.UnmarshalMap when none is registered.
func Decode[T any](item map[string]types.AttributeValue) (*T, error) {
	if fn, ok := GetDecoder[T](); ok {
		return fn(item)
	}
	result := new(T)
	if err := attributevalue.UnmarshalMap(item, result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return result, nil
}
