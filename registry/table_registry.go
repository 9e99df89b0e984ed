/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TableSchema describes the DynamoDB table a Go type is persisted in.
type TableSchema struct {
	// Name is the default table name.
	Name string
	// HashKey is the attribute name of the partition key.
	HashKey string
	// HashKeyType is the scalar type of the partition key (S or N).
	HashKeyType types.ScalarAttributeType
}

var (
	tableRegistry = make(map[reflect.Type]TableSchema)
	mu            sync.RWMutex
)

// RegisterTable associates a Go type T with its table schema.
func RegisterTable[T any](schema TableSchema) {
	var zero T
	t := reflect.TypeOf(zero)

	if schema.HashKeyType == "" {
		schema.HashKeyType = types.ScalarAttributeTypeS
	}

	mu.Lock()
	defer mu.Unlock()
	tableRegistry[t] = schema
}

// GetTable retrieves the table schema for type T, if any.
func GetTable[T any]() (TableSchema, bool) {
	var zero T
	t := reflect.TypeOf(zero)

	mu.RLock()
	defer mu.RUnlock()
	s, ok := tableRegistry[t]
	return s, ok
}
