/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/ddbstreams/storagemodels"
)

type DataStore[T any] interface {
	GetOne(ctx context.Context, key string) (*T, error)

	Put(ctx context.Context, entity T) error

	Scan(ctx context.Context, params *storagemodels.ScanParams) ([]T, error)

	Delete(ctx context.Context, key string) error
}
