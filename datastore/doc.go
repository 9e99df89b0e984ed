/*
Package datastore defines the persistence interface rows are written through.

The main interface is DataStore[T], which provides keyed access and scans for
any entity type T registered with the registry package:

	type DataStore[T any] interface {
	    GetOne(ctx context.Context, key string) (*T, error)
	    Put(ctx context.Context, entity T) error
	    Scan(ctx context.Context, params *storagemodels.ScanParams) ([]T, error)
	    Delete(ctx context.Context, key string) error
	}

Every Put, and every Delete of an existing item, emits a change record on the
table's stream when one is enabled.

Implementations:
  - ddb: DynamoDB implementation
  - mock: in-memory implementations for testing, including a DynamoDB and
    DynamoDB Streams emulator
*/
package datastore
