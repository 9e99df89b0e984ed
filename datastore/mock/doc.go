/*
Package mock provides in-memory test doubles for the datastore layer.

Backend emulates the DynamoDB and DynamoDB Streams calls used by the ddb and
changestream packages: table creation with a stream specification, item
writes that append change records to stream shards, shard listing, shard
iterators and paged record polls. A closed shard that has been read to the
end returns no continuation iterator, exactly like the real service.

	backend := mock.NewBackend(mock.WithShards(2), mock.WithRecordPageSize(10))
	store, _ := ddb.NewDynamodbDataStore[model.CustomerReview](backend, "")
	it := changestream.NewImageIterator[model.CustomerReview](backend, cursors, changestream.NewImage)

DataStore is a generic in-memory implementation of datastore.DataStore[T]
with failure injection for unit tests of code that only needs the write path.
*/
package mock
