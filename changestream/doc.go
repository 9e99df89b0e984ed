/*
Package changestream reads a DynamoDB table's change stream as typed row images.

Discovery lists every shard of a stream and opens a TRIM_HORIZON cursor on
each:

	cursors, err := changestream.DiscoverCursors(ctx, streams, streamArn)
	if errors.IsConfiguration(err) {
	    // the stream has no shards
	}

CursorSet is the work queue behind the iterator. Every cursor moves through a
small state machine:

	Active <-> EmptyObserved -> Closed

A poll that returns records keeps a cursor Active, an empty page marks it
EmptyObserved, and a poll without a continuation token closes the shard and
drops the cursor from the set.

ImageIterator turns the records of all shards into a lazy, single-pass
sequence of T, choosing the image with an ImageKind:

	it := changestream.NewImageIterator[model.CustomerReview](streams, cursors, changestream.OldImage)
	for {
	    ok, err := it.HasNext(ctx)
	    if err != nil || !ok {
	        break
	    }
	    review, _ := it.Next(ctx) // nil for records without an old image
	}

The sequence has exactly one element per change record. It ends when no
cursor is left or every remaining cursor returned an empty page since the
buffer last ran dry. Reading past the end returns an error matching
errors.ErrExhausted. A scan cannot be restarted; use Collect to materialize it
when the rows are needed more than once.
*/
package changestream
