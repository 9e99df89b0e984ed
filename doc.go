/*
Package ddbstreams reads the change stream of a DynamoDB table as typed rows
and runs SQL queries over the before and after images of every write.

The flow mirrors the life of a change record:
  - loader writes sample reviews to the table, one Put per line
  - DynamoDB appends a change record per write to the shards of the table stream
  - changestream discovers the shards and drains them into model.CustomerReview values
  - the caller materializes the images into query collections
  - query binds the collections by name and evaluates a query over them

Key Features:
  - Typed image iteration using Go generics, one iterator for new, old or key images
  - Explicit shard work queue with an auditable termination rule
  - Embedded SQL engine over materialized images, including joins of old and new images
  - Semantic error types for configuration, parse and exhausted-sequence failures
  - In-memory DynamoDB and DynamoDB Streams backend for tests

Basic Usage:

	cfg, _ := config.Load("ddbstreams.yaml")
	db, _ := ddb.NewDynamoDBClient(ctx, cfg.AWS)
	streams, _ := changestream.NewStreamsClient(ctx, cfg.AWS)

	session, err := ddbstreams.NewSession(ctx, db, streams, cfg)
	if err != nil {
	    return err
	}
	defer session.Close(ctx)

	_, _ = session.LoadSampleData(ctx, "customer_reviews.txt")

	newImages, _ := session.CollectImages(ctx, changestream.NewImage)
	bindings := query.NewBindings()
	_ = bindings.Bind("ddbstream", newImages)

	fives, _ := session.Query(ctx,
	    "SELECT s.customer_id, s.star_rating FROM ddbstream AS s WHERE s.star_rating = 5", bindings)
*/
package ddbstreams
