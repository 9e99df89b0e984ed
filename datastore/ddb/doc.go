/*
Package ddb provides a DynamoDB implementation of the DataStore interface and
the table management needed to read a table's change stream.

The DynamodbDataStore supports:
  - Keyed access through the hash key registered for the entity type
  - Paginated scans with filter and projection expressions
  - Custom decoding through the registry's decoder for the entity type

Table management:
CreateStreamTable creates the table registered for a type with a stream
enabled, waits for it to become active, and returns its description:

	desc, err := ddb.CreateStreamTable[model.CustomerReview](ctx, client, "CustomerReviews",
	    ddb.TableOptions{
	        StreamViewType: types.StreamViewTypeNewAndOldImages,
	        ReadCapacity:   10,
	        WriteCapacity:  5,
	    })
	arn, err := ddb.LatestStreamArn(desc)

Clients:
LoadAWSConfig and NewDynamoDBClient honour an endpoint override so the same
code runs against DynamoDB Local:

	client, err := ddb.NewDynamoDBClient(ctx, config.AWSConfig{
	    Region:   "us-east-1",
	    Endpoint: "http://localhost:8000",
	})
*/
package ddb
