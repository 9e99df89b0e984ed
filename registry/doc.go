/*
Package registry manages per-type storage metadata for ddbstreams.

The registry system enables:
  - Table creation and keyed access without repeating key names at call sites
  - Custom decoding of change images into typed rows

Table Registry:
Associates Go types with their DynamoDB table schema:

	registry.RegisterTable[CustomerReview](registry.TableSchema{
	    Name:    "CustomerReviews",
	    HashKey: "customer_id",
	})

Decoder Registry:
Maps Go types to decode functions used by the change image iterator:

	registry.RegisterDecoder[CustomerReview](FromAttributes)

Types without a registered decoder are decoded with attributevalue.UnmarshalMap.

The registry is thread-safe and should be populated during initialization,
typically in init() functions.
*/
package registry
