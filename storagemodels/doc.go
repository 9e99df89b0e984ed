/*
Package storagemodels defines the data structures shared by the datastore and
changestream packages.

Key Types:

ScanParams:
Parameters for scanning a table:

	params := &ScanParams{
	    FilterExpression:     aws.String("star_rating = :stars"),
	    ProjectionExpression: aws.String("customer_id, star_rating"),
	    ExpressionAttributeValues: map[string]types.AttributeValue{
	        ":stars": &types.AttributeValueMemberN{Value: "5"},
	    },
	}

ChangeResult:
One change image with metadata about its record:

	type ChangeResult[T any] struct {
	    Item *T                              // nil when the record has no such image
	    Raw  map[string]types.AttributeValue // Raw image attributes
	    Meta ChangeMeta                      // Shard, sequence number, event name...
	}

PollOptions:
Configuration for change stream reads:

	opts := []PollOption{
	    WithRecordLimit(100),
	    WithShardPageSize(10),
	    WithProgressHandler(progressFunc),
	}
*/
package storagemodels
