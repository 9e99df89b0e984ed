/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ScanParams defines parameters for a DynamoDB Scan operation.
type ScanParams struct {
	// FilterExpression is an optional filter expression, e.g. "star_rating = :stars".
	FilterExpression *string
	// ProjectionExpression optionally restricts the returned attributes.
	ProjectionExpression *string
	// ExpressionAttributeNames contains substitutions for attribute names.
	ExpressionAttributeNames map[string]string
	// ExpressionAttributeValues contains the values for expression placeholders.
	ExpressionAttributeValues map[string]types.AttributeValue
	// Limit defines an optional limit per scan page.
	Limit *int32
}
