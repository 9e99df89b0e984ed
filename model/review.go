/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package model

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/ddbstreams/errors"
	"github.com/suparena/ddbstreams/query"
	"github.com/suparena/ddbstreams/registry"
)

// TableName is the default table customer reviews are stored in.
const TableName = "CustomerReviews"

// HashKey is the partition key attribute of the reviews table.
const HashKey = "customer_id"

// Columns lists the structured value field names of a CustomerReview, in order.
var Columns = []string{
	"customer_id",
	"review_id",
	"product_title",
	"star_rating",
	"helpful_votes",
	"total_votes",
	"verified_purchase",
	"review_heading",
}

func init() {
	registry.RegisterTable[CustomerReview](registry.TableSchema{
		Name:        TableName,
		HashKey:     HashKey,
		HashKeyType: types.ScalarAttributeTypeS,
	})
	registry.RegisterDecoder[CustomerReview](FromAttributes)
}

// CustomerReview is one row of the CustomerReviews table.
type CustomerReview struct {
	CustomerID       string `dynamodbav:"customer_id"`
	ReviewID         string `dynamodbav:"review_id"`
	ProductTitle     string `dynamodbav:"product_title"`
	StarRating       int    `dynamodbav:"star_rating"`
	HelpfulVotes     int    `dynamodbav:"helpful_votes"`
	TotalVotes       int    `dynamodbav:"total_votes"`
	VerifiedPurchase YesNo  `dynamodbav:"verified_purchase"`
	ReviewHeading    string `dynamodbav:"review_heading"`
}

// FromAttributes rebuilds a review from a table item or a change image.
// Attributes missing from a partial image keep their zero value; the customer id is required.
func FromAttributes(item map[string]types.AttributeValue) (*CustomerReview, error) {
	if id, ok := item[HashKey].(*types.AttributeValueMemberS); !ok || id.Value == "" {
		return nil, errors.NewValidationError(HashKey, "is required")
	}

	var r CustomerReview
	if err := attributevalue.UnmarshalMap(item, &r); err != nil {
		return nil, errors.NewParseError("CustomerReview", 0, "", err)
	}
	return &r, nil
}

// ToAttributes marshals the review into a DynamoDB item.
func ToAttributes(r CustomerReview) (map[string]types.AttributeValue, error) {
	av, err := attributevalue.MarshalMap(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal review %s: %w", r.CustomerID, err)
	}
	return av, nil
}

// ToStructuredValue returns the review as a query document.
func (r CustomerReview) ToStructuredValue() query.Struct {
	return query.Struct{
		{Name: "customer_id", Value: r.CustomerID},
		{Name: "review_id", Value: r.ReviewID},
		{Name: "product_title", Value: r.ProductTitle},
		{Name: "star_rating", Value: int64(r.StarRating)},
		{Name: "helpful_votes", Value: int64(r.HelpfulVotes)},
		{Name: "total_votes", Value: int64(r.TotalVotes)},
		{Name: "verified_purchase", Value: bool(r.VerifiedPurchase)},
		{Name: "review_heading", Value: r.ReviewHeading},
	}
}

// Collection turns reviews into a query collection. Nil reviews become null elements.
func Collection(reviews []*CustomerReview) query.Collection {
	items := make([]query.Struct, len(reviews))
	for i, r := range reviews {
		if r != nil {
			items[i] = r.ToStructuredValue()
		}
	}
	return query.Collection{Columns: Columns, Items: items}
}

func (r CustomerReview) String() string {
	return fmt.Sprintf("CustomerReview{customerId=%q, reviewId=%q, productTitle=%q, starRating=%d, helpfulVotes=%d, totalVotes=%d, verifiedPurchase=%t, reviewHeading=%q}",
		r.CustomerID, r.ReviewID, r.ProductTitle, r.StarRating, r.HelpfulVotes, r.TotalVotes, bool(r.VerifiedPurchase), r.ReviewHeading)
}
