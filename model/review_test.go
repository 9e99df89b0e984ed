/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package model

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/ddbstreams/errors"
	"github.com/suparena/ddbstreams/registry"
)

func sampleReview() CustomerReview {
	return CustomerReview{
		CustomerID:       "10349",
		ReviewID:         "R1SVGN6KQ0T7N5",
		ProductTitle:     "Dinosaur Lamp",
		StarRating:       4,
		HelpfulVotes:     2,
		TotalVotes:       3,
		VerifiedPurchase: true,
		ReviewHeading:    "Kids love it",
	}
}

func TestRoundTrip(t *testing.T) {
	r := sampleReview()

	av, err := ToAttributes(r)
	require.NoError(t, err)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "Y"}, av["verified_purchase"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "4"}, av["star_rating"])

	got, err := FromAttributes(av)
	require.NoError(t, err)
	assert.Equal(t, r, *got)
}

func TestFromAttributesPartialImage(t *testing.T) {
	// a KEYS_ONLY image carries nothing but the hash key
	got, err := FromAttributes(map[string]types.AttributeValue{
		"customer_id": &types.AttributeValueMemberS{Value: "42"},
	})
	require.NoError(t, err)
	assert.Equal(t, CustomerReview{CustomerID: "42"}, *got)
	assert.False(t, bool(got.VerifiedPurchase))
}

func TestFromAttributesErrors(t *testing.T) {
	tests := []struct {
		name  string
		item  map[string]types.AttributeValue
		check func(error) bool
	}{
		{
			name:  "missing id",
			item:  map[string]types.AttributeValue{"review_id": &types.AttributeValueMemberS{Value: "R"}},
			check: errors.IsValidationError,
		},
		{
			name:  "empty id",
			item:  map[string]types.AttributeValue{"customer_id": &types.AttributeValueMemberS{Value: ""}},
			check: errors.IsValidationError,
		},
		{
			name: "non integer rating",
			item: map[string]types.AttributeValue{
				"customer_id": &types.AttributeValueMemberS{Value: "1"},
				"star_rating": &types.AttributeValueMemberN{Value: "4.5"},
			},
			check: errors.IsParseError,
		},
		{
			name: "bad flag",
			item: map[string]types.AttributeValue{
				"customer_id":       &types.AttributeValueMemberS{Value: "1"},
				"verified_purchase": &types.AttributeValueMemberS{Value: "maybe"},
			},
			check: errors.IsParseError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromAttributes(tt.item)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error class: %v", err)
		})
	}
}

func TestYesNo(t *testing.T) {
	for in, want := range map[string]YesNo{"Y": true, "y": true, " N ": false, "n": false} {
		got, err := ParseYesNo(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseYesNo("yes")
	assert.Error(t, err)

	var v YesNo
	require.NoError(t, v.UnmarshalDynamoDBAttributeValue(&types.AttributeValueMemberBOOL{Value: true}))
	assert.True(t, bool(v))
	require.NoError(t, v.UnmarshalDynamoDBAttributeValue(&types.AttributeValueMemberNULL{Value: true}))
	assert.False(t, bool(v))
	assert.Error(t, v.UnmarshalDynamoDBAttributeValue(&types.AttributeValueMemberN{Value: "1"}))
}

func TestToStructuredValue(t *testing.T) {
	s := sampleReview().ToStructuredValue()

	assert.Equal(t, Columns, s.Names())
	m := s.Map()
	assert.Equal(t, "10349", m["customer_id"])
	assert.Equal(t, int64(4), m["star_rating"])
	assert.Equal(t, true, m["verified_purchase"])
}

func TestCollection(t *testing.T) {
	r := sampleReview()
	c := Collection([]*CustomerReview{nil, &r})

	assert.Equal(t, Columns, c.Columns)
	require.Equal(t, 2, c.Len())
	assert.Nil(t, c.Items[0])
	assert.Equal(t, []any{nil, "10349"}, c.Column("customer_id"))
}

func TestRegistration(t *testing.T) {
	schema, ok := registry.GetTable[CustomerReview]()
	require.True(t, ok)
	assert.Equal(t, TableName, schema.Name)
	assert.Equal(t, HashKey, schema.HashKey)

	_, ok = registry.GetDecoder[CustomerReview]()
	assert.True(t, ok)
}
