/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package loader

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/ddbstreams/datastore/mock"
	"github.com/suparena/ddbstreams/errors"
	"github.com/suparena/ddbstreams/model"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		want      model.CustomerReview
		wantField string
		wantErr   bool
	}{
		{
			name: "valid",
			line: "A1\tR1\tKettle\t3\t0\t1\tY\tWorks, but slow",
			want: model.CustomerReview{
				CustomerID: "A1", ReviewID: "R1", ProductTitle: "Kettle",
				StarRating: 3, HelpfulVotes: 0, TotalVotes: 1,
				VerifiedPurchase: true, ReviewHeading: "Works, but slow",
			},
		},
		{
			name: "lowercase no and CRLF",
			line: "A2\tR2\tPan\t5\t4\t5\tn\tGreat\r\n",
			want: model.CustomerReview{
				CustomerID: "A2", ReviewID: "R2", ProductTitle: "Pan",
				StarRating: 5, HelpfulVotes: 4, TotalVotes: 5,
				ReviewHeading: "Great",
			},
		},
		{name: "too few columns", line: "A1\tR1\tKettle\t3", wantErr: true},
		{name: "too many columns", line: "A1\tR1\tKettle\t3\t0\t1\tY\tok\textra", wantErr: true},
		{name: "non-numeric rating", line: "A1\tR1\tKettle\tfive\t0\t1\tY\tok", wantErr: true, wantField: "star_rating"},
		{name: "non-numeric total", line: "A1\tR1\tKettle\t5\t0\t1.5\tY\tok", wantErr: true, wantField: "total_votes"},
		{name: "bad flag", line: "A1\tR1\tKettle\t5\t0\t1\tyes\tok", wantErr: true, wantField: "verified_purchase"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				var perr *errors.ParseError
				require.True(t, stderrors.As(err, &perr))
				assert.Equal(t, tt.wantField, perr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadReviews(t *testing.T) {
	input := "A1\tR1\tKettle\t3\t0\t1\tY\tok\n\n   \nA2\tR2\tPan\t5\t4\t5\tN\tgreat\n"
	reviews, err := ReadReviews(strings.NewReader(input), "inline")
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "A2", reviews[1].CustomerID)
}

func TestReadReviewsReportsLine(t *testing.T) {
	input := "A1\tR1\tKettle\t3\t0\t1\tY\tok\n\nA2\tR2\tPan\t5\tmany\t5\tN\tgreat\n"
	_, err := ReadReviews(strings.NewReader(input), "inline.txt")
	require.Error(t, err)

	var perr *errors.ParseError
	require.True(t, stderrors.As(err, &perr))
	assert.Equal(t, "inline.txt", perr.Source)
	assert.Equal(t, 3, perr.Line)
	assert.Equal(t, "helpful_votes", perr.Field)
	assert.True(t, errors.IsParseError(err))
}

func TestReadFile(t *testing.T) {
	reviews, err := ReadFile("testdata/customer_reviews.txt")
	require.NoError(t, err)
	assert.Len(t, reviews, 6)

	ratings := map[int]int{}
	for _, r := range reviews {
		ratings[r.StarRating]++
	}
	assert.Equal(t, 2, ratings[5])

	_, err = ReadFile("testdata/missing.txt")
	assert.Error(t, err)
	assert.False(t, errors.IsParseError(err))
}

func newStore() *mock.DataStore[model.CustomerReview] {
	return mock.New[model.CustomerReview]().
		WithGetKeyFunc(func(r model.CustomerReview) string { return r.CustomerID })
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	store := newStore()

	stats, err := Load(ctx, store, "testdata/customer_reviews.txt")
	require.NoError(t, err)
	assert.Equal(t, Stats{Parsed: 6, Written: 6}, stats)

	keys := store.PutKeys()
	require.Len(t, keys, 6)
	assert.Equal(t, "A1NX6KNFD1ABC", keys[0], "rows are written in file order")
	assert.Equal(t, "A7ZZP0QLM3RT", keys[5])
}

func TestLoadMalformedWritesNothing(t *testing.T) {
	store := newStore()

	_, err := Load(context.Background(), store, "testdata/malformed.txt")
	require.Error(t, err)

	var perr *errors.ParseError
	require.True(t, stderrors.As(err, &perr))
	assert.Equal(t, 2, perr.Line)
	assert.Equal(t, 0, store.Count())
}

func TestLoadAbsorbsWriteFailures(t *testing.T) {
	store := newStore().WithPutFunc(func(r model.CustomerReview) error {
		if r.StarRating == 5 {
			return stderrors.New("ProvisionedThroughputExceededException")
		}
		return nil
	})

	stats, err := Load(context.Background(), store, "testdata/customer_reviews.txt")
	require.NoError(t, err)
	assert.Equal(t, Stats{Parsed: 6, Written: 4, Failed: 2}, stats)
	assert.Equal(t, 4, store.Count())
}
