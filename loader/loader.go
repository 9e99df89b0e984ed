/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package loader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/juju/loggo"

	"github.com/suparena/ddbstreams/datastore"
	"github.com/suparena/ddbstreams/errors"
	"github.com/suparena/ddbstreams/model"
)

var logger = loggo.GetLogger("ddbstreams.loader")

// Columns of a sample data line, in file order.
var fields = [...]string{
	"customer_id",
	"review_id",
	"product_title",
	"star_rating",
	"helpful_votes",
	"total_votes",
	"verified_purchase",
	"review_heading",
}

const maxLineSize = 1024 * 1024

// Stats summarizes a Load.
type Stats struct {
	Parsed  int
	Written int
	Failed  int
}

// ParseLine parses one tab-separated line with exactly eight columns.
// Failures are *errors.ParseError values with Field set and no source or line.
func ParseLine(line string) (model.CustomerReview, error) {
	cols := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(cols) != len(fields) {
		return model.CustomerReview{}, errors.NewParseError("", 0, "",
			fmt.Errorf("expected %d tab-separated columns, got %d", len(fields), len(cols)))
	}

	var ints [3]int
	for i := range ints {
		col := 3 + i
		n, err := strconv.Atoi(strings.TrimSpace(cols[col]))
		if err != nil {
			return model.CustomerReview{}, errors.NewParseError("", 0, fields[col], err)
		}
		ints[i] = n
	}

	verified, err := model.ParseYesNo(cols[6])
	if err != nil {
		return model.CustomerReview{}, errors.NewParseError("", 0, fields[6], err)
	}

	return model.CustomerReview{
		CustomerID:       cols[0],
		ReviewID:         cols[1],
		ProductTitle:     cols[2],
		StarRating:       ints[0],
		HelpfulVotes:     ints[1],
		TotalVotes:       ints[2],
		VerifiedPurchase: verified,
		ReviewHeading:    cols[7],
	}, nil
}

// ReadReviews parses every line of r. Blank lines are skipped; the first malformed line
// aborts the read with a *errors.ParseError naming source and line.
func ReadReviews(r io.Reader, source string) ([]model.CustomerReview, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var reviews []model.CustomerReview
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		review, err := ParseLine(line)
		if err != nil {
			perr := err.(*errors.ParseError)
			perr.Source = source
			perr.Line = lineNo
			return nil, perr
		}
		reviews = append(reviews, review)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	return reviews, nil
}

// ReadFile parses the sample data file at path.
func ReadFile(path string) ([]model.CustomerReview, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sample data: %w", err)
	}
	defer f.Close()

	return ReadReviews(f, path)
}

// Load parses the whole file and then writes every review through store in file order.
// A parse error aborts before anything is written. Write failures are logged and counted,
// never returned.
func Load(ctx context.Context, store datastore.DataStore[model.CustomerReview], path string) (Stats, error) {
	reviews, err := ReadFile(path)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Parsed: len(reviews)}
	for _, r := range reviews {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := store.Put(ctx, r); err != nil {
			logger.Warningf("failed to write review %s (customer %s): %v", r.ReviewID, r.CustomerID, err)
			stats.Failed++
			continue
		}
		stats.Written++
	}

	logger.Infof("loaded %s: %d parsed, %d written, %d failed", path, stats.Parsed, stats.Written, stats.Failed)
	return stats, nil
}
