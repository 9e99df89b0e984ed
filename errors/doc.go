/*
Package errors provides semantic error types for the ddbstreams module.

The package defines the failure classes of a change-stream scan with specific
types that can be checked using the standard errors.Is() function or the
provided helper functions.

Common Errors:

	var (
	    ErrNotFound      = errors.New("entity not found")
	    ErrAlreadyExists = errors.New("entity already exists")
	    ErrInvalidInput  = errors.New("invalid input")
	    ErrConfiguration = errors.New("configuration error")
	    ErrParse         = errors.New("parse error")
	    ErrExhausted     = errors.New("sequence exhausted")
	)

Usage:

	cursors, err := changestream.DiscoverCursors(ctx, streams, arn)
	if errors.IsConfiguration(err) {
	    // the table has no stream, or the stream has no shards
	}

	reviews, err := loader.ReadFile("customer_reviews.txt")
	var perr *errors.ParseError
	if stderrors.As(err, &perr) {
	    log.Printf("bad line %d", perr.Line)
	}

	_, err = it.Next(ctx)
	if errors.IsExhausted(err) {
	    // the iterator already reported the end of the sequence
	}

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
