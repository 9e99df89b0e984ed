/*
Package loader reads customer review sample data and writes it to a table.

The sample format is UTF-8 text with one review per line and eight
tab-separated columns:

	customer_id  review_id  product_title  star_rating  helpful_votes  total_votes  verified_purchase  review_heading

The three count columns are integers and verified_purchase is a Y/N flag.
Parsing is all-or-nothing: the first malformed line aborts the read with an
*errors.ParseError carrying the file, line number and column name.

	stats, err := loader.Load(ctx, store, "testdata/customer_reviews.txt")

Each parsed review is written with one Put, so every line of a loaded file
produces one change record on the table stream. Put failures are logged at
WARNING level and counted in Stats.Failed.
*/
package loader
