/*
Package query evaluates SQL over in-memory collections of structured values.

A Collection is an ordered list of Struct documents with a shared column set;
nil elements are null values. Collections are bound by name in a Bindings
catalog, which plays the role of a database catalog of tables:

	runner, _ := query.NewRunner()
	defer runner.Close()

	b := query.NewBindings()
	b.Bind("newImages", newImages)
	b.Bind("oldImages", oldImages)

	q, _ := runner.Compile(`SELECT n.customer_id AS id
	    FROM newImages AS n JOIN oldImages AS o ON o.customer_id = n.customer_id
	    WHERE n.star_rating > o.star_rating`)
	result, err := runner.Evaluate(ctx, q, b)

Evaluation uses an embedded SQLite engine (github.com/mattn/go-sqlite3): every
binding becomes a temporary table for the duration of one Evaluate call, so a
collection can appear on both sides of a join.
*/
package query
