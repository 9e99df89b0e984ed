package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/juju/loggo"

	"github.com/suparena/ddbstreams"
	"github.com/suparena/ddbstreams/changestream"
	"github.com/suparena/ddbstreams/config"
	"github.com/suparena/ddbstreams/datastore/ddb"
	"github.com/suparena/ddbstreams/query"
)

var logger = loggo.GetLogger("ddbstreams.cmd")

var defaultQueries = []string{
	`SELECT s.customer_id, s.star_rating FROM ddbstream AS s WHERE s.star_rating = 5`,
	`SELECT o.customer_id, o.star_rating FROM oldImages AS o WHERE o.customer_id IS NOT NULL`,
	`SELECT n.customer_id, o.star_rating AS old_rating, n.star_rating AS new_rating
	   FROM newImages AS n JOIN oldImages AS o ON n.customer_id = o.customer_id
	  WHERE n.star_rating > o.star_rating`,
}

type queryList []string

func (q *queryList) String() string     { return strings.Join(*q, "; ") }
func (q *queryList) Set(v string) error { *q = append(*q, v); return nil }

var (
	versionFlag = flag.Bool("version", false, "Show version information")
	vFlag       = flag.Bool("v", false, "Show version information (short)")
	configPath  = flag.String("config", "", "YAML configuration file")
	loadFiles   = flag.String("load", "", "Comma separated sample data files to load")
	keepTable   = flag.Bool("keep", false, "Keep the table when done")
	queries     queryList
)

func main() {
	flag.Var(&queries, "query", "Query to run against newImages, oldImages and ddbstream (repeatable)")
	flag.Parse()

	if *versionFlag || *vFlag {
		info := ddbstreams.GetVersionInfo()
		fmt.Printf("ddbstreams reviewstream version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "reviewstream: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *keepTable {
		cfg.Table.Keep = true
	}
	if err := loggo.ConfigureLoggers("<root>=" + cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := ddb.NewDynamoDBClient(ctx, cfg.AWS)
	if err != nil {
		return err
	}
	streams, err := changestream.NewStreamsClient(ctx, cfg.AWS)
	if err != nil {
		return err
	}

	session, err := ddbstreams.NewSession(ctx, db, streams, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(context.Background()); err != nil {
			logger.Errorf("failed to close session: %v", err)
		}
	}()

	if *loadFiles != "" {
		stats, err := session.LoadSampleData(ctx, strings.Split(*loadFiles, ",")...)
		if err != nil {
			return err
		}
		logger.Infof("loaded %d reviews (%d failed writes)", stats.Written, stats.Failed)
	}

	newImages, err := session.CollectImages(ctx, changestream.NewImage)
	if err != nil {
		return err
	}
	oldImages, err := session.CollectImages(ctx, changestream.OldImage)
	if err != nil {
		return err
	}

	bindings := query.NewBindings()
	for name, coll := range map[string]query.Collection{
		"newImages": newImages,
		"oldImages": oldImages,
		"ddbstream": newImages,
	} {
		if err := bindings.Bind(name, coll); err != nil {
			return err
		}
	}

	if len(queries) == 0 {
		queries = defaultQueries
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, text := range queries {
		result, err := session.Query(ctx, text, bindings)
		if err != nil {
			return fmt.Errorf("query %q: %w", text, err)
		}
		rows := make([]map[string]any, len(result.Items))
		for i, item := range result.Items {
			rows[i] = item.Map()
		}
		if err := enc.Encode(map[string]any{"query": text, "rows": rows}); err != nil {
			return err
		}
	}

	fives, err := session.ReviewsWithRating(ctx, 5)
	if err != nil {
		return err
	}
	for _, r := range fives {
		fmt.Printf("5 star review in table: %s\n", r.CustomerID)
	}
	return nil
}
