package main

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/pteich/configstruct"
	"golang.org/x/sync/errgroup"
	"gopkg.in/cheggaaa/pb.v2"

	"github.com/pteich/elastic-purge/elastic"
	v8 "github.com/pteich/elastic-purge/elastic/v8"
	v9 "github.com/pteich/elastic-purge/elastic/v9"
	"github.com/pteich/elastic-purge/flags"
	"github.com/pteich/elastic-purge/query"
	"github.com/pteich/elastic-purge/report"
)

var Version string

func main() {
	conf := flags.Flags{
		ElasticURL:    "http://localhost:9200",
		ClientVersion: 8,
		Protocol:      6,
		Indices:       "logs-*",
		Timefield:     "Timestamp",
		ScrollSize:    1000,
		KeepAlive:     "1m",
		Wait:          true,
		OutFormat:     flags.FormatCSV,
		Outfile:       "-",
	}

	if err := configstruct.Parse(&conf); err != nil {
		log.Fatalf("Error parsing configuration: %s", err)
	}

	run(context.Background(), &conf)
}

func run(ctx context.Context, conf *flags.Flags) {
	transport, err := createTransport(conf)
	if err != nil {
		log.Fatalf("Error connecting to ElasticSearch: %s", err)
	}

	protocol := elastic.V6
	if conf.Protocol == 2 {
		protocol = elastic.V2
	}

	client := elastic.NewClient(transport, protocol, elastic.SetScrollKeepAlive(conf.KeepAlive))
	esQuery := buildQuery(conf)

	indices := make([]elastic.Index, 0)
	for _, name := range strings.Split(conf.Indices, ",") {
		if name = strings.TrimSpace(name); name != "" {
			indices = append(indices, elastic.Index(name))
		}
	}
	if len(indices) == 0 {
		log.Fatal("No index given")
	}
	docType := elastic.Type(conf.DocType)

	total, err := client.Count(ctx, indices, esQuery)
	if err != nil {
		log.Fatalf("Error counting ElasticSearch documents: %s", err)
	}
	bar := pb.StartNew(int(total))

	var outfile *os.File
	if conf.Outfile == "-" {
		outfile = os.Stdout
	} else {
		outfile, err = os.Create(conf.Outfile)
		if err != nil {
			log.Fatalf("Error creating report file - %s", err)
		}
		defer outfile.Close()
	}

	var output report.Formatter
	switch conf.OutFormat {
	case flags.FormatJSON:
		output = report.JSON{Outfile: outfile, Bar: bar}
	case flags.FormatRAW:
		output = report.Raw{Outfile: outfile, Bar: bar}
	default:
		output = report.CSV{Outfile: outfile, Bar: bar}
	}

	if err := purge(ctx, client, indices, docType, esQuery, conf, output); err != nil {
		log.Printf("Error - %v", err)
	}

	bar.Finish()
}

// purge runs one traversal per index and streams every outcome into the
// report writer. A failing writer cancels the traversals, otherwise producers
// would block forever on a channel nobody drains.
func purge(ctx context.Context, client *elastic.Client, indices []elastic.Index, docType elastic.Type, esQuery elastic.Query, conf *flags.Flags, output report.Formatter) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcomes := make(chan elastic.DeleteOutcome, conf.ScrollSize)
	reportDone := make(chan error, 1)
	go func() {
		err := output.Run(ctx, outcomes)
		if err != nil {
			cancel()
		}
		reportDone <- err
	}()

	// every index gets its own traversal, traversals are independent and may
	// run concurrently
	g, gctx := errgroup.WithContext(ctx)
	for _, index := range indices {
		g.Go(func() error {
			acc, err := client.DeleteAllByQuery(index, docType, esQuery).
				Size(conf.ScrollSize).
				WaitForCompletion(conf.Wait).
				ProceedOnConflicts(conf.Conflicts).
				Refresh(conf.Refresh).
				AutoSlices(conf.Slices).
				OnPage(func(page []elastic.DeleteOutcome) {
					for _, outcome := range page {
						select {
						case outcomes <- outcome:
						case <-gctx.Done():
							return
						}
					}
				}).
				Do(gctx)
			if err != nil {
				return err
			}
			log.Printf("Purged %d documents from %s", acc.Len(), index)
			return nil
		})
	}

	err := g.Wait()
	close(outcomes)
	if reportErr := <-reportDone; reportErr != nil {
		// the traversal error is then just the cancellation ripple
		return reportErr
	}
	return err
}

func buildQuery(conf *flags.Flags) elastic.Query {
	esQuery := query.NewBoolQuery()

	var rangeQuery *query.Range
	if conf.StartDate != "" && conf.EndDate != "" {
		rangeQuery = query.NewRangeQuery(conf.Timefield).Gte(conf.StartDate).Lte(conf.EndDate)
	} else if conf.StartDate != "" {
		rangeQuery = query.NewRangeQuery(conf.Timefield).Gte(conf.StartDate)
	} else if conf.EndDate != "" {
		rangeQuery = query.NewRangeQuery(conf.Timefield).Lte(conf.EndDate)
	}
	if rangeQuery != nil {
		esQuery.Filter(rangeQuery)
	}

	if conf.RAWQuery != "" {
		rawQuery, err := query.NewRawQuery(conf.RAWQuery)
		if err != nil {
			log.Fatalf("Error parsing raw query: %s", err)
		}
		esQuery.Must(rawQuery)
	} else if conf.Query != "" {
		esQuery.Must(query.NewQueryStringQuery(conf.Query))
	} else {
		esQuery.Must(query.NewMatchAllQuery())
	}

	return esQuery
}

func createTransport(conf *flags.Flags) (elastic.Transport, error) {
	tlsCfg := &tls.Config{
		InsecureSkipVerify: !conf.ElasticVerifySSL,
	}

	if conf.ElasticClientCrt != "" && conf.ElasticClientKey != "" {
		cert, err := tls.LoadX509KeyPair(conf.ElasticClientCrt, conf.ElasticClientKey)
		if err != nil {
			return nil, err
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}

	httpClient := &http.Client{Transport: &http.Transport{
		TLSClientConfig: tlsCfg,
	}}

	if conf.ClientVersion == 9 {
		return v9.NewTransport(v9.NewConfig(conf.ElasticURL, conf.ElasticUser, conf.ElasticPass, httpClient))
	}
	return v8.NewTransport(v8.NewConfig(conf.ElasticURL, conf.ElasticUser, conf.ElasticPass, httpClient))
}
