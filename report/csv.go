package report

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"

	"gopkg.in/cheggaaa/pb.v2"

	"github.com/pteich/elastic-purge/elastic"
)

// CSV writes one line per deleted document: id, result, status.
type CSV struct {
	Outfile *os.File
	Bar     *pb.ProgressBar
}

func (c CSV) Run(ctx context.Context, outcomes <-chan elastic.DeleteOutcome) error {
	w := csv.NewWriter(c.Outfile)

	// csv.Writer buffers, write failures only surface through Error after
	// a flush
	if err := c.write(w, []string{"id", "result", "status"}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case outcome, ok := <-outcomes:
			if !ok {
				w.Flush()
				return w.Error()
			}
			if err := c.write(w, []string{outcome.ID, outcome.Result, strconv.Itoa(outcome.Status)}); err != nil {
				return err
			}
			if c.Bar != nil {
				c.Bar.Increment()
			}
		}
	}
}

func (c CSV) write(w *csv.Writer, record []string) error {
	if err := w.Write(record); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
