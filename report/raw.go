package report

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/cheggaaa/pb.v2"

	"github.com/pteich/elastic-purge/elastic"
)

// Raw writes plain document ids, one per line.
type Raw struct {
	Outfile *os.File
	Bar     *pb.ProgressBar
}

func (r Raw) Run(ctx context.Context, outcomes <-chan elastic.DeleteOutcome) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case outcome, ok := <-outcomes:
			if !ok {
				return nil
			}
			if _, err := fmt.Fprintln(r.Outfile, outcome.ID); err != nil {
				return err
			}
			if r.Bar != nil {
				r.Bar.Increment()
			}
		}
	}
}
