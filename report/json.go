package report

import (
	"context"
	"encoding/json"
	"os"

	"gopkg.in/cheggaaa/pb.v2"

	"github.com/pteich/elastic-purge/elastic"
)

// JSON writes one JSON object per line for every outcome.
type JSON struct {
	Outfile *os.File
	Bar     *pb.ProgressBar
}

type jsonOutcome struct {
	ID     string `json:"id"`
	Result string `json:"result"`
	Status int    `json:"status"`
}

func (j JSON) Run(ctx context.Context, outcomes <-chan elastic.DeleteOutcome) error {
	enc := json.NewEncoder(j.Outfile)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case outcome, ok := <-outcomes:
			if !ok {
				return nil
			}
			if err := enc.Encode(jsonOutcome{ID: outcome.ID, Result: outcome.Result, Status: outcome.Status}); err != nil {
				return err
			}
			if j.Bar != nil {
				j.Bar.Increment()
			}
		}
	}
}
