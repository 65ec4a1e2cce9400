// Package report streams delete outcomes into files, one writer per output
// format.
package report

import (
	"context"

	"github.com/pteich/elastic-purge/elastic"
)

type Formatter interface {
	Run(context.Context, <-chan elastic.DeleteOutcome) error
}
