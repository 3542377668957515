// Package ingest runs one payload through validate, transform and forward.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/imrishuroy/go-sales-ingest/internal/transform"
	"github.com/imrishuroy/go-sales-ingest/internal/validation"
	"github.com/imrishuroy/go-sales-ingest/internal/warehouse"
)

// Kind classifies how a payload left the pipeline.
type Kind int

const (
	// KindSuccess: validated, enriched and acknowledged by the store.
	KindSuccess Kind = iota
	// KindValidation: the payload was not a conforming JSON document.
	KindValidation
	// KindForwarding: the store failed or rejected the insert.
	KindForwarding
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindValidation:
		return "validation"
	case KindForwarding:
		return "forwarding"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Outcome is the result of Process. Record is set only for KindSuccess;
// Detail is set for the two failure kinds.
type Outcome struct {
	Kind       Kind
	Detail     string
	Record     json.RawMessage
	Enrichment transform.Enrichment
	Err        error
}

// Pipeline holds the per-process collaborators. It keeps no per-request
// state and is safe for concurrent use.
type Pipeline struct {
	validator   *validation.Validator
	transformer *transform.Transformer
	inserter    warehouse.RowInserter
	table       string
}

// New assembles a pipeline forwarding to table through inserter.
func New(v *validation.Validator, t *transform.Transformer, inserter warehouse.RowInserter, table string) *Pipeline {
	return &Pipeline{
		validator:   v,
		transformer: t,
		inserter:    inserter,
		table:       table,
	}
}

// Process handles one request body. It never panics on malformed input;
// every failure is reported through the returned Outcome.
func (p *Pipeline) Process(ctx context.Context, body []byte) Outcome {
	input, err := validation.DecodeJSON(body)
	if err != nil {
		return rejected(err)
	}
	if err := p.validator.Check(input); err != nil {
		return rejected(err)
	}

	enriched, enrichment, err := p.transformer.Transform(body)
	if err != nil {
		return rejected(err)
	}

	var row map[string]any
	if err := json.Unmarshal(enriched, &row); err != nil {
		return rejected(fmt.Errorf("decode enriched record: %w", err))
	}

	if err := p.inserter.InsertRow(ctx, p.table, row); err != nil {
		return Outcome{Kind: KindForwarding, Detail: err.Error(), Err: err}
	}

	return Outcome{
		Kind:       KindSuccess,
		Record:     enriched,
		Enrichment: enrichment,
	}
}

func rejected(err error) Outcome {
	return Outcome{Kind: KindValidation, Detail: err.Error(), Err: err}
}
