package warehouse

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
)

type tableRef struct {
	project, dataset, table string
}

func (r tableRef) String() string {
	return r.project + "." + r.dataset + "." + r.table
}

// parseTableID splits "project.dataset.table" (or legacy
// "project:dataset.table"). "dataset.table" uses defaultProject.
func parseTableID(id, defaultProject string) (tableRef, error) {
	parts := strings.Split(strings.Replace(id, ":", ".", 1), ".")
	switch {
	case len(parts) == 3 && parts[0] != "" && parts[1] != "" && parts[2] != "":
		return tableRef{project: parts[0], dataset: parts[1], table: parts[2]}, nil
	case len(parts) == 2 && defaultProject != "" && parts[0] != "" && parts[1] != "":
		return tableRef{project: defaultProject, dataset: parts[0], table: parts[1]}, nil
	default:
		return tableRef{}, fmt.Errorf("invalid BigQuery table id %q", id)
	}
}

// BigQuery streams rows into BigQuery tables.
type BigQuery struct {
	project string
	client  *bigquery.Client
	put     func(ctx context.Context, ref tableRef, row bigquery.ValueSaver) error
}

// NewBigQuery creates a client billed to project.
func NewBigQuery(ctx context.Context, project string) (*BigQuery, error) {
	client, err := bigquery.NewClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("bigquery client: %w", err)
	}
	b := &BigQuery{project: project, client: client}
	b.put = b.streamingInsert
	return b, nil
}

func (b *BigQuery) streamingInsert(ctx context.Context, ref tableRef, row bigquery.ValueSaver) error {
	return b.client.DatasetInProject(ref.project, ref.dataset).Table(ref.table).Inserter().Put(ctx, row)
}

// InsertRow streams row into table. Per-row errors reported by the API
// come back as *InsertError.
func (b *BigQuery) InsertRow(ctx context.Context, table string, row map[string]any) error {
	ref, err := parseTableID(table, b.project)
	if err != nil {
		return err
	}

	err = b.put(ctx, ref, valueRow(row))
	if err == nil {
		return nil
	}

	var multi bigquery.PutMultiError
	if errors.As(err, &multi) {
		ie := &InsertError{Table: ref.String()}
		for _, rowErr := range multi {
			for _, e := range rowErr.Errors {
				ie.Errors = append(ie.Errors, e.Error())
			}
		}
		if len(ie.Errors) == 0 {
			ie.Errors = append(ie.Errors, multi.Error())
		}
		return ie
	}
	return fmt.Errorf("bigquery insert into %s: %w", ref, err)
}

// Close releases the underlying client.
func (b *BigQuery) Close() error {
	if b.client == nil {
		return nil
	}
	return b.client.Close()
}

// valueRow saves a decoded JSON object as-is; BigQuery maps nested objects
// and arrays onto RECORD and REPEATED columns.
type valueRow map[string]any

func (r valueRow) Save() (map[string]bigquery.Value, string, error) {
	out := make(map[string]bigquery.Value, len(r))
	for k, v := range r {
		out[k] = v
	}
	// Empty insert id: the client generates one per row.
	return out, "", nil
}
