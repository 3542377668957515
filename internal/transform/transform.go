// Package transform derives the computed fields of an ingested transaction.
package transform

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// TaxRate is the flat tax applied to total_amount.
const TaxRate = 0.10

// ProcessedAtLayout formats processed_at: UTC, microseconds, literal Z.
const ProcessedAtLayout = "2006-01-02T15:04:05.000000Z"

var taxRate = decimal.NewFromFloat(TaxRate)

// Enrichment holds the fields added to a validated record.
type Enrichment struct {
	ProcessedAt string  `json:"processed_at"`
	TaxAmount   float64 `json:"tax_amount"`
	FinalAmount float64 `json:"final_amount"`
}

// Transformer enriches validated records.
type Transformer struct {
	nowFunc func() time.Time
}

// New returns a Transformer stamping records with the wall clock.
func New() *Transformer {
	return &Transformer{nowFunc: time.Now}
}

// NewWithClock returns a Transformer using now for processed_at.
func NewWithClock(now func() time.Time) *Transformer {
	return &Transformer{nowFunc: now}
}

// Transform returns a copy of record with processed_at, tax_amount and
// final_amount set. The original bytes are kept as-is, so no field is dropped
// or moved: new keys are appended and keys already present are overwritten in
// place. record must already have passed validation.
func (t *Transformer) Transform(record []byte) ([]byte, Enrichment, error) {
	if !gjson.ValidBytes(record) {
		return nil, Enrichment{}, errors.New("record is not valid JSON")
	}
	total := gjson.GetBytes(record, "total_amount")
	if total.Type != gjson.Number {
		return nil, Enrichment{}, fmt.Errorf("total_amount is %s, want number", total.Type)
	}
	// Parse the literal text rather than the float so 0.15 stays 0.15.
	amount, err := decimal.NewFromString(total.Raw)
	if err != nil {
		return nil, Enrichment{}, fmt.Errorf("parse total_amount: %w", err)
	}

	tax, final := Amounts(amount)
	processedAt := t.nowFunc().UTC().Format(ProcessedAtLayout)

	out, err := sjson.SetBytes(record, "processed_at", processedAt)
	if err != nil {
		return nil, Enrichment{}, fmt.Errorf("set processed_at: %w", err)
	}
	out, err = sjson.SetRawBytes(out, "tax_amount", []byte(tax.String()))
	if err != nil {
		return nil, Enrichment{}, fmt.Errorf("set tax_amount: %w", err)
	}
	out, err = sjson.SetRawBytes(out, "final_amount", []byte(final.String()))
	if err != nil {
		return nil, Enrichment{}, fmt.Errorf("set final_amount: %w", err)
	}

	taxF, _ := tax.Float64()
	finalF, _ := final.Float64()
	return out, Enrichment{
		ProcessedAt: processedAt,
		TaxAmount:   taxF,
		FinalAmount: finalF,
	}, nil
}

// Amounts computes tax and final amounts in decimal, each rounded to cents
// with ties away from zero (2.675 -> 2.68).
func Amounts(total decimal.Decimal) (tax, final decimal.Decimal) {
	tax = total.Mul(taxRate).Round(2)
	final = total.Add(tax).Round(2)
	return tax, final
}
