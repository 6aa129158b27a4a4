package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// GroupTotal is one group of a ranking. Key keeps the raw group value, nil
// for records where the grouping column is NULL.
type GroupTotal struct {
	Key            *string         `db:"group_key"`
	TotalValor     decimal.Decimal `db:"total_valor"`
	TotalPago      decimal.Decimal `db:"total_pago"`
	TotalLiquidado decimal.Decimal `db:"total_liquidado"`
	Count          int             `db:"count"`
}

// Totals are unsegmented sums over a filtered record set.
type Totals struct {
	TotalValor     decimal.Decimal `db:"total_valor"`
	TotalPago      decimal.Decimal `db:"total_pago"`
	TotalLiquidado decimal.Decimal `db:"total_liquidado"`
	Count          int             `db:"count"`
}

// Summary adds the distinct non-null categorical values to Totals.
type Summary struct {
	Totals
	Autores []string
	Tipos   []string
	Funcoes []string
}

// BreakdownRow is one entry of a secondary, top-N aggregation. Name is
// already collapsed to the display label.
type BreakdownRow struct {
	Name  string          `db:"name"`
	Total decimal.Decimal `db:"total"`
	Count int             `db:"count"`
}

// IngestionHistory represents the 'ingestion_history' table.
type IngestionHistory struct {
	ID              int64     `db:"id" json:"id"`
	SourceFile      string    `db:"source_file" json:"source_file"`
	TriggerType     string    `db:"trigger_type" json:"trigger_type"`
	Status          string    `db:"status" json:"status"`
	RecordsLoaded   int       `db:"records_loaded" json:"records_loaded"`
	DocumentsLoaded int       `db:"documents_loaded" json:"documents_loaded"`
	ErrorMessage    string    `db:"error_message" json:"error_message,omitempty"`
	ProcessedAt     time.Time `db:"processed_at" json:"processed_at"`
}
