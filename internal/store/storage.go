package store

import (
	"context"

	"github.com/farxc/painel-emendas/internal/emenda"
	"github.com/farxc/painel-emendas/internal/query"
	"github.com/jmoiron/sqlx"
)

// AmendmentReader is the record store the aggregation engine queries.
// Implementations must return the same results for the same data; the
// Postgres store pushes the currency normalizer down into SQL while the
// memory store applies it row by row.
type AmendmentReader interface {
	GroupTotals(ctx context.Context, p query.Predicate, field emenda.Field, page query.Page) ([]GroupTotal, error)
	CountGroups(ctx context.Context, p query.Predicate, field emenda.Field) (int, error)
	GrandTotals(ctx context.Context, p query.Predicate) (Totals, error)
	Summary(ctx context.Context, p query.Predicate) (Summary, error)
	Breakdown(ctx context.Context, p query.Predicate, field emenda.Field, limit int) ([]BreakdownRow, error)
	Find(ctx context.Context, p query.Predicate, page query.Page) ([]emenda.Record, error)
	Count(ctx context.Context, p query.Predicate) (int, error)
	Distinct(ctx context.Context, field emenda.Field) ([]string, error)
}

type DocumentReader interface {
	FindByEmenda(ctx context.Context, emendaID string, page query.Page) ([]emenda.Document, error)
	CountByEmenda(ctx context.Context, emendaID string) (int, error)
	Sample(ctx context.Context, n int) ([]emenda.Document, error)
	EstimatedCount(ctx context.Context) (int, error)
}

type Storage struct {
	Amendments AmendmentReader
	Documents  DocumentReader

	Dataset interface {
		Replace(ctx context.Context, records []emenda.Record, documents []emenda.Document) error
	}

	IngestionHistory interface {
		InsertIngestionHistory(ctx context.Context, history *IngestionHistory) error
		UpdateIngestionStatus(ctx context.Context, history *IngestionHistory) error
		GetLatest(ctx context.Context, limit int) ([]IngestionHistory, error)
	}
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{
		Amendments:       &AmendmentStore{db: db},
		Documents:        &DocumentStore{db: db},
		Dataset:          &DatasetStore{db: db},
		IngestionHistory: &IngestionHistoryStore{db: db},
	}
}

// NewMemoryStorage serves a dataset held in process memory, typically
// decoded straight from the Portal CSV files.
func NewMemoryStorage(records []emenda.Record, documents []emenda.Document) *Storage {
	mem := NewMemoryStore(records, documents)
	return &Storage{
		Amendments:       mem,
		Documents:        mem,
		Dataset:          mem,
		IngestionHistory: &MemoryIngestionHistoryStore{},
	}
}
