package store

import (
	"context"
	"fmt"

	"github.com/farxc/painel-emendas/internal/emenda"
	"github.com/farxc/painel-emendas/internal/query"
	"github.com/jmoiron/sqlx"
)

type DocumentStore struct {
	db *sqlx.DB
}

const documentColumns = `
		id::text AS id,
		emenda_id,
		codigo_documento,
		attributes`

func (ds *DocumentStore) FindByEmenda(ctx context.Context, emendaID string, page query.Page) ([]emenda.Document, error) {
	q := fmt.Sprintf(`
	SELECT %s
	FROM
		documentos_emendas
	WHERE
		emenda_id = $1
	ORDER BY
		id
	LIMIT $2 OFFSET $3;
	`, documentColumns)

	var docs []emenda.Document
	if err := ds.db.SelectContext(ctx, &docs, q, emendaID, page.Limit, page.Offset()); err != nil {
		return nil, fmt.Errorf("failed to query linked documents: %w", err)
	}
	return docs, nil
}

func (ds *DocumentStore) CountByEmenda(ctx context.Context, emendaID string) (int, error) {
	var total int
	err := ds.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM documentos_emendas WHERE emenda_id = $1;`, emendaID)
	if err != nil {
		return 0, fmt.Errorf("failed to count linked documents: %w", err)
	}
	return total, nil
}

func (ds *DocumentStore) Sample(ctx context.Context, n int) ([]emenda.Document, error) {
	q := fmt.Sprintf(`SELECT %s FROM documentos_emendas ORDER BY id LIMIT $1;`, documentColumns)

	var docs []emenda.Document
	if err := ds.db.SelectContext(ctx, &docs, q, n); err != nil {
		return nil, fmt.Errorf("failed to sample linked documents: %w", err)
	}
	return docs, nil
}

// EstimatedCount reads the planner statistics instead of scanning the table.
func (ds *DocumentStore) EstimatedCount(ctx context.Context) (int, error) {
	q := `
	SELECT GREATEST(reltuples, 0)::bigint
	FROM
		pg_class
	WHERE
		relname = 'documentos_emendas';
	`
	var total int
	if err := ds.db.GetContext(ctx, &total, q); err != nil {
		return 0, fmt.Errorf("failed to estimate linked documents count: %w", err)
	}
	return total, nil
}
