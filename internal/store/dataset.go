package store

import (
	"context"
	"fmt"

	"github.com/farxc/painel-emendas/internal/emenda"
	"github.com/jmoiron/sqlx"
)

// batchSize keeps each multi-row INSERT under the Postgres parameter limit.
const batchSize = 1000

type DatasetStore struct {
	db *sqlx.DB
}

/*
Replace swaps the whole dataset in a single transaction. The dataset is
bulk-published by the Portal, so a load always replaces what was there;
readers keep seeing the previous snapshot until commit.
*/
func (ds *DatasetStore) Replace(ctx context.Context, records []emenda.Record, documents []emenda.Document) error {
	tx, err := ds.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `TRUNCATE emendas, documentos_emendas RESTART IDENTITY;`); err != nil {
		return fmt.Errorf("failed to truncate dataset: %w", err)
	}

	insertRecords := `INSERT INTO emendas (
		codigo_emenda,
		nome_autor,
		tipo_emenda,
		funcao,
		subfuncao,
		valor_empenhado,
		valor_pago,
		valor_liquidado,
		attributes
	) VALUES (
		:codigo_emenda,
		:nome_autor,
		:tipo_emenda,
		:funcao,
		:subfuncao,
		:valor_empenhado,
		:valor_pago,
		:valor_liquidado,
		:attributes
	)`

	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))
		if _, err := tx.NamedExecContext(ctx, insertRecords, records[start:end]); err != nil {
			return fmt.Errorf("failed to insert amendments batch at %d: %w", start, err)
		}
	}

	insertDocuments := `INSERT INTO documentos_emendas (
		emenda_id,
		codigo_documento,
		attributes
	) VALUES (
		:emenda_id,
		:codigo_documento,
		:attributes
	)`

	for start := 0; start < len(documents); start += batchSize {
		end := min(start+batchSize, len(documents))
		if _, err := tx.NamedExecContext(ctx, insertDocuments, documents[start:end]); err != nil {
			return fmt.Errorf("failed to insert documents batch at %d: %w", start, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dataset: %w", err)
	}
	return nil
}
