package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type IngestionHistoryStore struct {
	db *sqlx.DB
}

var (
	TriggerTypeManual    = "manual"
	TriggerTypeScheduled = "scheduled"
)

var (
	StatusInProgress = "in_progress"
	StatusSuccess    = "success"
	StatusFailure    = "failure"
)

func (ih *IngestionHistoryStore) InsertIngestionHistory(ctx context.Context, history *IngestionHistory) error {
	query := `INSERT INTO ingestion_history (
		source_file,
		trigger_type,
		status,
		records_loaded,
		documents_loaded,
		error_message
	) VALUES (
		:source_file,
		:trigger_type,
		:status,
		:records_loaded,
		:documents_loaded,
		:error_message
	) RETURNING id, processed_at`

	rows, err := ih.db.NamedQueryContext(ctx, query, history)
	if err != nil {
		return fmt.Errorf("failed to insert ingestion history: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&history.ID, &history.ProcessedAt); err != nil {
			return fmt.Errorf("failed to scan ingestion history: %w", err)
		}
	}
	return rows.Err()
}

func (ih *IngestionHistoryStore) UpdateIngestionStatus(ctx context.Context, history *IngestionHistory) error {
	query := `UPDATE ingestion_history SET
		status = :status,
		records_loaded = :records_loaded,
		documents_loaded = :documents_loaded,
		error_message = :error_message,
		processed_at = NOW()
	WHERE id = :id`

	result, err := ih.db.NamedExecContext(ctx, query, history)
	if err != nil {
		return fmt.Errorf("failed to update ingestion history %d: %w", history.ID, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("ingestion history %d not found", history.ID)
	}
	return nil
}

func (ih *IngestionHistoryStore) GetLatest(ctx context.Context, limit int) ([]IngestionHistory, error) {
	query := `
	SELECT
		id,
		source_file,
		trigger_type,
		status,
		records_loaded,
		documents_loaded,
		error_message,
		processed_at
	FROM
		ingestion_history
	ORDER BY
		processed_at DESC
	LIMIT $1;
	`
	var history []IngestionHistory
	if err := ih.db.SelectContext(ctx, &history, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query ingestion history: %w", err)
	}
	return history, nil
}
