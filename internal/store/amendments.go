package store

import (
	"context"
	"fmt"

	"github.com/farxc/painel-emendas/internal/currency"
	"github.com/farxc/painel-emendas/internal/emenda"
	"github.com/farxc/painel-emendas/internal/query"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type AmendmentStore struct {
	db *sqlx.DB
}

var (
	valorEmpenhado = currency.SQL("valor_empenhado")
	valorPago      = currency.SQL("valor_pago")
	valorLiquidado = currency.SQL("valor_liquidado")
)

const recordColumns = `
		id::text AS id,
		codigo_emenda,
		nome_autor,
		tipo_emenda,
		funcao,
		subfuncao,
		valor_empenhado,
		valor_pago,
		valor_liquidado,
		attributes`

/*
Groups the filtered amendments by the given field and returns one page of
groups ordered by committed value. NULL group values form their own group.
*/
func (as *AmendmentStore) GroupTotals(ctx context.Context, p query.Predicate, field emenda.Field, page query.Page) ([]GroupTotal, error) {
	where, args := p.Where()
	q := fmt.Sprintf(`
	SELECT
		%[1]s AS group_key,
		COALESCE(SUM(%[2]s), 0) AS total_valor,
		COALESCE(SUM(%[3]s), 0) AS total_pago,
		COALESCE(SUM(%[4]s), 0) AS total_liquidado,
		COUNT(*) AS count
	FROM
		emendas
	WHERE
		%[5]s
	GROUP BY
		%[1]s
	ORDER BY
		total_valor DESC,
		%[1]s COLLATE "C" NULLS LAST
	LIMIT ? OFFSET ?;
	`, field.Column(), valorEmpenhado, valorPago, valorLiquidado, where)
	args = append(args, page.Limit, page.Offset())

	var rows []GroupTotal
	if err := as.db.SelectContext(ctx, &rows, as.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("failed to query group totals: %w", err)
	}
	return rows, nil
}

func (as *AmendmentStore) CountGroups(ctx context.Context, p query.Predicate, field emenda.Field) (int, error) {
	where, args := p.Where()
	q := fmt.Sprintf(`
	SELECT COUNT(*) FROM (
		SELECT 1 FROM emendas WHERE %s GROUP BY %s
	) AS groups;
	`, where, field.Column())

	var total int
	if err := as.db.GetContext(ctx, &total, as.db.Rebind(q), args...); err != nil {
		return 0, fmt.Errorf("failed to count groups: %w", err)
	}
	return total, nil
}

func (as *AmendmentStore) GrandTotals(ctx context.Context, p query.Predicate) (Totals, error) {
	where, args := p.Where()
	q := fmt.Sprintf(`
	SELECT
		COALESCE(SUM(%s), 0) AS total_valor,
		COALESCE(SUM(%s), 0) AS total_pago,
		COALESCE(SUM(%s), 0) AS total_liquidado,
		COUNT(*) AS count
	FROM
		emendas
	WHERE
		%s;
	`, valorEmpenhado, valorPago, valorLiquidado, where)

	var totals Totals
	if err := as.db.GetContext(ctx, &totals, as.db.Rebind(q), args...); err != nil {
		return Totals{}, fmt.Errorf("failed to query grand totals: %w", err)
	}
	return totals, nil
}

type summaryRow struct {
	Totals
	Autores pq.StringArray `db:"autores"`
	Tipos   pq.StringArray `db:"tipos"`
	Funcoes pq.StringArray `db:"funcoes"`
}

func (as *AmendmentStore) Summary(ctx context.Context, p query.Predicate) (Summary, error) {
	where, args := p.Where()
	q := fmt.Sprintf(`
	SELECT
		COALESCE(SUM(%s), 0) AS total_valor,
		COALESCE(SUM(%s), 0) AS total_pago,
		COALESCE(SUM(%s), 0) AS total_liquidado,
		COUNT(*) AS count,
		COALESCE(ARRAY_AGG(DISTINCT nome_autor COLLATE "C" ORDER BY nome_autor COLLATE "C") FILTER (WHERE nome_autor IS NOT NULL), '{}') AS autores,
		COALESCE(ARRAY_AGG(DISTINCT tipo_emenda COLLATE "C" ORDER BY tipo_emenda COLLATE "C") FILTER (WHERE tipo_emenda IS NOT NULL), '{}') AS tipos,
		COALESCE(ARRAY_AGG(DISTINCT funcao COLLATE "C" ORDER BY funcao COLLATE "C") FILTER (WHERE funcao IS NOT NULL), '{}') AS funcoes
	FROM
		emendas
	WHERE
		%s;
	`, valorEmpenhado, valorPago, valorLiquidado, where)

	var row summaryRow
	if err := as.db.GetContext(ctx, &row, as.db.Rebind(q), args...); err != nil {
		return Summary{}, fmt.Errorf("failed to query detail summary: %w", err)
	}
	return Summary{
		Totals:  row.Totals,
		Autores: []string(row.Autores),
		Tipos:   []string(row.Tipos),
		Funcoes: []string(row.Funcoes),
	}, nil
}

/*
Breakdown groups the filtered amendments by a secondary field. Unlike
GroupTotals, NULL and empty keys are collapsed to the display label before
grouping, so they always form a single row. Ties are broken by name in byte
order.
*/
func (as *AmendmentStore) Breakdown(ctx context.Context, p query.Predicate, field emenda.Field, limit int) ([]BreakdownRow, error) {
	where, whereArgs := p.Where()
	q := fmt.Sprintf(`
	SELECT
		COALESCE(NULLIF(%s, ''), ?) COLLATE "C" AS name,
		COALESCE(SUM(%s), 0) AS total,
		COUNT(*) AS count
	FROM
		emendas
	WHERE
		%s
	GROUP BY
		1
	ORDER BY
		total DESC,
		name
	LIMIT ?;
	`, field.Column(), valorEmpenhado, where)

	args := append([]any{emenda.Unknown}, whereArgs...)
	args = append(args, limit)

	var rows []BreakdownRow
	if err := as.db.SelectContext(ctx, &rows, as.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("failed to query breakdown by %s: %w", field, err)
	}
	return rows, nil
}

// Find returns one page of raw records ordered by the normalized committed
// value; the stored text does not sort numerically.
func (as *AmendmentStore) Find(ctx context.Context, p query.Predicate, page query.Page) ([]emenda.Record, error) {
	where, args := p.Where()
	q := fmt.Sprintf(`
	SELECT %s
	FROM
		emendas
	WHERE
		%s
	ORDER BY
		%s DESC, emendas.id
	LIMIT ? OFFSET ?;
	`, recordColumns, where, valorEmpenhado)
	args = append(args, page.Limit, page.Offset())

	var records []emenda.Record
	if err := as.db.SelectContext(ctx, &records, as.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("failed to query amendments: %w", err)
	}
	return records, nil
}

func (as *AmendmentStore) Count(ctx context.Context, p query.Predicate) (int, error) {
	where, args := p.Where()
	q := fmt.Sprintf(`SELECT COUNT(*) FROM emendas WHERE %s;`, where)

	var total int
	if err := as.db.GetContext(ctx, &total, as.db.Rebind(q), args...); err != nil {
		return 0, fmt.Errorf("failed to count amendments: %w", err)
	}
	return total, nil
}

func (as *AmendmentStore) Distinct(ctx context.Context, field emenda.Field) ([]string, error) {
	q := fmt.Sprintf(`
	SELECT DISTINCT %[1]s COLLATE "C" AS %[1]s
	FROM
		emendas
	WHERE
		%[1]s IS NOT NULL AND %[1]s <> ''
	ORDER BY
		1;
	`, field.Column())

	var values []string
	if err := as.db.SelectContext(ctx, &values, q); err != nil {
		return nil, fmt.Errorf("failed to list distinct %s: %w", field, err)
	}
	return values, nil
}
