package analytics

import (
	"context"

	"github.com/farxc/painel-emendas/internal/currency"
	"github.com/farxc/painel-emendas/internal/emenda"
	"github.com/farxc/painel-emendas/internal/query"
	"github.com/farxc/painel-emendas/internal/store"
	"golang.org/x/sync/errgroup"
)

type DetailQuery struct {
	Field emenda.Field
	Value string
	Page  query.Page
}

type DetailSummary struct {
	TotalValor     float64  `json:"totalValor"`
	TotalPago      float64  `json:"totalPago"`
	TotalLiquidado float64  `json:"totalLiquidado"`
	Autores        []string `json:"autores"`
	Tipos          []string `json:"tipos"`
	Funcoes        []string `json:"funcoes"`
}

type Breakdown struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

type Breakdowns struct {
	ByFuncao []Breakdown `json:"byFuncao"`
	ByTipo   []Breakdown `json:"byTipo"`
}

type Detail struct {
	Records    []emenda.Record  `json:"documents"`
	Pagination query.Pagination `json:"pagination"`
	Summary    DetailSummary    `json:"summary"`
	Breakdowns Breakdowns       `json:"breakdowns"`
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func breakdownsOf(rows []store.BreakdownRow) []Breakdown {
	out := make([]Breakdown, 0, len(rows))
	for _, r := range rows {
		out = append(out, Breakdown{Name: r.Name, Total: currency.Float(r.Total), Count: r.Count})
	}
	return out
}

/*
Detail resolves one entity of a ranking: a page of its raw records sorted by
committed value, the totals over every matching record and the top
BreakdownLimit breakdowns by budget function and by amendment type.

An empty q.Value is rejected with ErrValueRequired before any query runs.
*/
func (e *Engine) Detail(ctx context.Context, q DetailQuery) (Detail, error) {
	if q.Value == "" {
		return Detail{}, ErrValueRequired
	}
	p := query.Equal(q.Field, q.Value)

	var (
		records  []emenda.Record
		total    int
		summary  store.Summary
		byFuncao []store.BreakdownRow
		byTipo   []store.BreakdownRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		records, err = e.amendments.Find(gctx, p, q.Page)
		return
	})
	g.Go(func() (err error) {
		total, err = e.amendments.Count(gctx, p)
		return
	})
	g.Go(func() (err error) {
		summary, err = e.amendments.Summary(gctx, p)
		return
	})
	g.Go(func() (err error) {
		byFuncao, err = e.amendments.Breakdown(gctx, p, emenda.FieldFuncao, BreakdownLimit)
		return
	})
	g.Go(func() (err error) {
		byTipo, err = e.amendments.Breakdown(gctx, p, emenda.FieldTipo, BreakdownLimit)
		return
	})
	if err := g.Wait(); err != nil {
		return Detail{}, storageErr(err)
	}

	if records == nil {
		records = []emenda.Record{}
	}
	return Detail{
		Records:    records,
		Pagination: q.Page.Pagination(total),
		Summary: DetailSummary{
			TotalValor:     currency.Float(summary.TotalValor),
			TotalPago:      currency.Float(summary.TotalPago),
			TotalLiquidado: currency.Float(summary.TotalLiquidado),
			Autores:        nonNil(summary.Autores),
			Tipos:          nonNil(summary.Tipos),
			Funcoes:        nonNil(summary.Funcoes),
		},
		Breakdowns: Breakdowns{
			ByFuncao: breakdownsOf(byFuncao),
			ByTipo:   breakdownsOf(byTipo),
		},
	}, nil
}
