package analytics

import (
	"context"
	"errors"
	"fmt"

	"github.com/farxc/painel-emendas/internal/currency"
	"github.com/farxc/painel-emendas/internal/emenda"
	"github.com/farxc/painel-emendas/internal/query"
	"github.com/farxc/painel-emendas/internal/store"
	"golang.org/x/sync/errgroup"
)

// BreakdownLimit is the number of groups kept in each detail breakdown.
const BreakdownLimit = 10

var (
	// ErrStorage is returned for any failing storage query. The cause is
	// wrapped for logging but callers must not expose it.
	ErrStorage = errors.New("storage query failed")

	ErrValueRequired    = errors.New("value is required")
	ErrEmendaIDRequired = errors.New("emenda_id is required")
)

// Engine answers the dashboard queries on top of the storage readers.
type Engine struct {
	amendments store.AmendmentReader
	documents  store.DocumentReader
}

func New(amendments store.AmendmentReader, documents store.DocumentReader) *Engine {
	return &Engine{amendments: amendments, documents: documents}
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

type RankQuery struct {
	Criteria query.Criteria
	GroupBy  emenda.Field
	Page     query.Page
}

type RankingRow struct {
	Rank           int     `json:"rank"`
	Name           string  `json:"name"`
	TotalValor     float64 `json:"totalValor"`
	TotalPago      float64 `json:"totalPago"`
	TotalLiquidado float64 `json:"totalLiquidado"`
	Count          int     `json:"count"`
}

type RankingSummary struct {
	TotalValor      float64 `json:"totalValor"`
	TotalPago       float64 `json:"totalPago"`
	TotalDocumentos int     `json:"totalDocumentos"`
}

type Ranking struct {
	Rows       []RankingRow     `json:"rows"`
	Pagination query.Pagination `json:"pagination"`
	Summary    RankingSummary   `json:"summary"`
}

/*
Rank groups the records matching q.Criteria by q.GroupBy and returns one
page of groups ordered by committed value, together with the number of
groups and the grand totals of the filtered set.

Groups are formed on the raw value; a missing value is its own group and is
only displayed as emenda.Unknown.
*/
func (e *Engine) Rank(ctx context.Context, q RankQuery) (Ranking, error) {
	p := query.Build(q.Criteria)

	var (
		groups []store.GroupTotal
		total  int
		totals store.Totals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		groups, err = e.amendments.GroupTotals(gctx, p, q.GroupBy, q.Page)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = e.amendments.CountGroups(gctx, p, q.GroupBy)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = e.amendments.GrandTotals(gctx, p)
		return err
	})
	if err := g.Wait(); err != nil {
		return Ranking{}, storageErr(err)
	}

	rows := make([]RankingRow, 0, len(groups))
	for i, group := range groups {
		rows = append(rows, RankingRow{
			Rank:           q.Page.Rank(i),
			Name:           emenda.DisplayName(group.Key),
			TotalValor:     currency.Float(group.TotalValor),
			TotalPago:      currency.Float(group.TotalPago),
			TotalLiquidado: currency.Float(group.TotalLiquidado),
			Count:          group.Count,
		})
	}

	return Ranking{
		Rows:       rows,
		Pagination: q.Page.Pagination(total),
		Summary: RankingSummary{
			TotalValor:      currency.Float(totals.TotalValor),
			TotalPago:       currency.Float(totals.TotalPago),
			TotalDocumentos: totals.Count,
		},
	}, nil
}

// Filters lists the values offered by the dashboard filter controls.
type Filters struct {
	Autores []string `json:"autores"`
	Tipos   []string `json:"tipos"`
	Funcoes []string `json:"funcoes"`
}

func (e *Engine) Filters(ctx context.Context) (Filters, error) {
	var f Filters
	g, gctx := errgroup.WithContext(ctx)
	for field, dst := range map[emenda.Field]*[]string{
		emenda.FieldAutor:  &f.Autores,
		emenda.FieldTipo:   &f.Tipos,
		emenda.FieldFuncao: &f.Funcoes,
	} {
		g.Go(func() error {
			values, err := e.amendments.Distinct(gctx, field)
			if err != nil {
				return err
			}
			if values == nil {
				values = []string{}
			}
			*dst = values
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Filters{}, storageErr(err)
	}
	return f, nil
}
