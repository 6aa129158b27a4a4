package analytics

import (
	"context"
	"fmt"
	"testing"

	"github.com/farxc/painel-emendas/internal/emenda"
	"github.com/farxc/painel-emendas/internal/query"
	"github.com/farxc/painel-emendas/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetail(t *testing.T) {
	records := []emenda.Record{
		record("X", "Individual", "Saude", "9,00"),
		record("X", "Individual", "Saude", "1.000,00"),
		record("X", "Bancada", "", "300,00"),
		record("X", "Bancada", "Educacao", ""),
		record("Y", "Individual", "Saude", "5.000,00"),
	}
	records[1].ValorPago = emenda.Ptr("400,00")
	e := newEngine(records, nil)

	got, err := e.Detail(context.Background(), DetailQuery{
		Field: emenda.FieldAutor,
		Value: "X",
		Page:  query.Page{Number: 1, Limit: 2},
	})
	require.NoError(t, err)

	require.Len(t, got.Records, 2)
	assert.Equal(t, "1.000,00", *got.Records[0].ValorEmpenhado)
	assert.Equal(t, "300,00", *got.Records[1].ValorEmpenhado)
	assert.Equal(t, query.Pagination{Page: 1, Limit: 2, Total: 4, TotalPages: 2}, got.Pagination)

	assert.Equal(t, 1309.0, got.Summary.TotalValor)
	assert.Equal(t, 400.0, got.Summary.TotalPago)
	assert.Equal(t, []string{"X"}, got.Summary.Autores)
	assert.Equal(t, []string{"Bancada", "Individual"}, got.Summary.Tipos)
	assert.Equal(t, []string{"Educacao", "Saude"}, got.Summary.Funcoes)

	assert.Equal(t, []Breakdown{
		{Name: "Saude", Total: 1009, Count: 2},
		{Name: emenda.Unknown, Total: 300, Count: 1},
		{Name: "Educacao", Total: 0, Count: 1},
	}, got.Breakdowns.ByFuncao)
	assert.Equal(t, []Breakdown{
		{Name: "Individual", Total: 1009, Count: 2},
		{Name: "Bancada", Total: 300, Count: 2},
	}, got.Breakdowns.ByTipo)
}

func TestDetail_ScenarioB(t *testing.T) {
	e := newEngine([]emenda.Record{record("X", "Individual", "Saude", "1,00")}, nil)

	got, err := e.Detail(context.Background(), DetailQuery{
		Field: emenda.FieldAutor,
		Value: "ninguem",
		Page:  query.Page{Number: 1, Limit: 50},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, got.Pagination.Total)
	assert.Equal(t, 0, got.Pagination.TotalPages)
	assert.NotNil(t, got.Records)
	assert.Empty(t, got.Records)
	assert.Zero(t, got.Summary.TotalValor)
	assert.Zero(t, got.Summary.TotalPago)
	assert.Zero(t, got.Summary.TotalLiquidado)
	assert.Empty(t, got.Breakdowns.ByFuncao)
	assert.Empty(t, got.Breakdowns.ByTipo)
	assert.NotNil(t, got.Breakdowns.ByFuncao)
}

func TestDetail_ScenarioC(t *testing.T) {
	e := newEngine([]emenda.Record{
		record("X", "Individual", "Saude", ""),
		record("X", "Individual", "Saude", "10,00"),
	}, nil)

	got, err := e.Detail(context.Background(), DetailQuery{Field: emenda.FieldAutor, Value: "X", Page: query.Page{Number: 1, Limit: 50}})
	require.NoError(t, err)

	assert.Equal(t, 10.0, got.Summary.TotalValor)
	assert.Equal(t, 2, got.Pagination.Total)
	require.Len(t, got.Breakdowns.ByTipo, 1)
	assert.Equal(t, 2, got.Breakdowns.ByTipo[0].Count)
}

func TestDetail_BreakdownsKeepTopTen(t *testing.T) {
	var records []emenda.Record
	for i := 0; i < 14; i++ {
		records = append(records, record("X", fmt.Sprintf("tipo-%02d", i), fmt.Sprintf("funcao-%02d", i), fmt.Sprintf("%d,00", i+1)))
	}
	e := newEngine(records, nil)

	got, err := e.Detail(context.Background(), DetailQuery{Field: emenda.FieldAutor, Value: "X", Page: query.Page{Number: 1, Limit: 50}})
	require.NoError(t, err)

	assert.Len(t, got.Breakdowns.ByFuncao, BreakdownLimit)
	assert.Len(t, got.Breakdowns.ByTipo, BreakdownLimit)
	assert.Equal(t, "funcao-13", got.Breakdowns.ByFuncao[0].Name)
	for i := 1; i < len(got.Breakdowns.ByFuncao); i++ {
		assert.GreaterOrEqual(t, got.Breakdowns.ByFuncao[i-1].Total, got.Breakdowns.ByFuncao[i].Total)
	}
	assert.Equal(t, 14, got.Pagination.Total)
}

func TestDetail_ValueRequired(t *testing.T) {
	f := &failingReader{}
	e := New(f, f)

	_, err := e.Detail(context.Background(), DetailQuery{Field: emenda.FieldAutor, Page: query.Page{Number: 1, Limit: 50}})
	assert.ErrorIs(t, err, ErrValueRequired)
	assert.NotErrorIs(t, err, ErrStorage)
}

type failingFind struct {
	*store.MemoryStore
}

func (failingFind) Find(context.Context, query.Predicate, query.Page) ([]emenda.Record, error) {
	return nil, errBoom
}

func TestDetail_StorageFailure(t *testing.T) {
	mem := store.NewMemoryStore([]emenda.Record{record("X", "Individual", "", "1,00")}, nil)
	e := New(failingFind{mem}, mem)

	got, err := e.Detail(context.Background(), DetailQuery{Field: emenda.FieldTipo, Value: "Individual", Page: query.Page{Number: 1, Limit: 50}})
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, errBoom)
	assert.Nil(t, got.Records)
	assert.Nil(t, got.Breakdowns.ByTipo)
}
