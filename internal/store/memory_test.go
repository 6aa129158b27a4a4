package store

import (
	"context"
	"testing"

	"github.com/farxc/painel-emendas/internal/currency"
	"github.com/farxc/painel-emendas/internal/emenda"
	"github.com/farxc/painel-emendas/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amendment(autor, tipo, funcao, empenhado, pago string) emenda.Record {
	r := emenda.Record{}
	if autor != "" {
		r.NomeAutor = emenda.Ptr(autor)
	}
	if tipo != "" {
		r.TipoEmenda = emenda.Ptr(tipo)
	}
	if funcao != "" {
		r.Funcao = emenda.Ptr(funcao)
	}
	if empenhado != "" {
		r.ValorEmpenhado = emenda.Ptr(empenhado)
	}
	if pago != "" {
		r.ValorPago = emenda.Ptr(pago)
	}
	return r
}

func fixture() []emenda.Record {
	return []emenda.Record{
		amendment("X", "Individual", "Saude", "1.000,00", "100,00"),
		amendment("X", "Individual", "Educacao", "500,50", ""),
		amendment("Y", "Bancada", "Saude", "2.000,00", "2.000,00"),
		amendment("", "Bancada", "", "300,00", "lixo"),
		amendment("Z", "Comissao", "", "", ""),
	}
}

func TestMemoryStore_GroupTotals(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(fixture(), nil)

	groups, err := m.GroupTotals(ctx, query.Predicate{}, emenda.FieldAutor, query.Page{Number: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, groups, 4)

	assert.Equal(t, "Y", *groups[0].Key)
	assert.Equal(t, 2000.0, currency.Float(groups[0].TotalValor))
	assert.Equal(t, "X", *groups[1].Key)
	assert.Equal(t, 1500.5, currency.Float(groups[1].TotalValor))
	assert.Equal(t, 100.0, currency.Float(groups[1].TotalPago))
	assert.Equal(t, 2, groups[1].Count)
	assert.Nil(t, groups[2].Key, "missing author is its own group")
	assert.Equal(t, 300.0, currency.Float(groups[2].TotalValor))
	assert.Equal(t, "Z", *groups[3].Key)
	assert.Equal(t, 0.0, currency.Float(groups[3].TotalValor))
	assert.Equal(t, 1, groups[3].Count)

	total, err := m.CountGroups(ctx, query.Predicate{}, emenda.FieldAutor)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
}

func TestMemoryStore_GroupTotalsPaging(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(fixture(), nil)

	page2, err := m.GroupTotals(ctx, query.Predicate{}, emenda.FieldAutor, query.Page{Number: 2, Limit: 3})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "Z", *page2[0].Key)

	beyond, err := m.GroupTotals(ctx, query.Predicate{}, emenda.FieldAutor, query.Page{Number: 5, Limit: 3})
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestMemoryStore_GrandTotalsMatchManualSum(t *testing.T) {
	ctx := context.Background()
	records := fixture()
	m := NewMemoryStore(records, nil)
	p := query.Build(query.Criteria{Tipo: "Bancada"})

	totals, err := m.GrandTotals(ctx, p)
	require.NoError(t, err)

	var want float64
	count := 0
	for _, r := range records {
		if p.Match(r) {
			want += currency.ParseValue(r.ValorEmpenhado)
			count++
		}
	}
	assert.InDelta(t, want, currency.Float(totals.TotalValor), 1e-9)
	assert.Equal(t, count, totals.Count)
	assert.Equal(t, 2000.0, currency.Float(totals.TotalPago))
}

func TestMemoryStore_Summary(t *testing.T) {
	m := NewMemoryStore(fixture(), nil)

	summary, err := m.Summary(context.Background(), query.Equal(emenda.FieldTipo, "Bancada"))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, 2300.0, currency.Float(summary.TotalValor))
	assert.Equal(t, []string{"Y"}, summary.Autores)
	assert.Equal(t, []string{"Bancada"}, summary.Tipos)
	assert.Equal(t, []string{"Saude"}, summary.Funcoes)
}

func TestMemoryStore_SummaryNoMatches(t *testing.T) {
	m := NewMemoryStore(fixture(), nil)

	summary, err := m.Summary(context.Background(), query.Equal(emenda.FieldAutor, "ninguem"))
	require.NoError(t, err)

	assert.Zero(t, summary.Count)
	assert.True(t, summary.TotalValor.IsZero())
	assert.Empty(t, summary.Autores)
}

func TestMemoryStore_BreakdownCollapsesMissingKeys(t *testing.T) {
	records := append(fixture(), amendment("W", "Individual", "", "10,00", ""))
	records[len(records)-1].Funcao = emenda.Ptr("")
	m := NewMemoryStore(records, nil)

	rows, err := m.Breakdown(context.Background(), query.Predicate{}, emenda.FieldFuncao, 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Saude", rows[0].Name)
	assert.Equal(t, 3000.0, currency.Float(rows[0].Total))
	assert.Equal(t, "Educacao", rows[1].Name)
	assert.Equal(t, emenda.Unknown, rows[2].Name)
	assert.Equal(t, 3, rows[2].Count, "null and empty functions share one row")
}

func TestMemoryStore_BreakdownTruncates(t *testing.T) {
	var records []emenda.Record
	for i := 0; i < 15; i++ {
		records = append(records, amendment("A", string(rune('a'+i)), "", "1,00", ""))
	}
	m := NewMemoryStore(records, nil)

	rows, err := m.Breakdown(context.Background(), query.Predicate{}, emenda.FieldTipo, 10)
	require.NoError(t, err)
	require.Len(t, rows, 10)
	for i, row := range rows {
		assert.Equal(t, string(rune('a'+i)), row.Name, "equal totals are ordered by name")
	}
}

func TestMemoryStore_ByteOrderCollation(t *testing.T) {
	records := []emenda.Record{
		amendment("agua", "", "", "1,00", ""),
		amendment("Zeta", "", "", "1,00", ""),
		amendment("Élan", "", "", "1,00", ""),
	}
	m := NewMemoryStore(records, nil)
	ctx := context.Background()

	values, err := m.Distinct(ctx, emenda.FieldAutor)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zeta", "agua", "Élan"}, values)

	summary, err := m.Summary(ctx, query.Predicate{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Zeta", "agua", "Élan"}, summary.Autores)

	rows, err := m.Breakdown(ctx, query.Predicate{}, emenda.FieldAutor, 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Zeta", rows[0].Name)
	assert.Equal(t, "Élan", rows[2].Name)
}

func TestMemoryStore_FindSortsByNormalizedValue(t *testing.T) {
	records := []emenda.Record{
		amendment("A", "", "", "9,00", ""),
		amendment("A", "", "", "10.000,00", ""),
		amendment("A", "", "", "", ""),
		amendment("A", "", "", "100,00", ""),
	}
	m := NewMemoryStore(records, nil)
	p := query.Equal(emenda.FieldAutor, "A")

	found, err := m.Find(context.Background(), p, query.Page{Number: 1, Limit: 3})
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, "10.000,00", *found[0].ValorEmpenhado)
	assert.Equal(t, "100,00", *found[1].ValorEmpenhado)
	assert.Equal(t, "9,00", *found[2].ValorEmpenhado)

	total, err := m.Count(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
}

func TestMemoryStore_Distinct(t *testing.T) {
	records := append(fixture(), amendment("", "", "", "", ""))
	records[len(records)-1].NomeAutor = emenda.Ptr("")
	m := NewMemoryStore(records, nil)

	autores, err := m.Distinct(context.Background(), emenda.FieldAutor)
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y", "Z"}, autores)
}

func TestMemoryStore_Documents(t *testing.T) {
	docs := []emenda.Document{
		{EmendaID: "E1", CodigoDocumento: emenda.Ptr("D1")},
		{EmendaID: "E2"},
		{EmendaID: "E1", CodigoDocumento: emenda.Ptr("D2")},
	}
	m := NewMemoryStore(nil, docs)
	ctx := context.Background()

	found, err := m.FindByEmenda(ctx, "E1", query.Page{Number: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "D1", *found[0].CodigoDocumento)
	assert.Equal(t, "1", found[0].ID)

	total, err := m.CountByEmenda(ctx, "E1")
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	sample, err := m.Sample(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, sample, 3)

	estimated, err := m.EstimatedCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, estimated)
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	m := NewMemoryStore(fixture(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.GrandTotals(ctx, query.Predicate{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryIngestionHistoryStore(t *testing.T) {
	s := &MemoryIngestionHistoryStore{}
	ctx := context.Background()

	first := &IngestionHistory{SourceFile: "a.zip", Status: StatusInProgress}
	second := &IngestionHistory{SourceFile: "b.zip", Status: StatusInProgress}
	require.NoError(t, s.InsertIngestionHistory(ctx, first))
	require.NoError(t, s.InsertIngestionHistory(ctx, second))

	first.Status = StatusSuccess
	require.NoError(t, s.UpdateIngestionStatus(ctx, first))
	assert.Error(t, s.UpdateIngestionStatus(ctx, &IngestionHistory{ID: 99}))

	latest, err := s.GetLatest(ctx, 10)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "b.zip", latest[0].SourceFile)
	assert.Equal(t, StatusSuccess, latest[1].Status)
}
