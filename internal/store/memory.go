package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/farxc/painel-emendas/internal/currency"
	"github.com/farxc/painel-emendas/internal/emenda"
	"github.com/farxc/painel-emendas/internal/query"
	"github.com/shopspring/decimal"
)

// MemoryStore evaluates every query row by row over an in-memory snapshot.
// It implements AmendmentReader and DocumentReader with the same ordering
// rules as the Postgres stores.
type MemoryStore struct {
	mu        sync.RWMutex
	records   []emenda.Record
	documents []emenda.Document
}

func NewMemoryStore(records []emenda.Record, documents []emenda.Document) *MemoryStore {
	m := &MemoryStore{}
	m.swap(records, documents)
	return m
}

func (m *MemoryStore) swap(records []emenda.Record, documents []emenda.Document) {
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = strconv.Itoa(i + 1)
		}
	}
	for i := range documents {
		if documents[i].ID == "" {
			documents[i].ID = strconv.Itoa(i + 1)
		}
	}
	m.mu.Lock()
	m.records = records
	m.documents = documents
	m.mu.Unlock()
}

func (m *MemoryStore) Replace(ctx context.Context, records []emenda.Record, documents []emenda.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.swap(records, documents)
	return nil
}

func (m *MemoryStore) filter(ctx context.Context, p query.Predicate) ([]emenda.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]emenda.Record, 0, len(m.records))
	for _, r := range m.records {
		if p.Match(r) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

type groupKey struct {
	present bool
	value   string
}

func keyOf(v *string) groupKey {
	if v == nil {
		return groupKey{}
	}
	return groupKey{present: true, value: *v}
}

// lessKey orders group keys by byte value with NULL last, matching
// COLLATE "C" NULLS LAST.
func lessKey(a, b *string) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return *a < *b
	}
}

func (m *MemoryStore) groups(ctx context.Context, p query.Predicate, field emenda.Field) ([]GroupTotal, error) {
	matched, err := m.filter(ctx, p)
	if err != nil {
		return nil, err
	}

	index := make(map[groupKey]int)
	var groups []GroupTotal
	for _, r := range matched {
		k := keyOf(field.Of(r))
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, GroupTotal{Key: field.Of(r)})
		}
		g := &groups[i]
		g.TotalValor = g.TotalValor.Add(currency.Amount(r.ValorEmpenhado))
		g.TotalPago = g.TotalPago.Add(currency.Amount(r.ValorPago))
		g.TotalLiquidado = g.TotalLiquidado.Add(currency.Amount(r.ValorLiquidado))
		g.Count++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if c := groups[i].TotalValor.Cmp(groups[j].TotalValor); c != 0 {
			return c > 0
		}
		return lessKey(groups[i].Key, groups[j].Key)
	})
	return groups, nil
}

func (m *MemoryStore) GroupTotals(ctx context.Context, p query.Predicate, field emenda.Field, page query.Page) ([]GroupTotal, error) {
	groups, err := m.groups(ctx, p, field)
	if err != nil {
		return nil, err
	}
	start, end := page.Slice(len(groups))
	return groups[start:end], nil
}

func (m *MemoryStore) CountGroups(ctx context.Context, p query.Predicate, field emenda.Field) (int, error) {
	groups, err := m.groups(ctx, p, field)
	if err != nil {
		return 0, err
	}
	return len(groups), nil
}

func totalsOf(records []emenda.Record) Totals {
	var t Totals
	for _, r := range records {
		t.TotalValor = t.TotalValor.Add(currency.Amount(r.ValorEmpenhado))
		t.TotalPago = t.TotalPago.Add(currency.Amount(r.ValorPago))
		t.TotalLiquidado = t.TotalLiquidado.Add(currency.Amount(r.ValorLiquidado))
		t.Count++
	}
	return t
}

func (m *MemoryStore) GrandTotals(ctx context.Context, p query.Predicate) (Totals, error) {
	matched, err := m.filter(ctx, p)
	if err != nil {
		return Totals{}, err
	}
	return totalsOf(matched), nil
}

func distinct(records []emenda.Record, field emenda.Field) []string {
	seen := make(map[string]struct{})
	values := []string{}
	for _, r := range records {
		v := field.Of(r)
		if v == nil {
			continue
		}
		if _, ok := seen[*v]; ok {
			continue
		}
		seen[*v] = struct{}{}
		values = append(values, *v)
	}
	sort.Strings(values)
	return values
}

func (m *MemoryStore) Summary(ctx context.Context, p query.Predicate) (Summary, error) {
	matched, err := m.filter(ctx, p)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Totals:  totalsOf(matched),
		Autores: distinct(matched, emenda.FieldAutor),
		Tipos:   distinct(matched, emenda.FieldTipo),
		Funcoes: distinct(matched, emenda.FieldFuncao),
	}, nil
}

func (m *MemoryStore) Breakdown(ctx context.Context, p query.Predicate, field emenda.Field, limit int) ([]BreakdownRow, error) {
	matched, err := m.filter(ctx, p)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	rows := []BreakdownRow{}
	for _, r := range matched {
		name := emenda.DisplayName(field.Of(r))
		i, ok := index[name]
		if !ok {
			i = len(rows)
			index[name] = i
			rows = append(rows, BreakdownRow{Name: name, Total: decimal.Zero})
		}
		rows[i].Total = rows[i].Total.Add(currency.Amount(r.ValorEmpenhado))
		rows[i].Count++
	}

	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Total.Cmp(rows[j].Total); c != 0 {
			return c > 0
		}
		return rows[i].Name < rows[j].Name
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (m *MemoryStore) Find(ctx context.Context, p query.Predicate, page query.Page) ([]emenda.Record, error) {
	matched, err := m.filter(ctx, p)
	if err != nil {
		return nil, err
	}

	type ranked struct {
		record emenda.Record
		amount decimal.Decimal
	}
	sorted := make([]ranked, len(matched))
	for i, r := range matched {
		sorted[i] = ranked{record: r, amount: currency.Amount(r.ValorEmpenhado)}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].amount.Cmp(sorted[j].amount) > 0
	})

	start, end := page.Slice(len(sorted))
	records := make([]emenda.Record, 0, end-start)
	for _, r := range sorted[start:end] {
		records = append(records, r.record)
	}
	return records, nil
}

func (m *MemoryStore) Count(ctx context.Context, p query.Predicate) (int, error) {
	matched, err := m.filter(ctx, p)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

func (m *MemoryStore) Distinct(ctx context.Context, field emenda.Field) ([]string, error) {
	all, err := m.filter(ctx, query.Predicate{})
	if err != nil {
		return nil, err
	}
	values := distinct(all, field)
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *MemoryStore) documentsOf(ctx context.Context, emendaID string) ([]emenda.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var docs []emenda.Document
	for _, d := range m.documents {
		if d.EmendaID == emendaID {
			docs = append(docs, d)
		}
	}
	return docs, nil
}

func (m *MemoryStore) FindByEmenda(ctx context.Context, emendaID string, page query.Page) ([]emenda.Document, error) {
	docs, err := m.documentsOf(ctx, emendaID)
	if err != nil {
		return nil, err
	}
	start, end := page.Slice(len(docs))
	return docs[start:end], nil
}

func (m *MemoryStore) CountByEmenda(ctx context.Context, emendaID string) (int, error) {
	docs, err := m.documentsOf(ctx, emendaID)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

func (m *MemoryStore) Sample(ctx context.Context, n int) ([]emenda.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	n = min(n, len(m.documents))
	return append([]emenda.Document(nil), m.documents[:n]...), nil
}

func (m *MemoryStore) EstimatedCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.documents), nil
}

// MemoryIngestionHistoryStore backs the ingestion history when no database
// is configured.
type MemoryIngestionHistoryStore struct {
	mu      sync.Mutex
	history []IngestionHistory
}

func (s *MemoryIngestionHistoryStore) InsertIngestionHistory(ctx context.Context, history *IngestionHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	history.ID = int64(len(s.history) + 1)
	s.history = append(s.history, *history)
	return nil
}

func (s *MemoryIngestionHistoryStore) UpdateIngestionStatus(ctx context.Context, history *IngestionHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.history {
		if s.history[i].ID == history.ID {
			s.history[i] = *history
			return nil
		}
	}
	return fmt.Errorf("ingestion history %d not found", history.ID)
}

func (s *MemoryIngestionHistoryStore) GetLatest(ctx context.Context, limit int) ([]IngestionHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []IngestionHistory{}
	for i := len(s.history) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.history[i])
	}
	return out, nil
}
