package query

import (
	"strings"

	"github.com/farxc/painel-emendas/internal/emenda"
)

// Criteria are the optional ranking filters. Empty values are ignored.
type Criteria struct {
	Autor  string
	Tipo   string
	Funcao string
	Search string
}

type equality struct {
	field emenda.Field
	value string
}

// Predicate selects amendment records. It can be evaluated row by row with
// Match or pushed down to SQL with Where; both forms select the same rows.
type Predicate struct {
	equals []equality
	search string
}

// Build turns criteria into a predicate. Equality criteria are AND-ed, and
// the free text search is an OR of case-insensitive substring matches over
// author, amendment type and budget function.
func Build(c Criteria) Predicate {
	var p Predicate
	for _, eq := range []equality{
		{emenda.FieldAutor, c.Autor},
		{emenda.FieldTipo, c.Tipo},
		{emenda.FieldFuncao, c.Funcao},
	} {
		if eq.value != "" {
			p.equals = append(p.equals, eq)
		}
	}
	p.search = c.Search
	return p
}

// Equal is the single field lookup used by detail views.
func Equal(field emenda.Field, value string) Predicate {
	return Predicate{equals: []equality{{field, value}}}
}

// IsEmpty reports whether the predicate matches every record.
func (p Predicate) IsEmpty() bool {
	return len(p.equals) == 0 && p.search == ""
}

func (p Predicate) Match(r emenda.Record) bool {
	for _, eq := range p.equals {
		v := eq.field.Of(r)
		if v == nil || *v != eq.value {
			return false
		}
	}
	if p.search == "" {
		return true
	}
	needle := strings.ToLower(p.search)
	for _, f := range emenda.Fields() {
		if v := f.Of(r); v != nil && strings.Contains(strings.ToLower(*v), needle) {
			return true
		}
	}
	return false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Where renders the predicate as a SQL condition with '?' placeholders.
// The empty predicate renders as "TRUE".
func (p Predicate) Where() (string, []any) {
	if p.IsEmpty() {
		return "TRUE", nil
	}

	var (
		conds []string
		args  []any
	)
	for _, eq := range p.equals {
		conds = append(conds, eq.field.Column()+" = ?")
		args = append(args, eq.value)
	}
	if p.search != "" {
		pattern := "%" + likeEscaper.Replace(p.search) + "%"
		var ors []string
		for _, f := range emenda.Fields() {
			ors = append(ors, f.Column()+" ILIKE ?")
			args = append(args, pattern)
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}
	return strings.Join(conds, " AND "), args
}
