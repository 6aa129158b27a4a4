package dataset

import (
	"strings"
	"unicode"

	"github.com/farxc/painel-emendas/internal/emenda"
	"github.com/go-gota/gota/dataframe"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Portal column headers.
const (
	colCodigoEmenda    = "Código da Emenda"
	colNomeAutor       = "Nome do Autor da Emenda"
	colTipoEmenda      = "Tipo de Emenda"
	colFuncao          = "Nome Função"
	colSubfuncao       = "Nome Subfunção"
	colValorEmpenhado  = "Valor Empenhado"
	colValorPago       = "Valor Pago"
	colValorLiquidado  = "Valor Liquidado"
	colCodigoDocumento = "Código do Documento"
)

var recordColumns = map[string]func(*emenda.Record) **string{
	colCodigoEmenda:   func(r *emenda.Record) **string { return &r.CodigoEmenda },
	colNomeAutor:      func(r *emenda.Record) **string { return &r.NomeAutor },
	colTipoEmenda:     func(r *emenda.Record) **string { return &r.TipoEmenda },
	colFuncao:         func(r *emenda.Record) **string { return &r.Funcao },
	colSubfuncao:      func(r *emenda.Record) **string { return &r.Subfuncao },
	colValorEmpenhado: func(r *emenda.Record) **string { return &r.ValorEmpenhado },
	colValorPago:      func(r *emenda.Record) **string { return &r.ValorPago },
	colValorLiquidado: func(r *emenda.Record) **string { return &r.ValorLiquidado },
}

// attributeAliases keeps the short names the dashboard displays.
var attributeAliases = map[string]string{
	"Localidade de aplicação do recurso": "localidade",
	"Nome Ação":                          "acao",
}

var stopWords = map[string]bool{"da": true, "de": true, "do": true, "das": true, "dos": true, "e": true}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// AttributeKey turns a CSV header into a camelCase attribute name, e.g.
// "Ano da Emenda" becomes "anoEmenda".
func AttributeKey(header string) string {
	if alias, ok := attributeAliases[header]; ok {
		return alias
	}
	words := strings.FieldsFunc(stripAccents(header), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var b strings.Builder
	for _, w := range words {
		w = strings.ToLower(w)
		if stopWords[w] {
			continue
		}
		if b.Len() == 0 {
			b.WriteString(w)
			continue
		}
		b.WriteString(strings.ToUpper(w[:1]) + w[1:])
	}
	return b.String()
}

// cells yields the non-empty values of one row by header.
func cells(df dataframe.DataFrame, names []string, row int, fn func(header, value string)) {
	for _, name := range names {
		e := df.Col(name).Elem(row)
		if e.IsNA() {
			continue
		}
		v := strings.TrimSpace(e.String())
		if v == "" {
			continue
		}
		fn(name, v)
	}
}

// Records converts an amendments dataframe. Empty cells are left absent and
// unknown columns become display attributes.
func Records(df dataframe.DataFrame) []emenda.Record {
	names := df.Names()
	records := make([]emenda.Record, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		r := emenda.Record{Attributes: emenda.Attributes{}}
		cells(df, names, i, func(header, value string) {
			if field, ok := recordColumns[header]; ok {
				*field(&r) = emenda.Ptr(value)
				return
			}
			r.Attributes[AttributeKey(header)] = value
		})
		records = append(records, r)
	}
	return records
}

// Documents converts a linked documents dataframe. Rows without an
// amendment code cannot be linked and are dropped.
func Documents(df dataframe.DataFrame) []emenda.Document {
	names := df.Names()
	docs := make([]emenda.Document, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		d := emenda.Document{Attributes: emenda.Attributes{}}
		cells(df, names, i, func(header, value string) {
			switch header {
			case colCodigoEmenda:
				d.EmendaID = value
			case colCodigoDocumento:
				d.CodigoDocumento = emenda.Ptr(value)
			default:
				d.Attributes[AttributeKey(header)] = value
			}
		})
		if d.EmendaID == "" {
			continue
		}
		docs = append(docs, d)
	}
	return docs
}
