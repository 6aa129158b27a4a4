package emenda

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Unknown is the display label for empty or missing group keys.
const Unknown = "Sem informacao"

// Attributes holds the display-only columns of a row. It is stored as JSONB.
type Attributes map[string]any

func (a Attributes) Value() (driver.Value, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a)
}

func (a *Attributes) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*a = Attributes{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("attributes: unsupported type %T", src)
	}
	attrs := Attributes{}
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return fmt.Errorf("attributes: %w", err)
	}
	*a = attrs
	return nil
}

// Record is one amendment line of the dataset.
type Record struct {
	ID             string     `db:"id"`
	CodigoEmenda   *string    `db:"codigo_emenda"`
	NomeAutor      *string    `db:"nome_autor"`
	TipoEmenda     *string    `db:"tipo_emenda"`
	Funcao         *string    `db:"funcao"`
	Subfuncao      *string    `db:"subfuncao"`
	ValorEmpenhado *string    `db:"valor_empenhado"`
	ValorPago      *string    `db:"valor_pago"`
	ValorLiquidado *string    `db:"valor_liquidado"`
	Attributes     Attributes `db:"attributes"`
}

// MarshalJSON flattens the extra attributes next to the known fields, the
// way the source documents look.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Attributes)+9)
	for k, v := range r.Attributes {
		out[k] = v
	}
	out["_id"] = r.ID
	out["codigoEmenda"] = r.CodigoEmenda
	out["nomeAutor"] = r.NomeAutor
	out["tipoEmenda"] = r.TipoEmenda
	out["funcao"] = r.Funcao
	out["subfuncao"] = r.Subfuncao
	out["valorEmpenhado"] = r.ValorEmpenhado
	out["valorPago"] = r.ValorPago
	out["valorLiquidado"] = r.ValorLiquidado
	return json.Marshal(out)
}

// Document is a disbursement document linked to an amendment through
// EmendaID == Record.CodigoEmenda.
type Document struct {
	ID              string     `db:"id"`
	EmendaID        string     `db:"emenda_id"`
	CodigoDocumento *string    `db:"codigo_documento"`
	Attributes      Attributes `db:"attributes"`
}

func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Attributes)+3)
	for k, v := range d.Attributes {
		out[k] = v
	}
	out["_id"] = d.ID
	out["emenda_id"] = d.EmendaID
	out["codigoDocumento"] = d.CodigoDocumento
	return json.Marshal(out)
}

// Field is one of the categorical columns usable as a ranking dimension.
type Field string

const (
	FieldAutor  Field = "nomeAutor"
	FieldTipo   Field = "tipoEmenda"
	FieldFuncao Field = "funcao"
)

var ErrUnknownField = errors.New("unknown grouping field")

var fieldColumns = map[Field]string{
	FieldAutor:  "nome_autor",
	FieldTipo:   "tipo_emenda",
	FieldFuncao: "funcao",
}

// Fields lists the grouping fields in display order.
func Fields() []Field {
	return []Field{FieldAutor, FieldTipo, FieldFuncao}
}

// ParseField validates a field name coming from a request. An empty name
// yields def.
func ParseField(name string, def Field) (Field, error) {
	if name == "" {
		return def, nil
	}
	f := Field(name)
	if _, ok := fieldColumns[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}

// Column returns the SQL column backing the field.
func (f Field) Column() string {
	return fieldColumns[f]
}

// Of returns the raw value of the field in r, nil when absent.
func (f Field) Of(r Record) *string {
	switch f {
	case FieldAutor:
		return r.NomeAutor
	case FieldTipo:
		return r.TipoEmenda
	case FieldFuncao:
		return r.Funcao
	}
	return nil
}

// DisplayName collapses a nil or empty group key to Unknown.
func DisplayName(key *string) string {
	if key == nil || *key == "" {
		return Unknown
	}
	return *key
}

// Ptr is a small helper for building optional fields.
func Ptr(s string) *string {
	return &s
}
