package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/farxc/painel-emendas/internal/emenda"
	"github.com/farxc/painel-emendas/internal/query"
	"golang.org/x/sync/errgroup"
)

// schemaSampleSize is how many linked documents DocumentSchema inspects.
const schemaSampleSize = 5

type DocumentPage struct {
	Documents  []emenda.Document `json:"documents"`
	Pagination query.Pagination  `json:"pagination"`
}

// Documents lists the disbursement documents linked to an amendment code.
func (e *Engine) Documents(ctx context.Context, emendaID string, page query.Page) (DocumentPage, error) {
	if emendaID == "" {
		return DocumentPage{}, ErrEmendaIDRequired
	}

	var (
		docs  []emenda.Document
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		docs, err = e.documents.FindByEmenda(gctx, emendaID, page)
		return
	})
	g.Go(func() (err error) {
		total, err = e.documents.CountByEmenda(gctx, emendaID)
		return
	})
	if err := g.Wait(); err != nil {
		return DocumentPage{}, storageErr(err)
	}

	if docs == nil {
		docs = []emenda.Document{}
	}
	return DocumentPage{Documents: docs, Pagination: page.Pagination(total)}, nil
}

type FieldInfo struct {
	Type    string `json:"type"`
	Example any    `json:"example"`
}

type DocumentSchema struct {
	TotalDocuments int                  `json:"totalDocuments"`
	Fields         map[string]FieldInfo `json:"fields"`
	SampleDocument map[string]any       `json:"sampleDocument"`
}

// jsonType names the kind of a decoded JSON value. null reports "object".
func jsonType(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return "object"
	}
}

func flatten(doc emenda.Document) (map[string]any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

/*
DocumentSchema describes the shape of the linked documents from a handful of
samples: every field seen, with the type and value of its first occurrence,
plus the estimated size of the collection.
*/
func (e *Engine) DocumentSchema(ctx context.Context) (DocumentSchema, error) {
	var (
		samples []emenda.Document
		total   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		samples, err = e.documents.Sample(gctx, schemaSampleSize)
		return
	})
	g.Go(func() (err error) {
		total, err = e.documents.EstimatedCount(gctx)
		return
	})
	if err := g.Wait(); err != nil {
		return DocumentSchema{}, storageErr(err)
	}

	schema := DocumentSchema{TotalDocuments: total, Fields: map[string]FieldInfo{}}
	for i, doc := range samples {
		flat, err := flatten(doc)
		if err != nil {
			return DocumentSchema{}, fmt.Errorf("failed to inspect document %s: %w", doc.ID, err)
		}
		if i == 0 {
			schema.SampleDocument = flat
		}
		for k, v := range flat {
			if _, ok := schema.Fields[k]; !ok {
				schema.Fields[k] = FieldInfo{Type: jsonType(v), Example: v}
			}
		}
	}
	return schema, nil
}
