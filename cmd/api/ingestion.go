package main

import (
	"net/http"

	"github.com/farxc/painel-emendas/internal/query"
	"github.com/farxc/painel-emendas/internal/response"
	"github.com/farxc/painel-emendas/internal/store"
)

type GetIngestionHistoryResponse = response.APIResponse[[]store.IngestionHistory]

// @Summary		Get ingestion history
// @Description	Get a list of the latest dataset loads.
// @Tags			Ingestion
// @Produce		json
// @Param			limit	query		int							false	"Limit the number of results"	default(10)
// @Success		200		{object}	GetIngestionHistoryResponse	"Successfully retrieved latest ingestion records"
// @Failure		500		{object}	response.ErrorResponse		"Internal Server Error"
// @Router			/ingestion/history [get]
func (app *application) handleGetIngestionHistory(w http.ResponseWriter, r *http.Request) {
	limit := query.ParsePage("", r.URL.Query().Get("limit"), 10).Limit

	ctx := r.Context()
	data, err := app.store.IngestionHistory.GetLatest(ctx, limit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if data == nil {
		data = []store.IngestionHistory{}
	}

	response := &GetIngestionHistoryResponse{
		Success: true,
		Data:    data,
		Message: "Successfully retrieved latest ingestion records",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
