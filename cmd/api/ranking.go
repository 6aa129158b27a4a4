package main

import (
	"errors"
	"net/http"

	"github.com/farxc/painel-emendas/internal/analytics"
	"github.com/farxc/painel-emendas/internal/emenda"
	"github.com/farxc/painel-emendas/internal/query"
	"github.com/farxc/painel-emendas/internal/response"
)

const (
	defaultRankingLimit = 20
	defaultDetailLimit  = 50
)

type GetRankingResponse = response.APIResponse[analytics.Ranking]
type GetDetailResponse = response.APIResponse[analytics.Detail]
type GetFiltersResponse = response.APIResponse[analytics.Filters]

// @Summary		Get ranking
// @Description	Ranks authors, amendment types or budget functions by committed value.
// @Tags			Ranking
// @Produce		json
// @Param			groupBy		query		string					false	"Grouping field: nomeAutor, tipoEmenda or funcao"	default(nomeAutor)
// @Param			nomeAutor	query		string					false	"Exact author filter"
// @Param			tipoEmenda	query		string					false	"Exact amendment type filter"
// @Param			funcao		query		string					false	"Exact budget function filter"
// @Param			search		query		string					false	"Case-insensitive search over author, type and function"
// @Param			page		query		int						false	"Page number"	default(1)
// @Param			limit		query		int						false	"Page size"		default(20)
// @Success		200			{object}	GetRankingResponse		"Successfully computed ranking"
// @Failure		400			{object}	response.ErrorResponse	"Invalid grouping field"
// @Failure		500			{object}	response.ErrorResponse	"Internal Server Error"
// @Router			/ranking [get]
func (app *application) handleGetRanking(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	groupBy, err := emenda.ParseField(params.Get("groupBy"), emenda.FieldAutor)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := analytics.RankQuery{
		Criteria: query.Criteria{
			Autor:  params.Get("nomeAutor"),
			Tipo:   params.Get("tipoEmenda"),
			Funcao: params.Get("funcao"),
			Search: params.Get("search"),
		},
		GroupBy: groupBy,
		Page:    query.ParsePage(params.Get("page"), params.Get("limit"), defaultRankingLimit),
	}

	data, err := app.engine.Rank(r.Context(), q)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := &GetRankingResponse{
		Success: true,
		Data:    data,
		Message: "Successfully computed ranking",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Get detail
// @Description	Records, totals and breakdowns of one ranking entry.
// @Tags			Ranking
// @Produce		json
// @Param			field	query		string					false	"Field the value refers to"	default(nomeAutor)
// @Param			value	query		string					true	"Exact value of the field"
// @Param			page	query		int						false	"Page number"	default(1)
// @Param			limit	query		int						false	"Page size"		default(50)
// @Success		200		{object}	GetDetailResponse		"Successfully resolved detail"
// @Failure		400		{object}	response.ErrorResponse	"Value is required"
// @Failure		500		{object}	response.ErrorResponse	"Internal Server Error"
// @Router			/detail [get]
func (app *application) handleGetDetail(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	field, err := emenda.ParseField(params.Get("field"), emenda.FieldAutor)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := app.engine.Detail(r.Context(), analytics.DetailQuery{
		Field: field,
		Value: params.Get("value"),
		Page:  query.ParsePage(params.Get("page"), params.Get("limit"), defaultDetailLimit),
	})
	switch {
	case errors.Is(err, analytics.ErrValueRequired):
		writeJSONError(w, http.StatusBadRequest, "Value is required")
		return
	case err != nil:
		app.internalServerError(w, r, err)
		return
	}

	response := &GetDetailResponse{
		Success: true,
		Data:    data,
		Message: "Successfully resolved detail",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Get filters
// @Description	Distinct authors, amendment types and budget functions.
// @Tags			Ranking
// @Produce		json
// @Success		200	{object}	GetFiltersResponse		"Successfully listed filter values"
// @Failure		500	{object}	response.ErrorResponse	"Internal Server Error"
// @Router			/filters [get]
func (app *application) handleGetFilters(w http.ResponseWriter, r *http.Request) {
	data, err := app.engine.Filters(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := &GetFiltersResponse{
		Success: true,
		Data:    data,
		Message: "Successfully listed filter values",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
