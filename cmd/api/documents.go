package main

import (
	"errors"
	"net/http"

	"github.com/farxc/painel-emendas/internal/analytics"
	"github.com/farxc/painel-emendas/internal/query"
	"github.com/farxc/painel-emendas/internal/response"
	"github.com/farxc/painel-emendas/internal/transparency"
)

type GetDocumentsResponse = response.APIResponse[analytics.DocumentPage]
type GetDocumentSchemaResponse = response.APIResponse[analytics.DocumentSchema]
type GetExternalDocumentResponse = response.APIResponse[transparency.Document]

// @Summary		Get linked documents
// @Description	Disbursement documents linked to an amendment.
// @Tags			Documents
// @Produce		json
// @Param			emenda_id	query		string					true	"Amendment code"
// @Param			page		query		int						false	"Page number"	default(1)
// @Param			limit		query		int						false	"Page size"		default(50)
// @Success		200			{object}	GetDocumentsResponse	"Successfully retrieved linked documents"
// @Failure		400			{object}	response.ErrorResponse	"emenda_id is required"
// @Failure		500			{object}	response.ErrorResponse	"Internal Server Error"
// @Router			/documentos [get]
func (app *application) handleGetDocuments(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	page := query.ParsePage(params.Get("page"), params.Get("limit"), defaultDetailLimit)

	data, err := app.engine.Documents(r.Context(), params.Get("emenda_id"), page)
	switch {
	case errors.Is(err, analytics.ErrEmendaIDRequired):
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		app.internalServerError(w, r, err)
		return
	}

	response := &GetDocumentsResponse{
		Success: true,
		Data:    data,
		Message: "Successfully retrieved linked documents",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Get linked documents schema
// @Description	Field names, types and examples sampled from the linked documents.
// @Tags			Documents
// @Produce		json
// @Success		200	{object}	GetDocumentSchemaResponse	"Successfully sampled document schema"
// @Failure		500	{object}	response.ErrorResponse		"Internal Server Error"
// @Router			/documentos/schema [get]
func (app *application) handleGetDocumentSchema(w http.ResponseWriter, r *http.Request) {
	data, err := app.engine.DocumentSchema(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := &GetDocumentSchemaResponse{
		Success: true,
		Data:    data,
		Message: "Successfully sampled document schema",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Get external document
// @Description	Resolves a document code against the Portal da Transparencia API.
// @Tags			Documents
// @Produce		json
// @Param			codigo	query		string								true	"Document code"
// @Success		200		{object}	GetExternalDocumentResponse			"Successfully retrieved external document"
// @Failure		400		{object}	response.ErrorResponse				"codigo is required"
// @Failure		404		{object}	response.UpstreamErrorResponse		"Document not found in the Portal API"
// @Failure		502		{object}	response.UpstreamErrorResponse		"Portal API unreachable"
// @Router			/documentos/externo [get]
func (app *application) handleGetExternalDocument(w http.ResponseWriter, r *http.Request) {
	codigo := r.URL.Query().Get("codigo")
	if codigo == "" {
		writeJSONError(w, http.StatusBadRequest, "codigo is required")
		return
	}

	doc, err := app.portal.Lookup(r.Context(), codigo)

	var upstream *transparency.UpstreamError
	switch {
	case errors.As(err, &upstream):
		writeJSON(w, upstream.Status, &response.UpstreamErrorResponse{
			Error:  "Documento nao encontrado na API externa",
			Status: upstream.Status,
			Codigo: codigo,
		})
		return
	case err != nil:
		app.logger.Error("API", "External document lookup failed: codigo=%s error=%v", codigo, err)
		writeJSON(w, http.StatusBadGateway, &response.UpstreamErrorResponse{
			Error:  "Erro ao buscar documento externo",
			Codigo: codigo,
		})
		return
	}

	response := &GetExternalDocumentResponse{
		Success: true,
		Data:    doc,
		Message: "Successfully retrieved external document",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
