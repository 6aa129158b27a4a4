package main

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/farxc/painel-emendas/internal/response"
	"github.com/go-chi/chi/v5/middleware"
)

// writeJSON encodes before touching w, so a failed encoding can still be
// answered with an error status.
func writeJSON(w http.ResponseWriter, status int, data any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_, err := w.Write(buf.Bytes())
	return err
}

func writeJSONError(w http.ResponseWriter, status int, message string) error {
	return writeJSON(w, status, &response.ErrorResponse{Error: message})
}

// internalServerError logs the cause and answers with a generic message;
// storage details never reach the client.
func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Error("API", "Request failed: method=%s path=%s requestID=%s error=%v",
		r.Method, r.URL.Path, middleware.GetReqID(r.Context()), err)
	writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
}
