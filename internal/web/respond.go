// Package web holds the small helpers handlers share for writing responses.
package web

import (
	"encoding/json"
	"net/http"

	"github.com/Arpitag110/mindbridge/internal/errs"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// Error writes the error's message with the status the taxonomy assigns it.
func Error(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), errs.Status(err))
}
