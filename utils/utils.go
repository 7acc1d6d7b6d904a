package utils

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

// ExtractViewFromURL pulls the report view name out of the request URL.
func ExtractViewFromURL(r *http.Request) (string, error) {
	vars := mux.Vars(r)

	view, ok := vars["view"]
	if !ok {
		return "", errors.New("view not provided in the URL")
	}

	return view, nil
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func WriteErrorResponse(w http.ResponseWriter, statusCode int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Message: err.Error()})
}

// WriteJSONResponse marshals the payload and writes it with the given status.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(body)
	return nil
}
