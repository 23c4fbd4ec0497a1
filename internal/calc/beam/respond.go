package beam

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
)

// ErrorBody is the JSON error shape of every endpoint.
type ErrorBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// WriteJSON encodes v before sending any header, so a value that cannot be
// encoded becomes a 500 instead of a truncated response.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorBody{Detail: "Response encoding error", Code: "internal"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func WriteError(w http.ResponseWriter, status int, code, detail string) {
	WriteJSON(w, status, ErrorBody{Detail: detail, Code: code})
}

// WriteCalcError writes an engine error. Input errors carry their message
// verbatim; anything else is reported without internal detail.
func WriteCalcError(w http.ResponseWriter, err error) {
	if IsClientError(err) {
		WriteError(w, http.StatusBadRequest, Code(err), err.Error())
		return
	}
	WriteError(w, http.StatusInternalServerError, "internal", "Calculation error")
}

// DecodeJSON decodes the request body into v, writing the error response
// itself when it fails.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "request_too_large", "Request body too large")
			return false
		}
		WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid request payload")
		return false
	}
	return true
}
