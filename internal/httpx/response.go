// Package httpx contains the JSON envelope and error mapping used by every handler.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/apperr"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Field   string `json:"field,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes {success:true, data:v}.
func OK(w http.ResponseWriter, status int, v any) {
	WriteJSON(w, status, envelope{Success: true, Data: v})
}

// Message writes {success:true, message:msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, envelope{Success: true, Message: msg})
}

// Fail writes {success:false, error:msg}.
func Fail(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, envelope{Success: false, Error: msg})
}

// WriteError maps err onto the error taxonomy. Only validation, conflict and
// not-found messages reach the client; everything else becomes a generic 500
// and is logged server side.
func WriteError(w http.ResponseWriter, logger *zap.SugaredLogger, r *http.Request, err error) {
	var verr *apperr.ValidationError
	var cerr *apperr.ConflictError
	switch {
	case errors.As(err, &verr):
		WriteJSON(w, http.StatusBadRequest, envelope{Error: verr.Error(), Field: verr.Field})
	case errors.As(err, &cerr):
		Fail(w, http.StatusConflict, cerr.Message)
	case errors.Is(err, apperr.ErrConflict):
		Fail(w, http.StatusConflict, "conflict")
	case errors.Is(err, apperr.ErrNotFound):
		Fail(w, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrInvalidCredentials), errors.Is(err, apperr.ErrUnauthenticated):
		Fail(w, http.StatusUnauthorized, "invalid credentials")
	default:
		if logger != nil {
			logger.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		}
		Fail(w, http.StatusInternalServerError, "internal server error")
	}
}

// DecodeJSON reads a bounded JSON body into v. Decoding problems are
// reported as validation errors.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return apperr.Invalid("body", "invalid payload")
	}
	return nil
}
