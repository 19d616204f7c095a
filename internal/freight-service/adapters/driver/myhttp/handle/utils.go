package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"freight-bid/internal/freight-service/core/myerrors"
)

// jsonResponse writes the given data as a JSON-encoded HTTP response.
func jsonResponse(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// JsonError writes an error response as JSON with the specified HTTP status code.
func JsonError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
		"code":  code,
	})
}

// statusFromErr maps the core error kinds onto HTTP status codes. Conflicts
// get 409 so clients know a retry with a fresh read may succeed.
func statusFromErr(err error) int {
	switch {
	case errors.Is(err, myerrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, myerrors.ErrValidation),
		errors.Is(err, myerrors.ErrInvalidTransition),
		errors.Is(err, myerrors.ErrInsufficientCapacity):
		return http.StatusBadRequest
	case errors.Is(err, myerrors.ErrConcurrencyConflict),
		errors.Is(err, myerrors.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func serviceError(w http.ResponseWriter, err error) {
	JsonError(w, statusFromErr(err), err)
}
