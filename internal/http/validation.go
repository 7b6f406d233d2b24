package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var errInvalidPayload = errors.New("invalid payload")

// decodeBody decodes a JSON body into dst and runs its validate tags.
// Malformed JSON yields errInvalidPayload; tag failures yield
// validator.ValidationErrors.
func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errInvalidPayload
	}
	return validate.Struct(dst)
}

// writeDecodeError answers a failed decodeBody with a 400.
func writeDecodeError(w http.ResponseWriter, err error, missingMsg string) {
	if errors.Is(err, errInvalidPayload) {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	WriteError(w, http.StatusBadRequest, missingMsg)
}
