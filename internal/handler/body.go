package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
)

const maxBodyBytes = 1 << 20

// hasJSONBody reports whether r carries a body that should be parsed.
func hasJSONBody(r *http.Request) bool {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// decodeBody fills v from a JSON request body. Other content types, an empty
// body and malformed JSON leave v untouched. It returns the field holding a
// value of the wrong type, so validation can report it next to the other
// field errors.
func decodeBody(r *http.Request, v any) []string {
	if !hasJSONBody(r) {
		return nil
	}

	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []string{typeErr.Field}
	}
	return nil
}
