package validators

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	pkgerrors "github.com/shadowstrength/storefront/pkg/errors"
	"github.com/shadowstrength/storefront/pkg/validation"
)

// MaxBodyBytes caps every JSON request body.
const MaxBodyBytes = 64 << 10

// DecodeJSONBody decodes exactly one JSON object into dest and then runs
// struct validation.
func DecodeJSONBody(r *http.Request, dest any) error {
	if err := DecodeJSONBodyNoValidate(r, dest); err != nil {
		return err
	}
	return validation.Struct(dest)
}

// DecodeJSONBodyNoValidate is for handlers whose service validates fields in
// a particular order.
func DecodeJSONBodyNoValidate(r *http.Request, dest any) error {
	body := http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	defer body.Close()

	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return bodyError(err)
	}
	if decoder.More() {
		return pkgerrors.New(pkgerrors.CodeValidation, "request body must hold a single JSON object")
	}
	return nil
}

// ReadBody buffers at most MaxBodyBytes of the request body and puts a fresh
// reader back on r so a later DecodeJSONBody sees the same bytes.
func ReadBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return nil, bodyError(err)
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

// bodyError names the problem without echoing the raw payload back.
func bodyError(err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		tooLarge  *http.MaxBytesError
	)
	invalid := func(msg string, details any) error {
		wrapped := pkgerrors.Wrap(pkgerrors.CodeValidation, err, msg)
		if details != nil {
			wrapped = wrapped.WithDetails(details)
		}
		return wrapped
	}
	switch {
	case errors.Is(err, io.EOF):
		return invalid("request body is empty", nil)
	case errors.As(err, &tooLarge):
		return invalid("request body too large", map[string]any{"max_bytes": tooLarge.Limit})
	case errors.As(err, &syntaxErr):
		return invalid("request body is not valid JSON", map[string]any{"offset": syntaxErr.Offset})
	case errors.Is(err, io.ErrUnexpectedEOF):
		return invalid("request body is not valid JSON", nil)
	case errors.As(err, &typeErr):
		return invalid("invalid request body", map[string]string{typeErr.Field: fmt.Sprintf("must be a %s", typeErr.Type)})
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return invalid("invalid request body", map[string]string{field: "is not allowed"})
	}
	return invalid("invalid request body", nil)
}
