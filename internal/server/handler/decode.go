package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/garrettladley/passbridge/internal/xerrors"
	go_json "github.com/goccy/go-json"
)

const maxBodyBytes = 1 << 20

// readBody reads the request body up to maxBodyBytes.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, xerrors.New(http.StatusRequestEntityTooLarge, xerrors.WithMessage("Request body is too large."))
		}
		return nil, xerrors.BadRequest(xerrors.WithMessage("Failed to read request body."), xerrors.WithCause(err))
	}
	return body, nil
}

// decodeJSON decodes a JSON object body into v. An empty body decodes as {}
// so that missing fields are reported by validation rather than as a
// malformed request.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := go_json.Unmarshal(body, v); err != nil {
		return xerrors.BadRequest(xerrors.WithMessage("Request body must be a JSON object."), xerrors.WithCause(err))
	}
	return nil
}
