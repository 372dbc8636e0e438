package xhttp

import (
	"net/http"

	go_json "github.com/goccy/go-json"
)

func WriteJSON(w http.ResponseWriter, status int, data any) {
	SetHeaderContentTypeApplicationJSON(w)
	w.WriteHeader(status)
	_ = go_json.NewEncoder(w).Encode(data)
}

// WriteRawJSON writes an already-encoded JSON document unchanged.
func WriteRawJSON(w http.ResponseWriter, status int, body []byte) {
	SetHeaderContentTypeApplicationJSON(w)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func WriteOK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

func WriteHTML(w http.ResponseWriter, status int, body []byte) {
	SetHeaderContentTypeTextHTML(w)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func WriteText(w http.ResponseWriter, status int, body string) {
	SetHeaderContentTypeTextPlain(w)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
