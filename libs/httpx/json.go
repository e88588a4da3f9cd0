package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// Envelope is the body shape shared by every JSON response.
type Envelope struct {
	OK        bool              `json:"ok"`
	Data      any               `json:"data,omitempty"`
	Error     string            `json:"error,omitempty"`
	Kind      string            `json:"kind,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Timestamp string            `json:"timestamp"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, Envelope{OK: true, Data: data, Timestamp: now()})
}

func WriteError(w http.ResponseWriter, status int, kind, msg string, fields map[string]string) {
	WriteJSON(w, status, Envelope{OK: false, Error: msg, Kind: kind, Fields: fields, Timestamp: now()})
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
