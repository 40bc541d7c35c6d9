package httputil

import (
	"encoding/json"
	"maps"
	"net/http"
)

// ProblemContentType is the media type of every error body (RFC 7807).
const ProblemContentType = "application/problem+json"

// RespondJSON marshals before writing so an encoding failure still yields a
// clean 500 instead of a half-written body.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	write(w, status, "application/json", payload)
}

// ProblemDetail is an RFC 7807 document. Extra members are flattened into
// the top level, e.g. "field" on a uniqueness conflict.
type ProblemDetail struct {
	Type     string
	Title    string
	Status   int
	Detail   string
	Instance string
	Extra    map[string]any
}

func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, 5+len(p.Extra))
	maps.Copy(doc, p.Extra)
	doc["type"] = p.Type
	doc["title"] = p.Title
	doc["status"] = p.Status
	if p.Detail != "" {
		doc["detail"] = p.Detail
	}
	if p.Instance != "" {
		doc["instance"] = p.Instance
	}
	return json.Marshal(doc)
}

// RespondError writes a problem document without extra members.
func RespondError(w http.ResponseWriter, status int, detail string) {
	RespondErrorWithExtras(w, status, detail, nil)
}

// RespondErrorWithExtras writes a problem document. The request ID echoed by
// the RequestID middleware becomes its instance so clients can quote it.
func RespondErrorWithExtras(w http.ResponseWriter, status int, detail string, extras map[string]any) {
	payload, err := json.Marshal(ProblemDetail{
		Type:     problemType(status),
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: w.Header().Get(RequestIDHeader),
		Extra:    extras,
	})
	if err != nil {
		write(w, http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("internal server error"))
		return
	}
	write(w, status, ProblemContentType, payload)
}

func write(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

var problemTypes = map[int]string{
	http.StatusBadRequest:          "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.1",
	http.StatusNotFound:            "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.5",
	http.StatusConflict:            "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.10",
	http.StatusUnprocessableEntity: "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.21",
	http.StatusTooManyRequests:     "https://datatracker.ietf.org/doc/html/rfc6585#section-4",
	http.StatusInternalServerError: "https://datatracker.ietf.org/doc/html/rfc9110#section-15.6.1",
	http.StatusBadGateway:          "https://datatracker.ietf.org/doc/html/rfc9110#section-15.6.3",
	http.StatusServiceUnavailable:  "https://datatracker.ietf.org/doc/html/rfc9110#section-15.6.4",
}

func problemType(status int) string {
	if t, ok := problemTypes[status]; ok {
		return t
	}
	return "about:blank"
}
