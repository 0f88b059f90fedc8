package web

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

type component interface {
	Render(ctx context.Context, w io.Writer) error
}

// Response is what a ComponentHandler produces. Exactly one of Component or
// JSON is rendered; Error is logged and replaces the body with Message.
type Response struct {
	Error     error
	Message   string
	Code      int
	Header    http.Header
	Component component
	JSON      any
}

// ComponentHandler is a handler that returns its response instead of writing it.
type ComponentHandler func(http.ResponseWriter, *http.Request) *Response

func (ch ComponentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := ch(w, r)
	if resp == nil {
		return
	}

	for k, vs := range resp.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}

	if resp.Error != nil {
		slog.Error("request failed", "uri", r.URL.RequestURI(), "error", resp.Error)
		code := resp.Code
		if code == 0 {
			code = http.StatusInternalServerError
		}
		msg := resp.Message
		if msg == "" {
			msg = http.StatusText(code)
		}
		writeJSON(w, code, errorBody{Error: msg})
		return
	}

	if resp.JSON != nil {
		code := resp.Code
		if code == 0 {
			code = http.StatusOK
		}
		writeJSON(w, code, resp.JSON)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if resp.Code != 0 {
		w.WriteHeader(resp.Code)
	}
	if resp.Component == nil {
		return
	}
	if err := resp.Component.Render(r.Context(), w); err != nil {
		slog.Error("render failed", "uri", r.URL.RequestURI(), "error", err)
		http.Error(w, "templ: failed to render template", http.StatusInternalServerError)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
