package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/xrsl/cvlift/pkg/apidoc"
	"github.com/xrsl/cvlift/pkg/docs"
	"github.com/xrsl/cvlift/pkg/form"
	"github.com/xrsl/cvlift/pkg/improve"
	"github.com/xrsl/cvlift/pkg/notify"
	"github.com/xrsl/cvlift/pkg/page"
	"github.com/xrsl/cvlift/pkg/session"
	"github.com/xrsl/cvlift/pkg/workflow"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// SessionCookie names the cookie holding the visitor's session id.
const SessionCookie = "cvlift_session"

const indexView = "templates/index.html"

const maxBody = 1 << 20

// Options configures an App.
type Options struct {
	Store *session.Store

	// Delay is passed to workflow.Runner.Delay.
	Delay    time.Duration
	Enhancer workflow.Enhancer

	Version string
	Logger  *slog.Logger
}

// App is the HTTP surface. It implements http.Handler.
type App struct {
	opts    Options
	log     *slog.Logger
	views   *TemplateSet
	openapi []byte
	handler http.Handler
}

// New parses templates, builds the API document and wires routes.
func New(ctx context.Context, opts Options) (*App, error) {
	if opts.Store == nil {
		opts.Store = session.NewStore(0)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	views, err := NewTemplateSet(templateFS, "templates/layout.html", template.FuncMap{
		"scrollDelay": func() int64 { return page.ScrollDelay.Milliseconds() },
	}, indexView)
	if err != nil {
		return nil, fmt.Errorf("web: templates: %w", err)
	}

	doc, err := apidoc.JSON(ctx, opts.Version)
	if err != nil {
		return nil, err
	}

	a := &App{
		opts:    opts,
		log:     opts.Logger.With("system", "web"),
		views:   views,
		openapi: doc,
	}

	mux := http.NewServeMux()
	Register(mux, a.routes()...)

	mw := NewMiddleware()
	mw.Use(Logger(a.log))
	mw.Use(Recover(a.log))
	a.handler = mw.Apply(mux)
	return a, nil
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *App) routes() []Group {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("failed to create sub-filesystem: " + err.Error())
	}

	return []Group{
		{
			Routes: []Route{
				{Method: "GET", Pattern: "/{$}", Handler: http.HandlerFunc(a.index)},
				{Method: "GET", Pattern: "/healthz", Handler: ComponentHandler(a.health)},
				{Method: "GET", Pattern: "/static/", Handler: http.StripPrefix("/static/", http.FileServer(http.FS(static)))},
			},
		},
		{
			Prefix: "/page",
			Routes: []Route{
				{Method: "POST", Pattern: "/editor", Handler: http.HandlerFunc(a.getStarted)},
				{Method: "POST", Pattern: "/examples", Handler: http.HandlerFunc(a.viewExamples)},
				{Method: "POST", Pattern: "/examples/optimize", Handler: http.HandlerFunc(a.optimizeExample)},
			},
		},
		{
			Prefix: "/editor",
			Routes: []Route{
				{Method: "GET", Pattern: "/instructions", Handler: ComponentHandler(a.instructions)},
				{Method: "POST", Pattern: "/submit", Handler: http.HandlerFunc(a.submit)},
			},
		},
		{
			Prefix: "/api",
			Routes: []Route{
				{Method: "GET", Pattern: "/options", Handler: ComponentHandler(a.options)},
				{Method: "POST", Pattern: "/validate", Handler: ComponentHandler(a.validate)},
				{Method: "GET", Pattern: "/openapi.json", Handler: http.HandlerFunc(a.apiDoc)},
			},
		},
	}
}

// session returns the visitor's session, issuing a cookie for new ones.
func (a *App) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	s, created := a.opts.Store.Ensure(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    s.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return s
}

type pageData struct {
	Title        string
	Version      string
	Flags        page.Flags
	Form         form.Values
	Options      []improve.Option
	Instructions template.HTML
	Progress     template.HTML
}

func (a *App) pageData(ctx context.Context, s *session.Session) (pageData, error) {
	v := s.Form.Snapshot()
	d := pageData{
		Title:   "AI Resume Enhancement",
		Version: a.opts.Version,
		Flags:   s.Page.Flags(),
		Form:    v,
		Options: improve.Options(),
	}
	if improve.ShowsInstructions(v.Selection) {
		html, err := renderHTML(ctx, InstructionsField(v.Instructions, v.Processing))
		if err != nil {
			return d, err
		}
		d.Instructions = html
	}
	if v.Processing {
		html, err := renderHTML(ctx, ProgressBar(v.Progress))
		if err != nil {
			return d, err
		}
		d.Progress = html
	}
	return d, nil
}

func (a *App) render(w http.ResponseWriter, r *http.Request, s *session.Session, name string) {
	data, err := a.pageData(r.Context(), s)
	if err == nil {
		err = a.views.Render(w, indexView, name, data)
	}
	if err != nil {
		a.log.Error("render failed", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (a *App) index(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, a.session(w, r), "layout")
}

// revealed tells the client which section to scroll to once swapped in.
func revealed(w http.ResponseWriter, section page.Section) {
	payload, _ := json.Marshal(map[string]any{
		"cvlift:reveal": map[string]any{"section": string(section), "delay": page.ScrollDelay.Milliseconds()},
	})
	w.Header().Set("HX-Trigger-After-Settle", string(payload))
}

func (a *App) getStarted(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)
	revealed(w, s.Page.GetStarted())
	a.render(w, r, s, "editor")
}

func (a *App) viewExamples(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)
	revealed(w, s.Page.ViewExamples())
	a.render(w, r, s, "example")
}

func (a *App) optimizeExample(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)
	s.Page.ViewExamples()
	s.Page.RevealHighATS()
	a.render(w, r, s, "example")
}

func (a *App) instructions(w http.ResponseWriter, r *http.Request) *Response {
	q := r.URL.Query()
	selection := q.Get("improvement")
	if selection == "" {
		selection = q.Get("improvementType")
	}
	if !improve.ShowsInstructions(selection) {
		return &Response{}
	}
	return &Response{Component: InstructionsField(q.Get("instructions"), false)}
}

func (a *App) health(w http.ResponseWriter, r *http.Request) *Response {
	return &Response{JSON: map[string]string{"status": "ok", "version": a.opts.Version}}
}

func (a *App) options(w http.ResponseWriter, r *http.Request) *Response {
	return &Response{JSON: improve.Options()}
}

type validateResult struct {
	Valid            bool                 `json:"valid"`
	DocumentID       string               `json:"documentId,omitempty"`
	ShowInstructions bool                 `json:"showInstructions"`
	Notification     *notify.Notification `json:"notification,omitempty"`
}

func (a *App) validate(w http.ResponseWriter, r *http.Request) *Response {
	in, err := decodeSubmission(r)
	if err != nil {
		return &Response{Error: err, Code: http.StatusBadRequest, Message: "invalid request body"}
	}
	res := validateResult{ShowInstructions: improve.ShowsInstructions(in.Selection)}
	res.DocumentID, _ = docs.DocumentID(in.Link)
	if err := form.Validate(in.Link, in.Selection); err != nil {
		n := workflow.Notification(err)
		res.Notification = &n
	} else {
		res.Valid = true
	}
	return &Response{JSON: res}
}

func (a *App) apiDoc(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(a.openapi)
}

// decodeSubmission reads a JSON or form-encoded submission.
func decodeSubmission(r *http.Request) (form.Values, error) {
	var v form.Values
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
		if err := dec.Decode(&v); err != nil {
			return v, fmt.Errorf("decode submission: %w", err)
		}
		return form.Values{Link: v.Link, Selection: v.Selection, Instructions: v.Instructions}, nil
	}
	if err := r.ParseForm(); err != nil {
		return v, fmt.Errorf("parse form: %w", err)
	}
	return form.Values{
		Link:         r.PostForm.Get("link"),
		Selection:    r.PostForm.Get("improvementType"),
		Instructions: r.PostForm.Get("instructions"),
	}, nil
}

// submit validates synchronously and then streams the run. The run is bound
// to the request: a dropped connection cancels it.
func (a *App) submit(w http.ResponseWriter, r *http.Request) {
	s := a.session(w, r)

	in, err := decodeSubmission(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if !improve.IsCustom(in.Selection) {
		in.Instructions = ""
	}

	if err := s.Form.Fill(in.Link, in.Selection, in.Instructions); err != nil {
		writeJSON(w, http.StatusConflict, workflow.Notification(err))
		return
	}
	if err := form.Validate(in.Link, in.Selection); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, workflow.Notification(err))
		return
	}

	stream := newEventStream(r.Context(), w, a.log)
	runner := workflow.Runner{
		Delay:    a.opts.Delay,
		Sink:     stream,
		Observer: stream,
		Enhancer: a.opts.Enhancer,
	}
	err = runner.Submit(r.Context(), &s.Form)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.log.Warn("submission failed", "session", s.ID, "error", err)
	}
	stream.Done(err)
}
