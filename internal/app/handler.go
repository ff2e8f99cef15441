package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/JaimeStill/topk/internal/endpoint"
	"github.com/JaimeStill/topk/internal/session"
	"github.com/JaimeStill/topk/internal/workflow"
	"github.com/JaimeStill/topk/pkg/handlers"
	"github.com/JaimeStill/topk/pkg/routes"
	"github.com/JaimeStill/topk/pkg/web"
)

// Handler serves the classification page and its form actions.
type Handler struct {
	sessions      session.System
	views         *web.TemplateSet
	assets        http.HandlerFunc
	logger        *slog.Logger
	cookie        string
	override      string
	title         string
	subtitle      string
	maxUploadSize int64
}

// NewHandler parses the embedded templates and creates a Handler.
func NewHandler(sessions session.System, runtime *Runtime) (*Handler, error) {
	views, err := newTemplateSet(runtime.Web.BasePath)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	assets, err := web.AssetServer(staticFS, "static", "/static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	return &Handler{
		sessions:      sessions,
		views:         views,
		assets:        assets,
		logger:        runtime.Logger.With("handler", "page"),
		cookie:        runtime.Cookie,
		override:      runtime.Override,
		title:         runtime.Web.Title,
		subtitle:      runtime.Web.Subtitle,
		maxUploadSize: runtime.Web.MaxUploadSizeBytes(),
	}, nil
}

// Routes returns the route group definition for the page endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{$}", Handler: h.Page},
			{Method: "GET", Pattern: "/state", Handler: h.State},
			{Method: "GET", Pattern: "/preview/{key}", Handler: h.Preview},
			{Method: "GET", Pattern: "/static/", Handler: h.assets},
			{Method: "POST", Pattern: "/select", Handler: h.Select},
			{Method: "POST", Pattern: "/classify", Handler: h.Classify},
			{Method: "POST", Pattern: "/reset", Handler: h.Reset},
			{Method: "POST", Pattern: "/endpoint", Handler: h.Endpoint},
		},
	}
}

// Router registers the routes with a not-found page fallback.
func (h *Handler) Router() http.Handler {
	router := web.NewRouter()
	routes.Register(router, h.Routes())
	router.SetFallback(h.views.ErrorHandler(layout, notFoundView, http.StatusNotFound))
	return router
}

// Page renders the current session. An api or base query parameter rebinds
// the session's backend.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	snap := h.open(w, r)

	if !snap.Created {
		if base := endpoint.Resolve("", endpoint.RequestQuery(r)); base != "" && base != snap.APIBase {
			if rebound, err := h.sessions.Rebind(snap.ID, base); err == nil {
				snap = rebound
			}
		}
	}

	h.render(w, r, http.StatusOK, snap, "")
}

// State returns a JSON snapshot of the session.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	snap := h.open(w, r)
	handlers.RespondJSON(w, http.StatusOK, h.page(r, snap, "").state())
}

// Select stores the first uploaded file as the session's selection.
// A request without a file changes nothing.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	snap := h.open(w, r)

	if r.ContentLength > h.maxUploadSize {
		h.fail(w, r, snap, ErrFileTooLarge)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, snap, ErrFileTooLarge)
			return
		}
		if errors.Is(err, http.ErrNotMultipart) {
			h.done(w, r, snap)
			return
		}
		h.fail(w, r, snap, fmt.Errorf("%w: %v", ErrInvalidForm, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		h.done(w, r, snap)
		return
	}

	upload, err := readUpload(files[0])
	if err != nil {
		h.fail(w, r, snap, fmt.Errorf("%w: %v", ErrInvalidForm, err))
		return
	}

	next, err := h.sessions.Select(r.Context(), snap.ID, upload)
	if err != nil && !errors.Is(err, workflow.ErrInFlight) {
		h.fail(w, r, next, err)
		return
	}

	h.done(w, r, next)
}

// Classify starts a prediction for the current selection. Without a
// selection, or while one is running, it does nothing.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	snap := h.open(w, r)

	next, err := h.sessions.Classify(snap.ID)
	if err != nil && !errors.Is(err, workflow.ErrNoSelection) && !errors.Is(err, workflow.ErrInFlight) {
		h.fail(w, r, snap, err)
		return
	}

	h.done(w, r, next)
}

// Reset clears selection, preview, result, and error.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	snap := h.open(w, r)

	next, err := h.sessions.Reset(r.Context(), snap.ID)
	if err != nil {
		h.fail(w, r, snap, err)
		return
	}

	h.done(w, r, next)
}

// Endpoint remembers a backend URL in a cookie for future sessions and
// rebinds the current one. An empty value forgets it.
func (h *Handler) Endpoint(w http.ResponseWriter, r *http.Request) {
	snap := h.open(w, r)

	value := endpoint.Normalize(r.FormValue("api_base"))
	if value != "" && !endpoint.Valid(value) {
		h.fail(w, r, snap, ErrInvalidBase)
		return
	}

	http.SetCookie(w, endpoint.RememberCookie(endpoint.CookieName, h.views.BasePath(), value))

	base := endpoint.Resolve(
		endpoint.DefaultBase,
		endpoint.Override(h.override),
		endpoint.Override(value),
		endpoint.Build(),
	)

	next, err := h.sessions.Rebind(snap.ID, base)
	if err != nil {
		h.fail(w, r, snap, err)
		return
	}

	h.done(w, r, next)
}

// Preview serves the caller's current preview image. Keys owned by other
// sessions, or already released, are not found.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	if !h.ownsPreview(r, key) {
		handlers.RespondError(w, h.logger, http.StatusNotFound, session.ErrNotFound)
		return
	}

	blob, err := h.sessions.Preview(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, session.MapHTTPStatus(err), err)
		return
	}
	defer blob.Body.Close()

	data, err := io.ReadAll(blob.Body)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	web.ServeBlob(w, r, key, blob.ContentType, data)
}

func (h *Handler) ownsPreview(r *http.Request, key string) bool {
	c, err := r.Cookie(h.cookie)
	if err != nil {
		return false
	}
	snap, err := h.sessions.Get(c.Value)
	if err != nil {
		return false
	}
	sel := snap.State.Selection()
	return sel != nil && sel.PreviewKey == key
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request) session.Snapshot {
	var id string
	if c, err := r.Cookie(h.cookie); err == nil {
		id = c.Value
	}

	snap := h.sessions.Open(id, func() string { return h.resolve(r) })
	if snap.Created {
		http.SetCookie(w, &http.Cookie{
			Name:     h.cookie,
			Value:    snap.ID,
			Path:     h.views.BasePath(),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return snap
}

func (h *Handler) resolve(r *http.Request) string {
	return endpoint.Resolve(
		endpoint.DefaultBase,
		endpoint.RequestQuery(r),
		endpoint.Override(h.override),
		endpoint.Cookie(r, endpoint.CookieName),
		endpoint.Build(),
	)
}

// done answers a form action: JSON clients get the new state, browsers are
// redirected back to the page.
func (h *Handler) done(w http.ResponseWriter, r *http.Request, snap session.Snapshot) {
	if wantsJSON(r) {
		handlers.RespondJSON(w, http.StatusOK, h.page(r, snap, "").state())
		return
	}
	http.Redirect(w, r, h.views.BasePath()+"/", http.StatusSeeOther)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, snap session.Snapshot, err error) {
	status := MapHTTPStatus(err)
	if wantsJSON(r) {
		handlers.RespondError(w, h.logger, status, err)
		return
	}

	h.logger.Warn("page action failed", "status", status, "error", err)
	h.render(w, r, status, snap, noticeFor(err))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, snap session.Snapshot, notice string) {
	if err := h.views.RenderView(w, status, layout, indexView, h.page(r, snap, notice)); err != nil {
		h.logger.Error("render failed", "error", err)
	}
}

func readUpload(fh *multipart.FileHeader) (session.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return session.Upload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return session.Upload{}, err
	}

	return session.Upload{
		Name:        fh.Filename,
		ContentType: detectContentType(fh.Header.Get("Content-Type"), data),
		Data:        data,
	}, nil
}

func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func noticeFor(err error) string {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return "That image is too large to upload."
	case errors.Is(err, ErrInvalidBase):
		return ErrInvalidBase.Error() + "."
	case errors.Is(err, ErrInvalidForm):
		return "The upload could not be read."
	default:
		return "Something went wrong. Please try again."
	}
}
