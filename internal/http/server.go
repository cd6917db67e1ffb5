package http

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	portalcmd "github.com/goliatone/go-lessons/internal/commands/portal"
	"github.com/goliatone/go-lessons/internal/logging"
	"github.com/goliatone/go-lessons/internal/portal"
	"github.com/goliatone/go-lessons/internal/surface/web"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

// Server renders the portal pages.
type Server struct {
	portal       *portal.Service
	commands     *portalcmd.HandlerSet
	markdown     interfaces.MarkdownParser
	static       fs.FS
	logger       interfaces.Logger
	cookieName   string
	secureCookie bool
	templates    *pageTemplates
	started      time.Time
}

// Option mutates the Server configuration.
type Option func(*Server)

// WithMarkdown sets the parser prose is rendered with.
func WithMarkdown(parser interfaces.MarkdownParser) Option {
	return func(s *Server) {
		if parser != nil {
			s.markdown = parser
		}
	}
}

// WithStaticFS serves images and other files of the docs tree under /assets/.
func WithStaticFS(fsys fs.FS) Option {
	return func(s *Server) {
		s.static = fsys
	}
}

// WithLogger sets the request logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSessionCookie overrides the session cookie name and Secure flag.
func WithSessionCookie(name string, secure bool) Option {
	return func(s *Server) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			s.cookieName = trimmed
		}
		s.secureCookie = secure
	}
}

// NewServer builds a server over the portal service and its command handlers.
func NewServer(service *portal.Service, handlers *portalcmd.HandlerSet, opts ...Option) (*Server, error) {
	if service == nil {
		return nil, errors.New("http: portal service is required")
	}
	if handlers == nil {
		return nil, errors.New("http: command handlers are required")
	}
	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	s := &Server{
		portal:     service,
		commands:   handlers,
		logger:     logging.NoOp(),
		cookieName: DefaultSessionCookie,
		templates:  templates,
		started:    time.Now(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Register mounts the portal routes on mux.
func (s *Server) Register(mux *http.ServeMux) error {
	if mux == nil {
		return errors.New("http: mux is required")
	}
	mux.HandleFunc("GET /{$}", s.handleLanding)
	mux.HandleFunc("POST /language", s.handleSelectLanguage)
	mux.HandleFunc("POST /language/reset", s.handleResetLanguage)
	mux.HandleFunc("GET /sections/{section}", s.handleSection)
	mux.HandleFunc("POST /sections/{section}/documents/{document}/expand", s.handleToggle(true))
	mux.HandleFunc("POST /sections/{section}/documents/{document}/collapse", s.handleToggle(false))
	mux.HandleFunc("POST /sections/{section}/documents/{document}/cells/{cell}", s.handleRunCell)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.static != nil {
		mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(s.static)))
	}
	return nil
}

// Handler returns a mux with the portal routes and request logging.
func (s *Server) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if err := s.Register(mux); err != nil {
		return nil, err
	}
	return s.logRequests(mux), nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http.request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed", time.Since(started),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

type layoutData struct {
	Lang   string
	Title  string
	TabCSS template.CSS
}

type landingData struct {
	layoutData
	Landing *portal.Landing
}

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	ctx := r.Context()

	_, selected, err := s.portal.Language(ctx, session)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if selected {
		http.Redirect(w, r, s.sectionURL(r, session), http.StatusSeeOther)
		return
	}

	landing, err := s.portal.Landing(ctx, session, r.Header.Get("Accept-Language"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, s.templates.landing, landingData{
		layoutData: layoutData{Lang: landing.Language.Code(), Title: landing.Title},
		Landing:    landing,
	})
}

func (s *Server) handleSelectLanguage(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	err := s.commands.SelectLanguage.Execute(r.Context(), portalcmd.SelectLanguageCommand{
		SessionID: session,
		Language:  r.FormValue("language"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, s.sectionURL(r, session), http.StatusSeeOther)
}

func (s *Server) handleResetLanguage(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	if err := s.commands.ResetLanguage.Execute(r.Context(), portalcmd.ResetLanguageCommand{SessionID: session}); err != nil {
		s.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type documentData struct {
	Anchor       string
	File         string
	Label        string
	HTML         template.HTML
	Video        string
	Collapsible  bool
	Toggle       string
	ToggleAction string
}

type sectionData struct {
	layoutData
	Section   string
	Heading   string
	Intro     string
	Sidebar   *portal.Sidebar
	Documents []documentData
	ActiveTab int
}

func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	key := r.PathValue("section")
	ctx := r.Context()

	lang, _, err := s.portal.Language(ctx, session)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	runLabel := s.portal.Label(lang, "cell.run")

	surfaces := map[string]*web.Surface{}
	page, err := s.portal.SectionPage(ctx, session, key, func(section portal.Section, doc portal.DocumentRef) interfaces.Surface {
		surface := web.New(web.Options{
			Markdown:   s.markdown,
			CellAction: cellAction(section.Key, doc.File),
			RunLabel:   runLabel,
			IDPrefix:   anchorFor(section.Key, doc.File) + "-",
			Logger:     s.logger,
		})
		surfaces[doc.File] = surface
		return surface
	})
	if errors.Is(err, portal.ErrLanguageNotSelected) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data := sectionData{
		layoutData: layoutData{Lang: page.Language.Code(), Title: page.Title},
		Section:    page.Section.Key,
		Heading:    page.Title,
		Intro:      page.Intro,
		Sidebar:    page.Sidebar,
	}
	active := r.URL.Query().Get("document")
	anchors := make([]string, 0, len(page.Documents))
	for i, view := range page.Documents {
		anchor := anchorFor(view.Section, view.File)
		anchors = append(anchors, anchor)
		if view.File == active {
			data.ActiveTab = i
		}
		doc := documentData{
			Anchor:      anchor,
			File:        view.File,
			Label:       view.Label,
			Video:       view.Video,
			Collapsible: view.Collapsible && !view.Missing,
			Toggle:      view.Toggle,
		}
		if surface, ok := surfaces[view.File]; ok {
			doc.HTML = surface.HTML()
		}
		if view.Expanded {
			doc.ToggleAction = documentURL(view.Section, view.File) + "/collapse"
		} else {
			doc.ToggleAction = documentURL(view.Section, view.File) + "/expand"
		}
		data.Documents = append(data.Documents, doc)
	}
	data.TabCSS = tabCSS(anchors)
	s.render(w, r, http.StatusOK, s.templates.section, data)
}

func (s *Server) handleToggle(expanded bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := s.session(w, r)
		section, document := r.PathValue("section"), r.PathValue("document")
		err := s.commands.ToggleDocument.Execute(r.Context(), portalcmd.ToggleDocumentCommand{
			SessionID: session,
			Section:   section,
			Document:  document,
			Expanded:  expanded,
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		http.Redirect(w, r, returnURL(section, document), http.StatusSeeOther)
	}
}

func (s *Server) handleRunCell(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	section, document := r.PathValue("section"), r.PathValue("document")
	cell, err := strconv.Atoi(r.PathValue("cell"))
	if err != nil {
		cell = -1
	}
	err = s.commands.RunCell.Execute(r.Context(), portalcmd.RunCellCommand{
		SessionID: session,
		Section:   section,
		Document:  document,
		Cell:      cell,
		Source:    r.FormValue("source"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, returnURL(section, document)+"-cell-"+strconv.Itoa(cell), http.StatusSeeOther)
}

type healthResponse struct {
	Status   string `json:"status"`
	Sections int    `json:"sections"`
	Uptime   string `json:"uptime"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Sections: len(s.portal.Manifest().Sections),
		Uptime:   time.Since(s.started).Round(time.Second).String(),
	})
}

// sectionURL returns the section the session last opened, or the first one.
func (s *Server) sectionURL(r *http.Request, session uuid.UUID) string {
	sections := s.portal.Manifest().Sections
	if len(sections) == 0 {
		return "/"
	}
	key := sections[0].Key
	if tab, err := s.portal.SelectedTab(r.Context(), session); err == nil && tab != "" {
		if _, ok := s.portal.Manifest().Section(tab); ok {
			key = tab
		}
	}
	return "/sections/" + url.PathEscape(key)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, tpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error("http.render.failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorData struct {
	layoutData
	Message string
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("http.request.failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("http.request.rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	if wantsJSON(r) {
		writeJSON(w, status, payload)
		return
	}
	s.render(w, r, status, s.templates.error, errorData{
		layoutData: layoutData{Lang: "en", Title: http.StatusText(status)},
		Message:    payload.Message,
	})
}

func anchorFor(section, file string) string {
	return "doc-" + strings.ToLower(section) + "-" + strings.ToLower(strings.TrimSuffix(file, ".md"))
}

func documentURL(section, file string) string {
	return "/sections/" + url.PathEscape(section) + "/documents/" + url.PathEscape(file)
}

func returnURL(section, file string) string {
	return "/sections/" + url.PathEscape(section) + "?document=" + url.QueryEscape(file) + "#" + anchorFor(section, file)
}

func cellAction(section, file string) web.CellAction {
	base := documentURL(section, file) + "/cells/"
	return func(index int) string {
		return base + strconv.Itoa(index)
	}
}
