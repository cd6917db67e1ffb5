package portal

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-lessons/internal/assets"
	"github.com/goliatone/go-lessons/internal/document"
	"github.com/goliatone/go-lessons/internal/i18n"
	"github.com/goliatone/go-lessons/internal/identity"
	"github.com/goliatone/go-lessons/internal/logging"
	"github.com/goliatone/go-lessons/internal/markdown"
	"github.com/goliatone/go-lessons/internal/render"
	"github.com/goliatone/go-lessons/internal/uistate"
	"github.com/goliatone/go-lessons/pkg/interfaces"
	"github.com/google/uuid"
)

// DefaultPreviewLines is the number of lines a collapsed document shows.
const DefaultPreviewLines = 3

// DefaultAssetPrefix is prepended to relative image paths.
const DefaultAssetPrefix = "/assets/"

// ErrLanguageNotSelected reports a section request from a session that has
// not completed the landing page.
var ErrLanguageNotSelected = errors.New("portal: language not selected")

// SurfaceFactory returns the surface a document of a section is drawn onto.
type SurfaceFactory func(section Section, doc DocumentRef) interfaces.Surface

// Service composes the portal pages out of the manifest, the docs tree, the
// renderer and the per-session interface state.
type Service struct {
	manifest     *Manifest
	assets       interfaces.AssetResolver
	dispatcher   *render.Dispatcher
	languages    *i18n.Registry
	labels       *i18n.Catalog
	state        uistate.Repository
	logger       interfaces.Logger
	previewLines int
	hideTOC      bool
	resolveImage render.ImageResolver
}

// Option configures a Service.
type Option func(*Service)

// WithDispatcher sets the renderer. Defaults to a dispatcher that never
// executes code.
func WithDispatcher(d *render.Dispatcher) Option {
	return func(s *Service) {
		if d != nil {
			s.dispatcher = d
		}
	}
}

// WithStateRepository sets the interface state store. Defaults to memory.
func WithStateRepository(repo uistate.Repository) Option {
	return func(s *Service) {
		if repo != nil {
			s.state = repo
		}
	}
}

// WithLabels sets the interface label catalog.
func WithLabels(catalog *i18n.Catalog) Option {
	return func(s *Service) {
		if catalog != nil {
			s.labels = catalog
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPreviewLines sets how many lines collapsed documents show.
func WithPreviewLines(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.previewLines = n
		}
	}
}

// WithHideTOC drops the table of contents from section pages.
func WithHideTOC(hide bool) Option {
	return func(s *Service) {
		s.hideTOC = hide
	}
}

// WithImageResolver overrides how document image paths are rewritten.
func WithImageResolver(resolver render.ImageResolver) Option {
	return func(s *Service) {
		if resolver != nil {
			s.resolveImage = resolver
		}
	}
}

// NewService wires a portal over manifest, the docs resolver and the
// configured languages.
func NewService(manifest *Manifest, resolver interfaces.AssetResolver, languages *i18n.Registry, opts ...Option) (*Service, error) {
	if manifest == nil {
		return nil, errors.New("portal: manifest is required")
	}
	if resolver == nil {
		return nil, errors.New("portal: asset resolver is required")
	}
	if languages == nil {
		return nil, errors.New("portal: language registry is required")
	}
	s := &Service{
		manifest:     manifest,
		assets:       resolver,
		dispatcher:   render.NewDispatcher(),
		languages:    languages,
		state:        uistate.NewMemoryRepository(),
		logger:       logging.NoOp(),
		previewLines: DefaultPreviewLines,
		resolveImage: AssetURL(DefaultAssetPrefix),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.labels == nil {
		catalog, err := i18n.DefaultCatalog()
		if err != nil {
			return nil, err
		}
		s.labels = catalog
	}
	return s, nil
}

// Manifest returns the site manifest.
func (s *Service) Manifest() *Manifest {
	return s.manifest
}

// Languages returns the language registry.
func (s *Service) Languages() *i18n.Registry {
	return s.languages
}

// Label translates an interface label.
func (s *Service) Label(lang i18n.Language, key string, args ...any) string {
	return s.labels.Translate(lang, key, args...)
}

// AssetURL returns an image resolver serving relative paths under prefix.
// Absolute URLs and rooted paths pass through.
func AssetURL(prefix string) render.ImageResolver {
	prefix = "/" + strings.Trim(prefix, "/") + "/"
	if prefix == "//" {
		prefix = "/"
	}
	return func(p string) string {
		if u, err := url.Parse(p); err == nil && u.Scheme != "" {
			return p
		}
		if strings.HasPrefix(p, "/") {
			return p
		}
		return prefix + strings.TrimPrefix(p, "./")
	}
}

// LanguageOption is one entry of the landing page language selector.
type LanguageOption struct {
	Code     string
	Name     string
	SelfName string
	Selected bool
}

// Landing is the language selection page.
type Landing struct {
	Language  i18n.Language
	Title     string
	Prompt    string
	Select    string
	Proceed   string
	Languages []LanguageOption
}

// Landing builds the landing page. The preselected language is the one the
// session chose before, or the best match for acceptLanguage.
func (s *Service) Landing(ctx context.Context, session uuid.UUID, acceptLanguage string) (*Landing, error) {
	lang, _, err := s.Language(ctx, session)
	if err != nil {
		return nil, err
	}
	if stored, _ := uistate.ForSession(s.state, session).Language(ctx); stored == "" {
		lang = s.languages.Match(acceptLanguage)
	}

	page := &Landing{
		Language: lang,
		Title:    s.Label(lang, "landing.title"),
		Prompt:   s.Label(lang, "landing.prompt"),
		Select:   s.Label(lang, "landing.select"),
		Proceed:  s.Label(lang, "landing.proceed"),
	}
	for _, option := range s.languages.Languages() {
		page.Languages = append(page.Languages, LanguageOption{
			Code:     option.Code(),
			Name:     option.Name,
			SelfName: option.SelfName,
			Selected: option.Tag == lang.Tag,
		})
	}
	return page, nil
}

// Language returns the session language, the default one when none was
// stored, and whether the landing page was completed.
func (s *Service) Language(ctx context.Context, session uuid.UUID) (i18n.Language, bool, error) {
	st := uistate.ForSession(s.state, session)
	code, err := st.Language(ctx)
	if err != nil {
		return i18n.Language{}, false, err
	}
	selected, err := st.LanguageSelected(ctx)
	if err != nil {
		return i18n.Language{}, false, err
	}
	lang := s.languages.Default()
	if code != "" {
		if found, err := s.languages.Find(code); err == nil {
			lang = found
		} else {
			s.logger.Warn("portal.language.unknown", "session_id", session, "language", code)
			selected = false
		}
	}
	return lang, selected, nil
}

// SelectLanguage stores the chosen language and completes the landing page.
func (s *Service) SelectLanguage(ctx context.Context, session uuid.UUID, value string) (i18n.Language, error) {
	lang, err := s.languages.Find(value)
	if err != nil {
		return i18n.Language{}, err
	}
	if err := uistate.ForSession(s.state, session).SetLanguage(ctx, lang.Code()); err != nil {
		return i18n.Language{}, err
	}
	s.logger.Info("portal.language.selected", "session_id", session, "language", lang.Code())
	return lang, nil
}

// ResetLanguage sends the session back to the landing page.
func (s *Service) ResetLanguage(ctx context.Context, session uuid.UUID) error {
	if err := uistate.ForSession(s.state, session).ResetLanguage(ctx); err != nil {
		return err
	}
	s.logger.Info("portal.language.reset", "session_id", session)
	return nil
}

// Tab is one sidebar entry.
type Tab struct {
	Key    string
	Label  string
	Active bool
}

// Sidebar is the navigation column of section pages.
type Sidebar struct {
	Title          string
	LanguageLabel  string
	ChangeLanguage string
	Tabs           []Tab
}

// Sidebar maps the entries of the language's sidebar file onto the manifest
// sections by position. Sections without an entry use their manifest title.
func (s *Service) Sidebar(ctx context.Context, lang i18n.Language, active string) (*Sidebar, error) {
	var entries []string
	asset, err := s.assets.Resolve(ctx, lang.Dir, "", assets.SidebarFile)
	switch {
	case err == nil:
		entries = document.SidebarEntries(string(asset.Content))
	case errors.Is(err, assets.ErrAssetNotFound):
		s.logger.Warn("portal.sidebar.missing", "language", lang.Dir, "error", err)
	default:
		return nil, err
	}

	if active == "" && len(s.manifest.Sections) > 0 {
		active = s.manifest.Sections[0].Key
	}

	title := s.manifest.SidebarTitle
	if title == "" {
		title = s.Label(lang, "sidebar.title")
	}
	sidebar := &Sidebar{
		Title:          title,
		LanguageLabel:  s.Label(lang, "sidebar.language", lang.Name),
		ChangeLanguage: s.Label(lang, "sidebar.change_language"),
	}
	for i, section := range s.manifest.Sections {
		label := section.Title
		if i < len(entries) {
			label = entries[i]
		}
		if label == "" {
			label = HumanizeStem(section.Key)
		}
		sidebar.Tabs = append(sidebar.Tabs, Tab{
			Key:    section.Key,
			Label:  label,
			Active: section.Key == active,
		})
	}
	return sidebar, nil
}

// DocumentView is one document tab of a section page.
type DocumentView struct {
	ID       uuid.UUID
	Section  string
	File     string
	Label    string
	Video    string
	Expanded bool
	// Collapsible documents offer a toggle between preview and full view.
	Collapsible bool
	Toggle      string
	Missing     bool
	Surface     interfaces.Surface
	Report      *render.Report
}

// SectionPage is a rendered section.
type SectionPage struct {
	Section   Section
	Language  i18n.Language
	Title     string
	Intro     string
	Sidebar   *Sidebar
	Documents []DocumentView
	RunLabel  string
}

// SectionPage renders every document of the section onto surfaces built by
// factory and records the section as the session's selected tab.
func (s *Service) SectionPage(ctx context.Context, session uuid.UUID, key string, factory SurfaceFactory) (*SectionPage, error) {
	if factory == nil {
		return nil, errors.New("portal: surface factory is required")
	}
	section, ok := s.manifest.Section(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSectionNotFound, key)
	}
	lang, selected, err := s.Language(ctx, session)
	if err != nil {
		return nil, err
	}
	if !selected {
		return nil, ErrLanguageNotSelected
	}

	st := uistate.ForSession(s.state, session)
	if err := st.SetSelectedTab(ctx, section.Key); err != nil {
		return nil, err
	}
	sidebar, err := s.Sidebar(ctx, lang, section.Key)
	if err != nil {
		return nil, err
	}

	page := &SectionPage{
		Section:  section,
		Language: lang,
		Title:    section.Title,
		Intro:    section.Intro,
		Sidebar:  sidebar,
		RunLabel: s.Label(lang, "cell.run"),
	}
	for _, tab := range sidebar.Tabs {
		if tab.Key == section.Key {
			page.Title = tab.Label
		}
	}

	logger := logging.WithFields(s.logger, map[string]any{
		"session_id": session,
		"section":    section.Key,
		"language":   lang.Dir,
	})

	for _, ref := range section.Documents {
		view, err := s.documentView(ctx, st, lang, section, ref, factory(section, ref), logger)
		if err != nil {
			return nil, err
		}
		page.Documents = append(page.Documents, view)
	}
	return page, nil
}

func (s *Service) documentView(ctx context.Context, st uistate.Session, lang i18n.Language, section Section, ref DocumentRef, surface interfaces.Surface, logger interfaces.Logger) (DocumentView, error) {
	view := DocumentView{
		ID:          identity.DocumentUUID(lang.Dir, section.Folder, ref.File),
		Section:     section.Key,
		File:        ref.File,
		Video:       ref.Video,
		Collapsible: section.Collapsible,
		Expanded:    !section.Collapsible,
		Surface:     surface,
	}
	if section.Collapsible {
		expanded, err := st.Expanded(ctx, section.Key, ref.File)
		if err != nil {
			return view, err
		}
		view.Expanded = expanded
		if expanded {
			view.Toggle = s.Label(lang, "document.done")
		} else {
			view.Toggle = s.Label(lang, "document.read_more")
		}
	}

	asset, err := s.assets.Resolve(ctx, lang.Dir, section.Folder, ref.File)
	if err != nil {
		if !errors.Is(err, assets.ErrAssetNotFound) {
			return view, err
		}
		logger.Warn("portal.document.missing", "document", ref.File, "error", err)
		view.Label = HumanizeStem(ref.File)
		view.Missing = true
		surface.RenderError(s.Label(lang, "document.not_found", lang.Name))
		return view, nil
	}

	label, fallback := TabLabel(asset.Content, ref.File)
	if fallback {
		logger.Debug("portal.document.label_fallback", "document", ref.File, "label", label, "error", document.ErrMissingHeader)
	}
	view.Label = label

	_, body, err := markdown.ParseFrontMatter(asset.Content)
	if err != nil {
		body = asset.Content
	}

	if !view.Expanded {
		s.renderPreview(surface, string(body))
		return view, nil
	}

	overrides, err := st.CellOverrides(ctx, section.Key, ref.File)
	if err != nil {
		return view, err
	}
	report, err := s.dispatcher.RenderSource(ctx, surface, string(body), render.Options{
		Mode:         section.RenderMode(),
		Overrides:    overrides,
		ResolveImage: s.resolveImage,
		HideTOC:      s.hideTOC,
	})
	if err != nil {
		return view, err
	}
	view.Report = report
	if len(report.Failures) > 0 {
		logger.Debug("portal.document.cell_failures", "document", ref.File, "failures", len(report.Failures))
	}
	return view, nil
}

func (s *Service) renderPreview(surface interfaces.Surface, body string) {
	lines := document.Preview(body, s.previewLines)
	if len(lines) == 0 {
		return
	}
	surface.RenderProse(PromoteHeader(lines[0]))
	if rest := strings.TrimSpace(strings.Join(lines[1:], "\n")); rest != "" {
		surface.RenderProse(rest)
	}
}

// RenderDocument draws a single document with the given mode, outside of
// any session. Used by the CLI.
func (s *Service) RenderDocument(ctx context.Context, surface interfaces.Surface, lang i18n.Language, section Section, ref DocumentRef, opts render.Options) (*render.Report, error) {
	asset, err := s.assets.Resolve(ctx, lang.Dir, section.Folder, ref.File)
	if err != nil {
		if errors.Is(err, assets.ErrAssetNotFound) {
			surface.RenderError(s.Label(lang, "document.not_found", lang.Name))
		}
		return nil, err
	}
	_, body, err := markdown.ParseFrontMatter(asset.Content)
	if err != nil {
		body = asset.Content
	}
	if opts.ResolveImage == nil {
		opts.ResolveImage = s.resolveImage
	}
	return s.dispatcher.RenderSource(ctx, surface, string(body), opts)
}

// SetExpanded toggles a document between preview and full view.
func (s *Service) SetExpanded(ctx context.Context, session uuid.UUID, sectionKey, file string, expanded bool) error {
	if _, _, err := s.manifest.Lookup(sectionKey, file); err != nil {
		return err
	}
	return uistate.ForSession(s.state, session).SetExpanded(ctx, sectionKey, file, expanded)
}

// RunCell stores the edited source of a code cell and expands its document
// so the next section render evaluates it.
func (s *Service) RunCell(ctx context.Context, session uuid.UUID, sectionKey, file string, index int, source string) error {
	section, _, err := s.manifest.Lookup(sectionKey, file)
	if err != nil {
		return err
	}
	if index < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCell, index)
	}
	st := uistate.ForSession(s.state, session)
	if err := st.SetCellSource(ctx, sectionKey, file, index, source); err != nil {
		return err
	}
	if section.Collapsible {
		if err := st.SetExpanded(ctx, sectionKey, file, true); err != nil {
			return err
		}
	}
	s.logger.Debug("portal.cell.run", "session_id", session, "section", sectionKey, "document", file, "cell", index)
	return nil
}

// SelectedTab returns the section the session opened last.
func (s *Service) SelectedTab(ctx context.Context, session uuid.UUID) (string, error) {
	return uistate.ForSession(s.state, session).SelectedTab(ctx)
}
