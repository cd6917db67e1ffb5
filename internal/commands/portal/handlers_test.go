package portalcmd

import (
	"context"
	"errors"
	"fmt"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-lessons/internal/assets"
	"github.com/goliatone/go-lessons/internal/commands/fixtures"
	"github.com/goliatone/go-lessons/internal/i18n"
	"github.com/goliatone/go-lessons/internal/portal"
	"github.com/goliatone/go-lessons/internal/render"
	"github.com/goliatone/go-lessons/internal/surface/recording"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

type stubService struct {
	manifest  *portal.Manifest
	languages *i18n.Registry

	selected  []string
	resets    int
	toggles   []bool
	cells     []string
	renders   []render.Options
	renderErr error
}

func newStubService(t *testing.T) *stubService {
	t.Helper()
	manifest, err := portal.DefaultManifest()
	if err != nil {
		t.Fatalf("DefaultManifest() error = %v", err)
	}
	registry, err := i18n.NewRegistry(i18n.Config{Languages: []string{"English", "Spanish"}})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return &stubService{manifest: manifest, languages: registry}
}

func (s *stubService) Manifest() *portal.Manifest { return s.manifest }
func (s *stubService) Languages() *i18n.Registry  { return s.languages }

func (s *stubService) SelectLanguage(_ context.Context, _ uuid.UUID, value string) (i18n.Language, error) {
	lang, err := s.languages.Find(value)
	if err != nil {
		return i18n.Language{}, err
	}
	s.selected = append(s.selected, lang.Dir)
	return lang, nil
}

func (s *stubService) ResetLanguage(context.Context, uuid.UUID) error {
	s.resets++
	return nil
}

func (s *stubService) SetExpanded(_ context.Context, _ uuid.UUID, section, file string, expanded bool) error {
	if _, _, err := s.manifest.Lookup(section, file); err != nil {
		return err
	}
	s.toggles = append(s.toggles, expanded)
	return nil
}

func (s *stubService) RunCell(_ context.Context, _ uuid.UUID, section, file string, index int, source string) error {
	if _, _, err := s.manifest.Lookup(section, file); err != nil {
		return err
	}
	s.cells = append(s.cells, fmt.Sprintf("%d:%s", index, source))
	return nil
}

func (s *stubService) RenderDocument(_ context.Context, surface interfaces.Surface, _ i18n.Language, _ portal.Section, _ portal.DocumentRef, opts render.Options) (*render.Report, error) {
	if s.renderErr != nil {
		return nil, s.renderErr
	}
	s.renders = append(s.renders, opts)
	surface.RenderProse("rendered")
	return &render.Report{Calls: 1}, nil
}

func TestSelectLanguageHandler(t *testing.T) {
	svc := newStubService(t)
	h := NewSelectLanguageHandler(svc, nil)
	session := uuid.New()

	if err := h.Execute(context.Background(), SelectLanguageCommand{SessionID: session, Language: "Spanish"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(svc.selected) != 1 || svc.selected[0] != "spanish" {
		t.Fatalf("unexpected selections %v", svc.selected)
	}

	err := h.Execute(context.Background(), SelectLanguageCommand{SessionID: session, Language: "Klingon"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category for unknown language, got %v", err)
	}

	err = h.Execute(context.Background(), SelectLanguageCommand{Language: "Spanish"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category for missing session, got %v", err)
	}
	if len(svc.selected) != 1 {
		t.Fatalf("expected invalid message not to reach the service")
	}
}

func TestToggleAndRunCellHandlers(t *testing.T) {
	svc := newStubService(t)
	session := uuid.New()
	ctx := context.Background()

	toggle := NewToggleDocumentHandler(svc, nil)
	if err := toggle.Execute(ctx, ToggleDocumentCommand{SessionID: session, Section: "intro", Document: "01_intro.md", Expanded: true}); err != nil {
		t.Fatalf("toggle error = %v", err)
	}
	err := toggle.Execute(ctx, ToggleDocumentCommand{SessionID: session, Section: "nope", Document: "01_intro.md"})
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found category, got %v", err)
	}
	if !errors.Is(err, portal.ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound in chain, got %v", err)
	}

	run := NewRunCellHandler(svc, nil)
	if err := run.Execute(ctx, RunCellCommand{SessionID: session, Section: "python", Document: "01_intro.md", Cell: 1, Source: "x = 1"}); err != nil {
		t.Fatalf("run error = %v", err)
	}
	if err := run.Execute(ctx, RunCellCommand{SessionID: session, Section: "python", Document: "01_intro.md", Cell: -1}); err == nil {
		t.Fatalf("expected validation error for negative cell")
	}
	if len(svc.toggles) != 1 || len(svc.cells) != 1 || svc.cells[0] != "1:x = 1" {
		t.Fatalf("unexpected service calls toggles=%v cells=%v", svc.toggles, svc.cells)
	}

	reset := NewResetLanguageHandler(svc, nil)
	if err := reset.Execute(ctx, ResetLanguageCommand{SessionID: session}); err != nil {
		t.Fatalf("reset error = %v", err)
	}
	if svc.resets != 1 {
		t.Fatalf("expected one reset, got %d", svc.resets)
	}
}

func TestRenderDocumentHandler(t *testing.T) {
	svc := newStubService(t)
	h := NewRenderDocumentHandler(svc, nil)
	ctx := context.Background()
	surface := recording.New()

	var report *render.Report
	err := h.Execute(ctx, RenderDocumentCommand{
		Section:  "python",
		Document: "01_intro.md",
		Surface:  surface,
		OnReport: func(r *render.Report) { report = r },
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if report == nil || report.Calls != 1 {
		t.Fatalf("expected report callback, got %+v", report)
	}
	if svc.renders[0].Mode != render.ModeExecutable {
		t.Fatalf("expected section mode executable, got %s", svc.renders[0].Mode)
	}

	if err := h.Execute(ctx, RenderDocumentCommand{Section: "python", Document: "01_intro.md", Mode: "static", Surface: surface}); err != nil {
		t.Fatalf("Execute() static error = %v", err)
	}
	if svc.renders[1].Mode != render.ModeStatic {
		t.Fatalf("expected static override, got %s", svc.renders[1].Mode)
	}

	if err := h.Execute(ctx, RenderDocumentCommand{Section: "python", Document: "01_intro.md"}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error without surface, got %v", err)
	}
	if err := h.Execute(ctx, RenderDocumentCommand{Section: "python", Document: "01_intro.md", Mode: "loud", Surface: surface}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error for bad mode, got %v", err)
	}

	svc.renderErr = &assets.NotFoundError{Language: "spanish", Path: "spanish/python/01_intro.md"}
	err = h.Execute(ctx, RenderDocumentCommand{Language: "es", Section: "python", Document: "01_intro.md", Surface: surface})
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) || !errors.Is(err, assets.ErrAssetNotFound) {
		t.Fatalf("expected asset not found, got %v", err)
	}
}

func TestRegisterPortalCommands(t *testing.T) {
	reg := fixtures.NewRecordingRegistry()
	set, err := RegisterPortalCommands(reg, newStubService(t), nil)
	if err != nil {
		t.Fatalf("RegisterPortalCommands() error = %v", err)
	}
	if len(reg.Handlers) != 5 {
		t.Fatalf("expected 5 handlers registered, got %d", len(reg.Handlers))
	}
	if reg.Handlers[0] != any(set.SelectLanguage) {
		t.Fatalf("expected select language registered first")
	}

	if _, err := RegisterPortalCommands(nil, nil, nil); err == nil {
		t.Fatalf("expected error for nil service")
	}

	reg.Err = errors.New("registry closed")
	if _, err := RegisterPortalCommands(reg, newStubService(t), nil); err == nil {
		t.Fatalf("expected registry error")
	}
}
