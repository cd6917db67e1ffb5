package portal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/goliatone/go-lessons/internal/assets"
	"github.com/goliatone/go-lessons/internal/evaluator/sandbox"
	"github.com/goliatone/go-lessons/internal/i18n"
	"github.com/goliatone/go-lessons/internal/render"
	"github.com/goliatone/go-lessons/internal/surface/recording"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

const testManifest = `
title: Guide
sections:
  - key: intro
    folder: intro
    title: Introduction
    mode: static
    collapsible: true
    documents:
      - file: 01_intro.md
      - file: 02_missing.md
  - key: python
    folder: python
    title: Python
    mode: executable
    documents:
      - file: 01_intro.md
      - file: 02_untitled.md
`

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()

	docs := fstest.MapFS{
		"english/side_bar.md":           {Data: []byte("Welcome\nCoding\n")},
		"spanish/side_bar.md":           {Data: []byte("Bienvenida\nProgramación\n")},
		"english/intro/01_intro.md":     {Data: []byte("# Introduction\nFirst line of the intro.\nSecond line.\nThird line.\n## Details\nMore text.\n")},
		"spanish/intro/01_intro.md":     {Data: []byte("# Introducción\nPrimera línea.\n")},
		"english/python/01_intro.md":    {Data: []byte("# Python basics\n```python\nx = 2\n```\n```python\nprint(x * 3)\n```\n")},
		"english/python/02_untitled.md": {Data: []byte("---\ntitle: Histograms\n---\nNo header here.\n")},
	}

	manifest, err := ParseManifest([]byte(testManifest))
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}
	registry, err := i18n.NewRegistry(i18n.Config{DefaultLanguage: "English", Languages: []string{"English", "Spanish"}})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	opts = append([]Option{WithDispatcher(render.NewDispatcher(render.WithEvaluator(sandbox.New())))}, opts...)
	svc, err := NewService(manifest, assets.NewResolver(docs), registry, opts...)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

type surfaces map[string]*recording.Surface

func (s surfaces) factory() SurfaceFactory {
	return func(section Section, doc DocumentRef) interfaces.Surface {
		rec := recording.New()
		s[section.Key+"/"+doc.File] = rec
		return rec
	}
}

func TestService_LandingAndLanguage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	session := uuid.New()

	landing, err := svc.Landing(ctx, session, "es-MX,es;q=0.9")
	if err != nil {
		t.Fatalf("Landing() error = %v", err)
	}
	if landing.Language.Dir != "spanish" {
		t.Fatalf("expected accept-language match to spanish, got %q", landing.Language.Dir)
	}
	if len(landing.Languages) != 2 || !landing.Languages[1].Selected {
		t.Fatalf("unexpected language options %+v", landing.Languages)
	}

	if _, err := svc.SectionPage(ctx, session, "intro", surfaces{}.factory()); !errors.Is(err, ErrLanguageNotSelected) {
		t.Fatalf("expected ErrLanguageNotSelected, got %v", err)
	}

	lang, err := svc.SelectLanguage(ctx, session, "Spanish")
	if err != nil {
		t.Fatalf("SelectLanguage() error = %v", err)
	}
	if lang.Dir != "spanish" {
		t.Fatalf("expected spanish, got %q", lang.Dir)
	}
	current, selected, err := svc.Language(ctx, session)
	if err != nil || !selected || current.Dir != "spanish" {
		t.Fatalf("Language() = %v, %v, %v", current.Dir, selected, err)
	}

	if _, err := svc.SelectLanguage(ctx, session, "Klingon"); !errors.Is(err, i18n.ErrUnknownLanguage) {
		t.Fatalf("expected ErrUnknownLanguage, got %v", err)
	}

	if err := svc.ResetLanguage(ctx, session); err != nil {
		t.Fatalf("ResetLanguage() error = %v", err)
	}
	if _, selected, _ := svc.Language(ctx, session); selected {
		t.Fatalf("expected landing page after reset")
	}
}

func TestService_Sidebar(t *testing.T) {
	svc := newTestService(t)
	spanish, _ := svc.Languages().Find("es")

	sidebar, err := svc.Sidebar(context.Background(), spanish, "python")
	if err != nil {
		t.Fatalf("Sidebar() error = %v", err)
	}
	want := []Tab{
		{Key: "intro", Label: "Bienvenida"},
		{Key: "python", Label: "Programación", Active: true},
	}
	if diff := cmp.Diff(want, sidebar.Tabs); diff != "" {
		t.Fatalf("tabs mismatch (-want +got):\n%s", diff)
	}
	if sidebar.ChangeLanguage != "Cambiar idioma" {
		t.Fatalf("unexpected change language label %q", sidebar.ChangeLanguage)
	}
}

func TestService_SidebarMissingFile(t *testing.T) {
	manifest, _ := ParseManifest([]byte(testManifest))
	registry, _ := i18n.NewRegistry(i18n.Config{Languages: []string{"English"}})
	svc, err := NewService(manifest, assets.NewResolver(fstest.MapFS{}), registry)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	sidebar, err := svc.Sidebar(context.Background(), registry.Default(), "")
	if err != nil {
		t.Fatalf("Sidebar() error = %v", err)
	}
	if sidebar.Tabs[0].Label != "Introduction" || !sidebar.Tabs[0].Active {
		t.Fatalf("expected manifest titles and first tab active, got %+v", sidebar.Tabs)
	}
}

func TestService_CollapsibleSection(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	session := uuid.New()
	if _, err := svc.SelectLanguage(ctx, session, "English"); err != nil {
		t.Fatalf("SelectLanguage() error = %v", err)
	}

	recorded := surfaces{}
	page, err := svc.SectionPage(ctx, session, "intro", recorded.factory())
	if err != nil {
		t.Fatalf("SectionPage() error = %v", err)
	}
	if page.Title != "Welcome" {
		t.Fatalf("expected sidebar label as title, got %q", page.Title)
	}
	if len(page.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(page.Documents))
	}

	intro := page.Documents[0]
	if intro.Label != "Introduction" || intro.Expanded || intro.Toggle != "Read more" {
		t.Fatalf("unexpected collapsed view %+v", intro)
	}
	want := []recording.Call{
		{Op: recording.OpProse, Text: "# Introduction"},
		{Op: recording.OpProse, Text: "First line of the intro.\nSecond line."},
	}
	if diff := cmp.Diff(want, recorded["intro/01_intro.md"].Calls()); diff != "" {
		t.Fatalf("preview calls mismatch (-want +got):\n%s", diff)
	}

	missing := page.Documents[1]
	if !missing.Missing || missing.Label != "Missing" {
		t.Fatalf("unexpected missing view %+v", missing)
	}
	calls := recorded["intro/02_missing.md"].Calls()
	if len(calls) != 1 || calls[0].Op != recording.OpError || !strings.Contains(calls[0].Text, "English") {
		t.Fatalf("expected not found error call, got %+v", calls)
	}

	if err := svc.SetExpanded(ctx, session, "intro", "01_intro.md", true); err != nil {
		t.Fatalf("SetExpanded() error = %v", err)
	}
	recorded = surfaces{}
	page, err = svc.SectionPage(ctx, session, "intro", recorded.factory())
	if err != nil {
		t.Fatalf("SectionPage() error = %v", err)
	}
	if !page.Documents[0].Expanded || page.Documents[0].Toggle != "Done!" {
		t.Fatalf("expected expanded view, got %+v", page.Documents[0])
	}
	ops := recorded["intro/01_intro.md"].Ops()
	if len(ops) == 0 || ops[0] != recording.OpTOC {
		t.Fatalf("expected full render starting with toc, got %v", ops)
	}

	if err := svc.SetExpanded(ctx, session, "intro", "03_nope.md", true); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if _, err := svc.SectionPage(ctx, session, "nope", recorded.factory()); !errors.Is(err, ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
}

func TestService_HideTOC(t *testing.T) {
	svc := newTestService(t, WithHideTOC(true))
	ctx := context.Background()
	session := uuid.New()
	if _, err := svc.SelectLanguage(ctx, session, "English"); err != nil {
		t.Fatalf("SelectLanguage() error = %v", err)
	}
	if err := svc.SetExpanded(ctx, session, "intro", "01_intro.md", true); err != nil {
		t.Fatalf("SetExpanded() error = %v", err)
	}
	recorded := surfaces{}
	if _, err := svc.SectionPage(ctx, session, "intro", recorded.factory()); err != nil {
		t.Fatalf("SectionPage() error = %v", err)
	}
	for _, op := range recorded["intro/01_intro.md"].Ops() {
		if op == recording.OpTOC {
			t.Fatalf("expected no toc call, got %v", recorded["intro/01_intro.md"].Ops())
		}
	}
}

func TestService_ExecutableSectionAndRunCell(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	session := uuid.New()
	if _, err := svc.SelectLanguage(ctx, session, "English"); err != nil {
		t.Fatalf("SelectLanguage() error = %v", err)
	}

	recorded := surfaces{}
	page, err := svc.SectionPage(ctx, session, "python", recorded.factory())
	if err != nil {
		t.Fatalf("SectionPage() error = %v", err)
	}
	if !page.Documents[0].Expanded {
		t.Fatalf("expected non collapsible documents expanded")
	}
	if page.Documents[1].Label != "Histograms" {
		t.Fatalf("expected frontmatter title fallback, got %q", page.Documents[1].Label)
	}
	if got := outputs(recorded["python/01_intro.md"]); !cmp.Equal(got, []string{"6\n"}) {
		t.Fatalf("unexpected outputs %q", got)
	}

	if err := svc.RunCell(ctx, session, "python", "01_intro.md", 0, "x = 5"); err != nil {
		t.Fatalf("RunCell() error = %v", err)
	}
	recorded = surfaces{}
	if _, err := svc.SectionPage(ctx, session, "python", recorded.factory()); err != nil {
		t.Fatalf("SectionPage() error = %v", err)
	}
	if got := outputs(recorded["python/01_intro.md"]); !cmp.Equal(got, []string{"15\n"}) {
		t.Fatalf("expected override to change output, got %q", got)
	}

	if err := svc.RunCell(ctx, session, "python", "01_intro.md", -1, "x"); err == nil {
		t.Fatalf("expected error for negative cell index")
	}
}

func TestService_RenderDocument(t *testing.T) {
	svc := newTestService(t)
	section, ref, err := svc.Manifest().Lookup("python", "01_intro.md")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	rec := recording.New()
	report, err := svc.RenderDocument(context.Background(), rec, svc.Languages().Default(), section, ref, render.Options{Mode: render.ModeStatic})
	if err != nil {
		t.Fatalf("RenderDocument() error = %v", err)
	}
	if report.Cells != 2 || len(report.Failures) != 0 {
		t.Fatalf("expected two read-only cells, got %d cells and %d failures", report.Cells, len(report.Failures))
	}
	for _, op := range rec.Ops() {
		if op == recording.OpCodeCell || op == recording.OpOutput {
			t.Fatalf("unexpected executable call %s in static render", op)
		}
	}

	spanish, _ := svc.Languages().Find("Spanish")
	_, err = svc.RenderDocument(context.Background(), recording.New(), spanish, section, ref, render.Options{})
	if !errors.Is(err, assets.ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
}

func outputs(rec *recording.Surface) []string {
	var out []string
	for _, call := range rec.Calls() {
		if call.Op == recording.OpOutput {
			out = append(out, call.Text)
		}
	}
	return out
}
