package validation

import (
	"errors"
	"strings"
	"testing"
)

func validManifest() map[string]any {
	return map[string]any{
		"title": "Teachers guide",
		"sections": []any{
			map[string]any{
				"key":         "intro",
				"folder":      "intro",
				"mode":        "static",
				"collapsible": true,
				"documents": []any{
					map[string]any{"file": "01_intro.md"},
					map[string]any{"file": "02_standard_model.md", "video": "https://www.youtube.com/embed/x"},
				},
			},
		},
	}
}

func TestValidateManifest_Accepts(t *testing.T) {
	if err := ValidateManifest(validManifest()); err != nil {
		t.Fatalf("expected manifest to validate, got %v", err)
	}
}

func TestValidateManifest_Rejects(t *testing.T) {
	cases := map[string]func(m map[string]any){
		"missing sections": func(m map[string]any) { delete(m, "sections") },
		"unknown mode": func(m map[string]any) {
			section := m["sections"].([]any)[0].(map[string]any)
			section["mode"] = "interactive"
		},
		"document outside folder": func(m map[string]any) {
			section := m["sections"].([]any)[0].(map[string]any)
			section["documents"] = []any{map[string]any{"file": "../secret.md"}}
		},
		"non markdown document": func(m map[string]any) {
			section := m["sections"].([]any)[0].(map[string]any)
			section["documents"] = []any{map[string]any{"file": "notes.txt"}}
		},
		"unknown top level field": func(m map[string]any) { m["theme"] = "dark" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			manifest := validManifest()
			mutate(manifest)
			err := ValidateManifest(manifest)
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !errors.Is(err, ErrSchemaValidation) {
				t.Fatalf("expected ErrSchemaValidation, got %v", err)
			}
			if len(Issues(err)) == 0 {
				t.Fatalf("expected issues, got none")
			}
		})
	}
}

func TestValidateManifest_IssueLocation(t *testing.T) {
	manifest := validManifest()
	section := manifest["sections"].([]any)[0].(map[string]any)
	section["key"] = "Has Spaces"

	err := ValidateManifest(manifest)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	issues := Issues(err)
	if !strings.Contains(issues[0].Location, "/sections/0/key") {
		t.Fatalf("expected issue at /sections/0/key, got %+v", issues)
	}
	if !strings.Contains(err.Error(), "#/sections/0/key") {
		t.Fatalf("expected location in message, got %q", err.Error())
	}
}

func TestValidatePayload(t *testing.T) {
	schema := map[string]any{
		"type":     "object",
		"required": []any{"index"},
		"properties": map[string]any{
			"index": map[string]any{"type": "integer", "minimum": 0},
		},
	}
	if err := ValidatePayload(schema, map[string]any{"index": 2}); err != nil {
		t.Fatalf("expected payload to validate, got %v", err)
	}
	if err := ValidatePayload(schema, map[string]any{"index": -1}); !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	if err := ValidatePayload(nil, map[string]any{"anything": true}); err != nil {
		t.Fatalf("expected nil schema to accept, got %v", err)
	}
}
