package recording

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-lessons/pkg/interfaces"
)

func TestSurfaceRecordsInOrder(t *testing.T) {
	s := New()
	s.RenderTOC([]interfaces.TOCEntry{{Level: 2, Label: "A", Slug: "a"}})
	s.RenderProse("text")
	s.RenderCodeCell(0, "python", "x = 1")
	s.RenderOutput("1")
	s.RenderFigure(interfaces.Figure{Kind: interfaces.FigureBar})

	want := []Op{OpTOC, OpProse, OpCodeCell, OpOutput, OpFigure}
	if diff := cmp.Diff(want, s.Ops()); diff != "" {
		t.Fatalf("ops mismatch (-want +got):\n%s", diff)
	}

	calls := s.Calls()
	if calls[2].Index == nil || *calls[2].Index != 0 {
		t.Fatalf("expected cell index 0, got %+v", calls[2])
	}

	s.Reset()
	if len(s.Calls()) != 0 {
		t.Fatalf("expected reset to drop calls")
	}
}

func TestSurfaceWriteJSON(t *testing.T) {
	s := New()
	var empty bytes.Buffer
	if err := s.WriteJSON(&empty); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if got := bytes.TrimSpace(empty.Bytes()); string(got) != "[]" {
		t.Fatalf("expected empty array, got %s", got)
	}

	s.RenderAlert(interfaces.SeverityError, "Danger")
	var buf bytes.Buffer
	if err := s.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	want := []map[string]any{{"op": "alert", "severity": "error", "text": "Danger"}}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}
}
