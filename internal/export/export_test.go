package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ssmithers/aidebate/internal/core"
)

func exportSession() *core.Session {
	return &core.Session{
		ID:     "abcdef12-3456-7890-abcd-ef1234567890",
		Topic:  "Should governments subsidize nuclear power?",
		Format: "policy",
		Models: map[core.Side]string{
			core.SideAffirmative: "glm-flash",
			core.SideNegative:    "claude-sonnet",
		},
		Status:    core.StatusCompleted,
		CreatedAt: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		Turns: []core.Turn{
			{
				Number:        1,
				Slot:          core.SpeechSlot{Label: "1AC", Kind: core.KindConstructive, Side: core.SideAffirmative, Speaker: "1A"},
				ModeratorNote: "Opening statements, please.",
				Response: core.Response{
					ModelAlias: "glm-flash",
					Side:       core.SideAffirmative,
					Speaker:    "1A",
					Content:    "Nuclear delivers baseload power with near-zero emissions <sup>[1]</sup>.",
					Citations:  []core.Citation{{ID: 1, Text: "IAEA 2025 outlook"}},
				},
			},
			{
				Number: 2,
				Slot:   core.SpeechSlot{Label: "CX by 2N", Kind: core.KindCXQuestion, Side: core.SideNegative, Speaker: "2N"},
				Response: core.Response{
					ModelAlias: "claude-sonnet",
					Side:       core.SideNegative,
					Speaker:    "2N",
					Content:    "What is your plan for waste storage?",
				},
			},
		},
	}
}

func TestGetExporter(t *testing.T) {
	cases := []struct {
		format Format
		ext    string
	}{
		{FormatMarkdown, "md"},
		{FormatPDF, "pdf"},
		{FormatJSON, "json"},
	}

	for _, tc := range cases {
		exporter, err := GetExporter(tc.format)
		if err != nil {
			t.Fatalf("%s: %v", tc.format, err)
		}
		if exporter.FileExtension() != tc.ext {
			t.Errorf("%s extension: got %s, want %s", tc.format, exporter.FileExtension(), tc.ext)
		}
	}

	if _, err := GetExporter("docx"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestMarkdownExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&MarkdownExporter{}).Export(exportSession(), &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Policy Debate Transcript",
		"**Topic**: Should governments subsidize nuclear power?",
		"## Legend",
		"**1AC**: First Affirmative Constructive",
		"### [Moderator]",
		"Opening statements, please.",
		"### 1AC (Affirmative)",
		"**Speaker**: 1A",
		"1. IAEA 2025 outlook",
		"### CX by 2N (Negative)",
		"What is your plan for waste storage?",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestJSONExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(exportSession(), &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, `"topic": "Should governments subsidize nuclear power?"`) {
		t.Errorf("json missing topic: %s", out)
	}
	if !strings.Contains(out, `"speech": "1AC"`) {
		t.Errorf("json missing speech slot")
	}
}

func TestPDFExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&PDFExporter{}).Export(exportSession(), &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("output is not a PDF document")
	}
	if buf.Len() < 1000 {
		t.Errorf("pdf suspiciously small: %d bytes", buf.Len())
	}
}

func TestGenerateFilename(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		got := GenerateFilename(exportSession(), "md")
		want := "debate-should-governments-subsidize-nuclear-power-abcdef12.md"
		if got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	})

	t.Run("LongTopicTruncated", func(t *testing.T) {
		session := exportSession()
		session.Topic = strings.Repeat("a", 80)
		got := GenerateFilename(session, "pdf")
		want := "debate-" + strings.Repeat("a", 50) + "-abcdef12.pdf"
		if got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	})

	t.Run("UnsafeCharactersDropped", func(t *testing.T) {
		session := exportSession()
		session.Topic = `Is "AI" safe? Yes/No`
		got := GenerateFilename(session, "json")
		want := "debate-is-ai-safe-yes-no-abcdef12.json"
		if got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	})
}
