package progress

import (
	"bytes"
	"testing"
)

func TestNewReporterCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter("Warming cache").(*CIReporter); !ok {
		t.Error("expected a CIReporter when CI is set")
	}
}

func TestNewReporterTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	if _, ok := NewReporter("Warming cache").(*TerminalReporter); !ok {
		t.Error("expected a TerminalReporter outside CI")
	}
}

func TestCIReporterOutput(t *testing.T) {
	var buf bytes.Buffer
	r := NewCIReporter("Warming cache", &buf)
	r.Start(2)
	r.Update(1, "content/llm/intro.md")
	r.Update(2, "content/llm/rag.md")
	r.Finish()

	want := "Warming cache: 2 files\n" +
		"[1/2] content/llm/intro.md\n" +
		"[2/2] content/llm/rag.md\n" +
		"Warming cache: complete\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
