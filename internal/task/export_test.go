package task

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

func exportFixture() []Task {
	created := NewTimestamp(time.Date(2024, 3, 10, 9, 30, 0, 0, time.Local))
	updated := NewTimestamp(time.Date(2024, 3, 11, 18, 5, 9, 0, time.Local))
	return []Task{
		{ID: 1, Description: "Buy milk", Status: StatusDone, CreatedAt: created, UpdatedAt: updated},
		{ID: 3, Description: "Call: the plumber", Status: StatusTodo, CreatedAt: created, UpdatedAt: created},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "", want: FormatJSON},
		{input: "json", want: FormatJSON},
		{input: "JSON", want: FormatJSON},
		{input: "yaml", want: FormatYAML},
		{input: "yml", want: FormatYAML},
		{input: " toml ", want: FormatTOML},
		{input: "csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExportJSONMatchesStoreLayout(t *testing.T) {
	tasks := exportFixture()

	var exported, stored bytes.Buffer
	if err := Export(&exported, tasks, FormatJSON); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if err := EncodeTasks(&stored, tasks); err != nil {
		t.Fatal(err)
	}
	if exported.String() != stored.String() {
		t.Errorf("export differs from store layout:\n%s\nvs\n%s", exported.String(), stored.String())
	}
}

func TestExportYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, exportFixture(), FormatYAML); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"- id: 1",
		"description: Buy milk",
		"status: done",
		`createdAt: "2024-03-10T09:30:00"`,
		`description: 'Call: the plumber'`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("yaml output missing %q:\n%s", want, out)
		}
	}

	var back []Task
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("yaml.Unmarshal failed: %v", err)
	}
	if !sameTasks(back, exportFixture()) {
		t.Errorf("yaml round trip: got %+v", back)
	}
}

func TestExportTOML(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, exportFixture(), FormatTOML); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"[[tasks]]",
		"id = 1",
		`description = "Buy milk"`,
		`updatedAt = "2024-03-11T18:05:09"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("toml output missing %q:\n%s", want, out)
		}
	}

	var doc tomlDocument
	if _, err := toml.Decode(out, &doc); err != nil {
		t.Fatalf("toml.Decode failed: %v", err)
	}
	if !sameTasks(doc.Tasks, exportFixture()) {
		t.Errorf("toml round trip: got %+v", doc.Tasks)
	}
}

func TestExportEmptyCollection(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{format: FormatJSON, want: "[]\n"},
		{format: FormatYAML, want: "[]\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Export(&buf, nil, tt.format); err != nil {
				t.Fatalf("Export failed: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestExportUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, exportFixture(), Format("xml")); err == nil {
		t.Error("expected error for unknown format")
	}
}
