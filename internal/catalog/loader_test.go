package catalog_test

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/p-n-ai/exam-gen/internal/catalog"
)

func TestDefault(t *testing.T) {
	loader, err := catalog.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	topics := loader.AllTopics()
	if len(topics) != 8 {
		t.Errorf("AllTopics() = %d topics, want 8", len(topics))
	}
	topic, found := loader.GetTopic("fractions")
	if !found {
		t.Fatal("GetTopic(fractions) not found")
	}
	if topic.Subject != "General" {
		t.Errorf("Subject = %q, want inherited General", topic.Subject)
	}
}

func TestLoader_SortedByName(t *testing.T) {
	loader, err := catalog.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	topics := loader.AllTopics()
	for i := 1; i < len(topics); i++ {
		if topics[i-1].Name > topics[i].Name {
			t.Errorf("topics not sorted: %q before %q", topics[i-1].Name, topics[i].Name)
		}
	}
}

func TestLoader_ForGrade(t *testing.T) {
	fsys := fstest.MapFS{
		"science.yaml": {Data: []byte(`
subject: Science
topics:
  - id: cells
    name: Cells
    min_grade: 6
    max_grade: 9
  - id: weather
    name: Weather
`)},
	}

	loader, err := catalog.NewLoader(fsys)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	if got := loader.ForGrade(3); len(got) != 1 || got[0].ID != "weather" {
		t.Errorf("ForGrade(3) = %+v, want only weather", got)
	}
	if got := loader.ForGrade(7); len(got) != 2 {
		t.Errorf("ForGrade(7) = %d topics, want 2", len(got))
	}
	if got := loader.ForGrade(10); len(got) != 1 {
		t.Errorf("ForGrade(10) = %d topics, want 1", len(got))
	}
}

func TestLoader_SkipsInvalidEntries(t *testing.T) {
	fsys := fstest.MapFS{
		"broken.yaml": {Data: []byte("topics: [unclosed")},
		"notes.md":    {Data: []byte("# not yaml")},
		"partial.yml": {Data: []byte(`
topics:
  - id: ""
    name: No ID
  - id: blank
    name: "  "
  - id: ok
    name: Valid
`)},
	}

	loader, err := catalog.NewLoader(fsys)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	topics := loader.AllTopics()
	if len(topics) != 1 || topics[0].ID != "ok" {
		t.Errorf("AllTopics() = %+v, want only ok", topics)
	}
}

func TestOpen_Directory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "maths")
	os.MkdirAll(sub, 0o755)
	os.WriteFile(filepath.Join(sub, "algebra.yaml"), []byte(`
subject: Maths
topics:
  - id: linear-equations
    name: Linear Equations
`), 0o644)

	loader, err := catalog.Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, found := loader.GetTopic("linear-equations"); !found {
		t.Error("GetTopic(linear-equations) not found")
	}
}

func TestOpen_EmptyUsesDefaults(t *testing.T) {
	loader, err := catalog.Open("")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if len(loader.AllTopics()) == 0 {
		t.Error("Open(\"\") should fall back to the built-in topics")
	}
}

func TestOpen_MissingDirectory(t *testing.T) {
	_, err := catalog.Open(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("Open() should fail for a missing directory")
	}
}

func TestTopic_SuitsGrade(t *testing.T) {
	open := catalog.Topic{}
	if !open.SuitsGrade(1) || !open.SuitsGrade(12) {
		t.Error("topic without bounds should suit every grade")
	}
}
