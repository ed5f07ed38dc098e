// Package catalog serves the list of suggested exam topics.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaults embed.FS

// Loader loads and caches topic sets from YAML files.
type Loader struct {
	fsys   fs.FS
	topics map[string]Topic
	mu     sync.RWMutex
}

// Default returns a loader over the built-in topic list.
func Default() (*Loader, error) {
	sub, err := fs.Sub(defaults, "defaults")
	if err != nil {
		return nil, err
	}
	return NewLoader(sub)
}

// Open returns a loader for dir, or the built-in list when dir is empty.
func Open(dir string) (*Loader, error) {
	if dir == "" {
		return Default()
	}
	return NewLoader(os.DirFS(dir))
}

// NewLoader creates a loader and reads every .yaml/.yml file in fsys.
func NewLoader(fsys fs.FS) (*Loader, error) {
	l := &Loader{
		fsys:   fsys,
		topics: make(map[string]Topic),
	}

	if err := l.loadAll(); err != nil {
		return nil, fmt.Errorf("loading topic catalog: %w", err)
	}

	slog.Info("topic catalog loaded", "topics", len(l.topics))
	return l, nil
}

// GetTopic returns a topic by ID.
func (l *Loader) GetTopic(id string) (Topic, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.topics[id]
	return t, ok
}

// AllTopics returns every topic sorted by name.
func (l *Loader) AllTopics() []Topic {
	return l.ForGrade(0)
}

// ForGrade returns topics suggested for grade, sorted by name. Grade 0 means any.
func (l *Loader) ForGrade(grade int) []Topic {
	l.mu.RLock()
	topics := make([]Topic, 0, len(l.topics))
	for _, t := range l.topics {
		if grade == 0 || t.SuitsGrade(grade) {
			topics = append(topics, t)
		}
	}
	l.mu.RUnlock()

	sort.Slice(topics, func(i, j int) bool {
		return topics[i].Name < topics[j].Name
	})
	return topics
}

func (l *Loader) loadAll() error {
	return fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(path.Ext(p)) {
		case ".yaml", ".yml":
			return l.loadSet(p)
		}
		return nil
	})
}

func (l *Loader) loadSet(p string) error {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return err
	}

	var set topicSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		slog.Warn("skipping invalid topic YAML", "path", p, "error", err)
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range set.Topics {
		if t.ID == "" || strings.TrimSpace(t.Name) == "" {
			continue
		}
		if t.Subject == "" {
			t.Subject = set.Subject
		}
		l.topics[t.ID] = t
	}
	return nil
}
