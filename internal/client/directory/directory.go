// Package directory supplies the member and church records shown by the
// console, together with the table schemas used to list them.
package directory

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/flock/internal/client/models"
)

// Source loads directory records.
type Source interface {
	Members(ctx context.Context) ([]models.Member, error)
	Churches(ctx context.Context) ([]models.Church, error)
}

// Snapshot is the JSON document read by FileSource.
type Snapshot struct {
	Members  []models.Member `json:"members"`
	Churches []models.Church `json:"churches"`
}

//go:embed demo.json
var demoJSON []byte

// StaticSource serves a fixed snapshot.
type StaticSource struct {
	snap Snapshot
}

func NewStaticSource(s Snapshot) *StaticSource {
	return &StaticSource{snap: s}
}

// Demo returns the bundled sample directory.
func Demo() (*StaticSource, error) {
	var s Snapshot
	if err := json.Unmarshal(demoJSON, &s); err != nil {
		return nil, fmt.Errorf("demo directory: %w", err)
	}
	return NewStaticSource(s), nil
}

func (s *StaticSource) Members(context.Context) ([]models.Member, error) {
	return append([]models.Member(nil), s.snap.Members...), nil
}

func (s *StaticSource) Churches(context.Context) ([]models.Church, error) {
	return append([]models.Church(nil), s.snap.Churches...), nil
}

// FileSource re-reads a JSON snapshot from disk on every call, so edits show
// up without restarting the console.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) load() (Snapshot, error) {
	var s Snapshot
	b, err := os.ReadFile(f.path)
	if err != nil {
		return s, fmt.Errorf("read directory %s: %w", f.path, err)
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("parse directory %s: %w", f.path, err)
	}
	return s, nil
}

func (f *FileSource) Members(context.Context) ([]models.Member, error) {
	s, err := f.load()
	return s.Members, err
}

func (f *FileSource) Churches(context.Context) ([]models.Church, error) {
	s, err := f.load()
	return s.Churches, err
}
