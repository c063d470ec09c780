// Package testutil provides test doubles shared by the package tests: an
// in-memory filesystem with error injection and small helpers for building
// rebar project trees on disk.
package testutil

import (
	"io/fs"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// MemoryFS implements filesystem.FS with in-memory storage
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool

	// Error injection
	errorPaths map[string]error
}

// NewMemoryFS creates a new in-memory filesystem
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		files:      make(map[string][]byte),
		dirs:       map[string]bool{"/": true},
		errorPaths: make(map[string]error),
	}
}

// WriteFile stores a file, creating parent directories implicitly
func (m *MemoryFS) WriteFile(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name = path.Clean(name)
	m.files[name] = data
	for dir := path.Dir(name); dir != "/" && dir != "."; dir = path.Dir(dir) {
		m.dirs[dir] = true
	}
}

// MkdirAll records a directory and its parents
func (m *MemoryFS) MkdirAll(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for dir := path.Clean(name); dir != "/" && dir != "."; dir = path.Dir(dir) {
		m.dirs[dir] = true
	}
}

// FailWith makes any operation on name return err
func (m *MemoryFS) FailWith(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorPaths[path.Clean(name)] = err
}

// Remove deletes a file or directory entry (children are kept; use this to
// simulate a path vanishing between glob expansion and the stat call)
func (m *MemoryFS) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name = path.Clean(name)
	delete(m.files, name)
	delete(m.dirs, name)
}

func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	name = path.Clean(name)
	if err, ok := m.errorPaths[name]; ok {
		return nil, err
	}
	data, ok := m.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return data, nil
}

func (m *MemoryFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	name = path.Clean(name)
	if err, ok := m.errorPaths[name]; ok {
		return nil, err
	}
	if data, ok := m.files[name]; ok {
		return &memInfo{name: path.Base(name), size: int64(len(data)), mode: 0644}, nil
	}
	if m.dirs[name] {
		return &memInfo{name: path.Base(name), mode: 0755 | fs.ModeDir}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

func (m *MemoryFS) Glob(pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pattern = path.Clean(pattern)
	seen := make(map[string]bool)
	var matches []string
	add := func(p string) error {
		ok, err := doublestar.Match(pattern, p)
		if err != nil {
			return err
		}
		if ok && !seen[p] {
			seen[p] = true
			matches = append(matches, p)
		}
		return nil
	}
	for p := range m.files {
		if err := add(p); err != nil {
			return nil, err
		}
	}
	for p := range m.dirs {
		if err := add(p); err != nil {
			return nil, err
		}
	}
	// Globs on a real filesystem come back in lexical order; mirror that so
	// traversal order is deterministic in tests.
	sort.Strings(matches)
	return matches, nil
}

// memInfo is a minimal fs.FileInfo for in-memory entries
type memInfo struct {
	name string
	size int64
	mode fs.FileMode
}

func (i *memInfo) Name() string       { return i.name }
func (i *memInfo) Size() int64        { return i.size }
func (i *memInfo) Mode() fs.FileMode  { return i.mode }
func (i *memInfo) ModTime() time.Time { return time.Time{} }
func (i *memInfo) IsDir() bool        { return i.mode.IsDir() }
func (i *memInfo) Sys() interface{}   { return nil }
