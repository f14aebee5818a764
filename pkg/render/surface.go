package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Surface is the region the Presenter writes into. It only supports
// whole-content replacement.
type Surface interface {
	// Content returns the markup currently held by the surface.
	Content() (string, error)
	// Replace swaps the entire content for markup.
	Replace(markup string) error
}

// MemorySurface keeps the markup in memory and notifies subscribers of every replacement.
type MemorySurface struct {
	mu      sync.RWMutex
	content string
	subs    map[chan string]struct{}
}

// NewMemorySurface creates a surface holding initial.
func NewMemorySurface(initial string) *MemorySurface {
	return &MemorySurface{
		content: initial,
		subs:    make(map[chan string]struct{}),
	}
}

// Content implements Surface.
func (s *MemorySurface) Content() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content, nil
}

// Replace implements Surface. Subscribers that are not keeping up miss
// intermediate contents but always receive a later one.
func (s *MemorySurface) Replace(markup string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content = markup
	for ch := range s.subs {
		select {
		case ch <- markup:
		default:
			// Drop the stale value and deliver the latest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- markup:
			default:
			}
		}
	}
	return nil
}

// Subscribe returns a channel receiving each new content and a function that
// ends the subscription.
func (s *MemorySurface) Subscribe() (<-chan string, func()) {
	ch := make(chan string, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			s.mu.Unlock()
		})
	}
}

// FileSurface stores the markup in a file. Every replacement writes a
// temporary file next to the target and renames it into place, so readers
// never observe a partial render.
type FileSurface struct {
	path     string
	fallback string
}

// NewFileSurface creates a surface backed by path. When the file does not
// exist yet, Content reports fallback.
func NewFileSurface(path, fallback string) *FileSurface {
	return &FileSurface{path: path, fallback: fallback}
}

// Path returns the file the surface writes to.
func (s *FileSurface) Path() string { return s.path }

// Content implements Surface.
func (s *FileSurface) Content() (string, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s.fallback, nil
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Replace implements Surface.
func (s *FileSurface) Replace(markup string) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.WriteString(markup); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
