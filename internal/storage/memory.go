package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dsmirnov/docshare/internal/common"
	"github.com/dsmirnov/docshare/internal/session"
)

// MemoryBackend is an in-memory Backend used in tests. The error
// injection funcs, when set, are consulted per path before each call.
type MemoryBackend struct {
	mu      sync.Mutex
	sess    *session.Session
	objects map[string][]byte

	PutErr    func(path string) error
	GetErr    func(path string) error
	DeleteErr func(path string) error
}

func NewMemoryBackend(sess *session.Session) *MemoryBackend {
	return &MemoryBackend{
		sess:    sess,
		objects: make(map[string][]byte),
	}
}

func (b *MemoryBackend) PutFile(ctx context.Context, path string, data []byte) error {
	if b.PutErr != nil {
		if err := b.PutErr(path); err != nil {
			return err
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[Key("", b.sess.Username, path)] = append([]byte(nil), data...)
	return nil
}

func (b *MemoryBackend) GetFile(ctx context.Context, path string, opts GetOptions) ([]byte, error) {
	if b.GetErr != nil {
		if err := b.GetErr(path); err != nil {
			return nil, err
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[Key(opts.Username, b.sess.Username, path)]
	if !ok {
		return nil, fmt.Errorf("get %q: %w", path, common.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

func (b *MemoryBackend) GetFileURL(ctx context.Context, path string, opts GetOptions) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := Key(opts.Username, b.sess.Username, path)
	if _, ok := b.objects[key]; !ok {
		return "", fmt.Errorf("url %q: %w", path, common.ErrNotFound)
	}
	return "memory://" + key, nil
}

func (b *MemoryBackend) DeleteFile(ctx context.Context, path string) error {
	if b.DeleteErr != nil {
		if err := b.DeleteErr(path); err != nil {
			return err
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	key := Key("", b.sess.Username, path)
	if _, ok := b.objects[key]; !ok {
		return fmt.Errorf("delete %q: %w", path, common.ErrNotFound)
	}
	delete(b.objects, key)
	return nil
}

func (b *MemoryBackend) ListFiles(ctx context.Context, prefix string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	keyPrefix := Key("", b.sess.Username, prefix)
	var paths []string
	for key := range b.objects {
		if strings.HasPrefix(key, keyPrefix) {
			paths = append(paths, strings.TrimPrefix(key, b.sess.Username+"/"))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// PutAs seeds an object into another user's namespace; used by sharing
// tests.
func (b *MemoryBackend) PutAs(username, path string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[Key(username, b.sess.Username, path)] = append([]byte(nil), data...)
}

// Object returns the stored bytes for path in the session's namespace.
func (b *MemoryBackend) Object(path string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[Key("", b.sess.Username, path)]
	return data, ok
}

// Len reports the number of stored objects across all namespaces.
func (b *MemoryBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}
