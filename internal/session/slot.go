package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"lottery-forum/internal/domain"
)

// LocalKey names the single slot used by a one-user client.
const LocalKey = "user"

// ErrEmpty is returned by Slot.Load when nothing is persisted.
var ErrEmpty = errors.New("session slot is empty")

// Slot is one durable key-value cell holding the serialised current identity.
type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, b []byte) error
	Remove(ctx context.Context) error
}

// Slots hands out the slot for a session key.
type Slots interface {
	Slot(key string) Slot
}

func encodeIdentity(id *domain.Identity) ([]byte, error) { return json.Marshal(id) }

func decodeIdentity(b []byte) (*domain.Identity, error) {
	var id domain.Identity
	if err := json.Unmarshal(b, &id); err != nil {
		return nil, err
	}
	if id.ID == "" || !id.Role.Valid() {
		return nil, fmt.Errorf("malformed identity record")
	}
	return &id, nil
}

// ---------- memory ----------

type MemorySlots struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemorySlots() *MemorySlots { return &MemorySlots{data: map[string][]byte{}} }

func (m *MemorySlots) Slot(key string) Slot { return memorySlot{m: m, key: key} }

func (m *MemorySlots) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

type memorySlot struct {
	m   *MemorySlots
	key string
}

func (s memorySlot) Load(context.Context) ([]byte, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	b, ok := s.m.data[s.key]
	if !ok {
		return nil, ErrEmpty
	}
	return append([]byte(nil), b...), nil
}

func (s memorySlot) Save(_ context.Context, b []byte) error {
	s.m.mu.Lock()
	s.m.data[s.key] = append([]byte(nil), b...)
	s.m.mu.Unlock()
	return nil
}

func (s memorySlot) Remove(context.Context) error {
	s.m.mu.Lock()
	delete(s.m.data, s.key)
	s.m.mu.Unlock()
	return nil
}

// ---------- file ----------

// FileSlots keeps one JSON file per key under Dir.
type FileSlots struct {
	Dir string
}

func (f FileSlots) Slot(key string) Slot {
	name := filepath.Base(strings.TrimSpace(key))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = LocalKey
	}
	return &FileSlot{Path: filepath.Join(f.Dir, name+".json")}
}

// FileSlot is one file. Saves write a private temp file and rename it over
// Path, so concurrent writers never interleave and readers see a whole file.
type FileSlot struct {
	Path string
}

func (s *FileSlot) Load(context.Context) ([]byte, error) {
	b, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil, ErrEmpty
	}
	return b, err
}

func (s *FileSlot) Save(_ context.Context, b []byte) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}

func (s *FileSlot) Remove(context.Context) error {
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
