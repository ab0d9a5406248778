package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/BurntSushi/toml"
)

// ErrInvalidProfile is returned for profile names that cannot be used as a
// file name.
var ErrInvalidProfile = errors.New("invalid profile name")

// ErrCorruptProfile is returned when a profile file exists but is not valid
// TOML for a profile record.
var ErrCorruptProfile = errors.New("corrupt profile file")

var profilePattern = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9_.-]{0,63}$`)

// Store loads and saves per-profile data. Implementations must be safe for
// concurrent use; SSH and web sessions share one store.
type Store interface {
	LoadSettings(profile string) (Settings, error)
	SaveSettings(profile string, s Settings) error
	LoadBest(profile string) (int, error)
	SaveBest(profile string, best int) error
}

// Compile-time checks.
var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

// record is the on-disk layout of one profile.
type record struct {
	Best     int      `toml:"best"`
	Settings Settings `toml:"settings"`
}

func defaultRecord() record {
	return record{Settings: DefaultSettings()}
}

// FileStore keeps one TOML file per profile in a directory.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// ValidateProfile returns ErrInvalidProfile if name cannot be stored.
func ValidateProfile(name string) error {
	if !profilePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidProfile, name)
	}
	return nil
}

func (f *FileStore) path(profile string) string {
	return filepath.Join(f.dir, profile+".toml")
}

// read loads a profile's record. A missing file yields the defaults; keys
// absent from the file keep their defaults. On a decode error the defaults
// are returned alongside the error.
func (f *FileStore) read(profile string) (record, error) {
	if err := ValidateProfile(profile); err != nil {
		return defaultRecord(), err
	}
	rec := defaultRecord()
	if _, err := toml.DecodeFile(f.path(profile), &rec); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultRecord(), nil
		}
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return defaultRecord(), fmt.Errorf("read profile %s: %w", profile, err)
		}
		return defaultRecord(), fmt.Errorf("%w %s: %w", ErrCorruptProfile, profile, err)
	}
	if rec.Best < 0 {
		rec.Best = 0
	}
	return rec, nil
}

// write replaces a profile's file atomically.
func (f *FileStore) write(profile string, rec record) error {
	tmp, err := os.CreateTemp(f.dir, profile+".*.tmp")
	if err != nil {
		return fmt.Errorf("write profile %s: %w", profile, err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(rec); err != nil {
		tmp.Close()
		return fmt.Errorf("encode profile %s: %w", profile, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write profile %s: %w", profile, err)
	}
	if err := os.Rename(tmp.Name(), f.path(profile)); err != nil {
		return fmt.Errorf("write profile %s: %w", profile, err)
	}
	return nil
}

// update applies fn to the stored record and writes it back. A corrupt file
// is overwritten rather than blocking saves forever; any other read error is
// returned and the file is left alone.
func (f *FileStore) update(profile string, fn func(*record)) error {
	if err := ValidateProfile(profile); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, err := f.read(profile)
	if err != nil && !errors.Is(err, ErrCorruptProfile) {
		return err
	}
	fn(&rec)
	return f.write(profile, rec)
}

// LoadSettings returns the profile's settings.
func (f *FileStore) LoadSettings(profile string) (Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, err := f.read(profile)
	return rec.Settings, err
}

// SaveSettings stores the profile's settings.
func (f *FileStore) SaveSettings(profile string, s Settings) error {
	return f.update(profile, func(rec *record) { rec.Settings = s })
}

// LoadBest returns the profile's best score.
func (f *FileStore) LoadBest(profile string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, err := f.read(profile)
	return rec.Best, err
}

// SaveBest stores the profile's best score. Lower values than the stored one
// are ignored, so concurrent sessions of one profile never lose a record.
func (f *FileStore) SaveBest(profile string, best int) error {
	return f.update(profile, func(rec *record) {
		rec.Best = max(rec.Best, best)
	})
}

// MemoryStore keeps profiles in memory. Used when no data directory is
// available, and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]record)}
}

func (m *MemoryStore) get(profile string) record {
	if rec, ok := m.records[profile]; ok {
		return rec
	}
	return defaultRecord()
}

// LoadSettings returns the profile's settings.
func (m *MemoryStore) LoadSettings(profile string) (Settings, error) {
	if err := ValidateProfile(profile); err != nil {
		return DefaultSettings(), err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(profile).Settings, nil
}

// SaveSettings stores the profile's settings.
func (m *MemoryStore) SaveSettings(profile string, s Settings) error {
	if err := ValidateProfile(profile); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.get(profile)
	rec.Settings = s
	m.records[profile] = rec
	return nil
}

// LoadBest returns the profile's best score.
func (m *MemoryStore) LoadBest(profile string) (int, error) {
	if err := ValidateProfile(profile); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(profile).Best, nil
}

// SaveBest stores the profile's best score if it beats the stored one.
func (m *MemoryStore) SaveBest(profile string, best int) error {
	if err := ValidateProfile(profile); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.get(profile)
	rec.Best = max(rec.Best, best)
	m.records[profile] = rec
	return nil
}
