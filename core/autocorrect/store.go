package autocorrect

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// storeFile is the top-level YAML structure.
type storeFile struct {
	Commands []string `yaml:"commands"`
}

// Store holds the command names learned from successful runs. It's safe for
// concurrent use.
type Store struct {
	fs   afero.Fs
	path string

	mu       sync.Mutex
	commands []string
}

// NewStore creates an empty store persisted at path in fsys. Call Load to
// read the existing contents.
func NewStore(fsys afero.Fs, path string) *Store {
	return &Store{fs: fsys, path: path}
}

// Load replaces the store's contents with the file's. A missing file is an
// empty store. A file that can't be parsed is logged and treated as empty so
// one bad write doesn't lock the user out of learning.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commands = nil

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read learned commands: %w", err)
	}

	var sf storeFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		log.Printf("parse learned commands %s: %v, starting empty", s.path, err)
		return nil
	}

	for _, cmd := range sf.Commands {
		if cmd != "" && !contains(s.commands, cmd) {
			s.commands = append(s.commands, cmd)
		}
	}
	return nil
}

// Save writes the store's contents to its file.
func (s *Store) Save() error {
	s.mu.Lock()
	sf := storeFile{Commands: append([]string{}, s.commands...)}
	s.mu.Unlock()

	data, err := yaml.Marshal(&sf)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(s.fs, s.path, data, 0600); err != nil {
		return fmt.Errorf("write learned commands: %w", err)
	}
	return nil
}

// Commands returns the learned names in the order they were learned.
func (s *Store) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

// Add learns name, it returns false if it was already known.
func (s *Store) Add(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" || contains(s.commands, name) {
		return false
	}
	s.commands = append(s.commands, name)
	return true
}

// Forget removes name, it returns false if it wasn't learned.
func (s *Store) Forget(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, cmd := range s.commands {
		if cmd == name {
			s.commands = append(s.commands[:i], s.commands[i+1:]...)
			return true
		}
	}
	return false
}

// Lookup finds a learned command ignoring case.
func (s *Store) Lookup(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cmd := range s.commands {
		if strings.EqualFold(cmd, name) {
			return cmd, true
		}
	}
	return "", false
}

func contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}
