package core

import (
	"bufio"
	"bytes"
	"log"
	"os"
	"sync"

	"github.com/josephlewis42/shellcraft/core/config"
	"github.com/josephlewis42/shellcraft/core/shell"
	"github.com/spf13/afero"
)

// lineHistory is the list of lines shown by the history builtin.
type lineHistory struct {
	mu      sync.Mutex
	entries []string
	limit   int

	fs      afero.Fs
	onClear func()
}

var _ shell.History = (*lineHistory)(nil)

// loadHistory reads the lines readline persisted in earlier sessions.
func loadHistory(cfg *config.Configuration) (*lineHistory, error) {
	h := &lineHistory{limit: cfg.HistoryLimit, fs: cfg.Fs()}

	data, err := afero.ReadFile(h.fs, config.HistoryName)
	switch {
	case os.IsNotExist(err):
		return h, nil
	case err != nil:
		return nil, err
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		h.Add(scanner.Text())
	}
	return h, scanner.Err()
}

// Add appends line, dropping the oldest entries past the limit.
func (h *lineHistory) Add(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, line)
	if h.limit > 0 && len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
}

func (h *lineHistory) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}

// Clear forgets every line including the ones persisted to disk.
func (h *lineHistory) Clear() {
	h.mu.Lock()
	h.entries = nil
	h.mu.Unlock()

	if h.onClear != nil {
		h.onClear()
	}

	exists, _ := afero.Exists(h.fs, config.HistoryName)
	if !exists {
		return
	}
	if err := afero.WriteFile(h.fs, config.HistoryName, nil, 0600); err != nil {
		log.Printf("clearing history: %v", err)
	}
}
