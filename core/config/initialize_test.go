package config

import (
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	tempDir := t.TempDir()
	if _, err := Initialize(tempDir, log.New(ioutil.Discard, "", 0)); err != nil {
		t.Fatal(err)
	}

	// Check that the config is valid
	cfg, err := Load(tempDir)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("HistoryPath", func(t *testing.T) {
		assert.Equal(t, filepath.Join(tempDir, HistoryName), cfg.HistoryPath())
	})

	t.Run("OpenEventLog", func(t *testing.T) {
		fd, err := cfg.OpenEventLog()
		require.NoError(t, err)
		_, err = fd.WriteString("{}\n")
		assert.NoError(t, err)
		fd.Close()

		_, err = os.Stat(filepath.Join(tempDir, EventLogName))
		assert.NoError(t, err)
	})

	t.Run("ReadEventLog", func(t *testing.T) {
		fd, err := cfg.ReadEventLog()
		assert.Nil(t, err)
		fd.Close()
	})

	t.Run("LoadConfigFile", func(t *testing.T) {
		_, err := Load(filepath.Join(tempDir, ConfigurationName))
		assert.NoError(t, err)
	})
}

func TestInitializeKeepsExisting(t *testing.T) {
	fsys := afero.NewMemMapFs()
	custom := []byte("prompt: '$ '\ncolor: never\nautocorrect: false\ntrace: false\nhistory_limit: 0\naliases: {}\nextra_commands: []\n")
	require.NoError(t, afero.WriteFile(fsys, ConfigurationName, custom, 0600))

	require.NoError(t, InitializeFs(fsys, log.New(ioutil.Discard, "", 0)))

	cfg, err := LoadFs(fsys, "")
	require.NoError(t, err)
	assert.Equal(t, "$ ", cfg.Prompt)
	assert.Equal(t, ColorNever, cfg.Color)
}

func TestLoadOrInitialize(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "shellcraft")

	cfg, err := LoadOrInitialize(dir, log.New(ioutil.Discard, "", 0))
	require.NoError(t, err)
	assert.True(t, cfg.Autocorrect)

	_, err = os.Stat(filepath.Join(dir, ConfigurationName))
	assert.NoError(t, err)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.True(t, os.IsNotExist(err))
}
