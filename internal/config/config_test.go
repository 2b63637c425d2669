package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/modelseal/internal/config"
)

func valid() config.Config {
	return config.Config{
		Key:      "pw",
		Ext:      ".secret",
		Parallel: 1,
		Mode:     config.ModeEncrypt,
		Files:    []string{"model.pt"},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "key file instead of key", mutate: func(c *config.Config) { c.Key, c.KeyFile = "", "key.txt" }},
		{name: "no key", mutate: func(c *config.Config) { c.Key = "" }, wantErr: true},
		{name: "key and key file", mutate: func(c *config.Config) { c.KeyFile = "key.txt" }, wantErr: true},
		{name: "no files", mutate: func(c *config.Config) { c.Files = nil }, wantErr: true},
		{name: "zero parallel", mutate: func(c *config.Config) { c.Parallel = 0 }, wantErr: true},
		{name: "ext without dot", mutate: func(c *config.Config) { c.Ext = "secret" }, wantErr: true},
		{name: "ext with separator", mutate: func(c *config.Config) { c.Ext = ".sec/ret" }, wantErr: true},
		{name: "empty ext", mutate: func(c *config.Config) { c.Ext = "" }, wantErr: true},
		{name: "unknown mode", mutate: func(c *config.Config) { c.Mode = "redact" }, wantErr: true},
		{name: "output when encrypting", mutate: func(c *config.Config) { c.Output = "out" }, wantErr: true},
		{
			name:   "output when decrypting one file",
			mutate: func(c *config.Config) { c.Mode, c.Output = config.ModeDecrypt, "out" },
		},
		{
			name: "output with several files",
			mutate: func(c *config.Config) {
				c.Mode, c.Output, c.Files = config.ModeDecrypt, "out", []string{"a.secret", "b.secret"}
			},
			wantErr: true,
		},
		{name: "quiet and verbose", mutate: func(c *config.Config) { c.Quiet, c.Verbose = true, true }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, config.ErrInvalid)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestPassphrase(t *testing.T) {
	t.Parallel()

	cfg := valid()

	got, err := cfg.Passphrase()
	require.NoError(t, err)
	assert.Equal(t, "pw", got)

	dir := t.TempDir()

	for name, content := range map[string]string{
		"plain": "from file",
		"lf":    "from file\n",
		"crlf":  "from file\r\n",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg := valid()
		cfg.Key, cfg.KeyFile = "", path

		got, err := cfg.Passphrase()
		require.NoError(t, err)
		assert.Equal(t, "from file", got, name)
	}

	cfg.Key, cfg.KeyFile = "", filepath.Join(dir, "missing")

	_, err = cfg.Passphrase()
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRedacted(t *testing.T) {
	t.Parallel()

	cfg := valid()
	redacted := cfg.Redacted()

	assert.Equal(t, "<redacted>", redacted.Key)
	assert.Equal(t, "pw", cfg.Key)

	cfg.Key = ""
	assert.Empty(t, cfg.Redacted().Key)
}
