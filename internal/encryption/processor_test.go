package encryption_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/idelchi/modelseal/internal/config"
	"github.com/idelchi/modelseal/internal/encryption"
)

func newConfig(mode config.Mode, key string, files ...string) *config.Config {
	return &config.Config{
		Key:      key,
		Ext:      ".secret",
		Parallel: 2,
		Quiet:    true,
		Mode:     mode,
		Files:    files,
	}
}

func process(t *testing.T, cfg *config.Config) (int, int, error) {
	t.Helper()

	proc, err := encryption.NewProcessor(cfg, zap.NewNop().Sugar())
	require.NoError(t, err)

	processed, errored, _, err := proc.ProcessFiles()

	return processed, errored, err
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	return names
}

func TestProcessorRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	weights := bytes.Repeat([]byte{0x01, 0x02, 0x03}, 1000)
	settings := []byte(`{"hidden_size": 768}`)

	writeFile(t, filepath.Join(dir, "model.pt"), weights)
	writeFile(t, filepath.Join(dir, "config.json"), settings)

	processed, errored, err := process(t, newConfig(config.ModeEncrypt, "pw",
		filepath.Join(dir, "model.pt"), filepath.Join(dir, "config.json")))
	require.NoError(t, err)
	assert.Equal(t, 2, processed)
	assert.Zero(t, errored)

	sealed, err := os.ReadFile(filepath.Join(dir, "model.secret"))
	require.NoError(t, err)
	assert.Len(t, sealed, encryption.Overhead+(len(weights)/encryption.BlockSize+1)*encryption.BlockSize)

	info, err := os.Stat(filepath.Join(dir, "model.secret"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	restored := filepath.Join(dir, "restored.pt")

	cfg := newConfig(config.ModeDecrypt, "pw", filepath.Join(dir, "model.secret"))
	cfg.Output = restored

	_, _, err = process(t, cfg)
	require.NoError(t, err)

	got, err := os.ReadFile(restored)
	require.NoError(t, err)
	assert.Equal(t, weights, got)

	cfg = newConfig(config.ModeDecrypt, "pw", filepath.Join(dir, "config.secret"))
	cfg.RestoreExt = ".json.out"

	_, _, err = process(t, cfg)
	require.NoError(t, err)

	got, err = os.ReadFile(filepath.Join(dir, "config.json.out"))
	require.NoError(t, err)
	assert.Equal(t, settings, got)
}

func TestProcessorWrongKeyWritesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "model.bin"), []byte{1, 2, 3, 4, 5})

	_, _, err := process(t, newConfig(config.ModeEncrypt, "test-key", filepath.Join(dir, "model.bin")))
	require.NoError(t, err)

	before := listDir(t, dir)

	processed, errored, err := process(t, newConfig(config.ModeDecrypt, "wrong-key", filepath.Join(dir, "model.secret")))
	require.ErrorIs(t, err, encryption.ErrAuthentication)
	assert.Zero(t, processed)
	assert.Equal(t, 1, errored)
	assert.ElementsMatch(t, before, listDir(t, dir), "no partial output or temp files")

	_, _, err = process(t, newConfig(config.ModeVerify, "wrong-key", filepath.Join(dir, "model.secret")))
	require.ErrorIs(t, err, encryption.ErrAuthentication)
}

func TestProcessorCorruptFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "truncated.secret"), []byte("too short"))

	_, _, err := process(t, newConfig(config.ModeDecrypt, "pw", filepath.Join(dir, "truncated.secret")))
	require.ErrorIs(t, err, encryption.ErrFormat)

	_, err = os.Stat(filepath.Join(dir, "truncated"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestProcessorVerify(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.onnx"), []byte("graph"))

	_, _, err := process(t, newConfig(config.ModeEncrypt, "pw", filepath.Join(dir, "a.onnx")))
	require.NoError(t, err)

	before := listDir(t, dir)

	cfg := newConfig(config.ModeVerify, "pw", filepath.Join(dir, "a.secret"))
	cfg.Delete = true

	processed, errored, err := process(t, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Zero(t, errored)
	assert.ElementsMatch(t, before, listDir(t, dir), "verify neither writes nor deletes")
}

func TestProcessorDelete(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "model.pt"), []byte("weights"))

	cfg := newConfig(config.ModeEncrypt, "pw", filepath.Join(dir, "model.pt"))
	cfg.Delete = true

	_, _, err := process(t, cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"model.secret"}, listDir(t, dir))
}

func TestProcessorKeyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	keyFile := filepath.Join(dir, "passphrase")
	writeFile(t, keyFile, []byte("from-file\n"))
	writeFile(t, filepath.Join(dir, "model.pt"), []byte("weights"))

	cfg := newConfig(config.ModeEncrypt, "", filepath.Join(dir, "model.pt"))
	cfg.KeyFile = keyFile

	_, _, err := process(t, cfg)
	require.NoError(t, err)

	_, _, err = process(t, newConfig(config.ModeVerify, "from-file", filepath.Join(dir, "model.secret")))
	require.NoError(t, err)
}

func TestProcessorPlanConflicts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name  string
		mode  config.Mode
		files []string
	}{
		{
			name:  "two inputs share an output",
			mode:  config.ModeEncrypt,
			files: []string{filepath.Join(dir, "a.pt"), filepath.Join(dir, "a.onnx")},
		},
		{
			name:  "output overwrites input",
			mode:  config.ModeDecrypt,
			files: []string{filepath.Join(dir, "model.bin")},
		},
		{
			name:  "output is another input",
			mode:  config.ModeEncrypt,
			files: []string{filepath.Join(dir, "model.pt"), filepath.Join(dir, "model.secret")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			proc, err := encryption.NewProcessor(newConfig(tt.mode, "pw", tt.files...), zap.NewNop().Sugar())
			require.NoError(t, err)

			_, err = proc.Plan()
			require.ErrorIs(t, err, encryption.ErrOutputConflict)

			_, _, _, err = proc.ProcessFiles()
			require.ErrorIs(t, err, encryption.ErrOutputConflict)
		})
	}
}
