package update

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/erp/printagent/internal/domain/printing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var installerPayload = []byte("MZ fake installer")

func installerServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/setup-1.3.0.exe", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(installerPayload)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func payloadSum() string {
	sum := sha256.Sum256(installerPayload)
	return hex.EncodeToString(sum[:])
}

func newTestInstaller(t *testing.T) (*Installer, *[]string, string) {
	t.Helper()
	dir := t.TempDir()
	i := NewInstaller(&InstallerConfig{TempDir: dir})
	var launched []string
	i.launch = func(path string) error {
		launched = append(launched, path)
		return nil
	}
	return i, &launched, dir
}

func TestInstaller_Install(t *testing.T) {
	srv := installerServer(t)
	i, launched, dir := newTestInstaller(t)

	err := i.Install(context.Background(), &Release{
		Version: "1.3.0",
		URL:     srv.URL + "/setup-1.3.0.exe",
		SHA256:  payloadSum(),
	})
	require.NoError(t, err)

	require.Len(t, *launched, 1)
	path := (*launched)[0]
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, ".exe", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, installerPayload, data)
}

func TestInstaller_Install_ChecksumMismatch(t *testing.T) {
	srv := installerServer(t)
	i, launched, dir := newTestInstaller(t)

	err := i.Install(context.Background(), &Release{
		Version: "1.3.0",
		URL:     srv.URL + "/setup-1.3.0.exe",
		SHA256:  "00",
	})
	require.Error(t, err)
	assert.Equal(t, printing.ErrKindUpdate, printing.KindOf(err))
	assert.Contains(t, err.Error(), "checksum mismatch")
	assert.Empty(t, *launched)

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestInstaller_Install_NotFound(t *testing.T) {
	srv := installerServer(t)
	i, launched, _ := newTestInstaller(t)

	err := i.Install(context.Background(), &Release{Version: "1.3.0", URL: srv.URL + "/missing.exe"})
	require.Error(t, err)
	assert.Empty(t, *launched)
}

func TestInstaller_Install_LaunchFailure(t *testing.T) {
	srv := installerServer(t)
	i, _, dir := newTestInstaller(t)
	i.launch = func(string) error { return errors.New("blocked by policy") }

	err := i.Install(context.Background(), &Release{Version: "1.3.0", URL: srv.URL + "/setup-1.3.0.exe"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked by policy")

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestInstaller_Install_NoRelease(t *testing.T) {
	i, launched, _ := newTestInstaller(t)

	err := i.Install(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, printing.ErrKindUpdate, printing.KindOf(err))
	assert.Empty(t, *launched)
}

func TestInstallerExt(t *testing.T) {
	assert.Equal(t, ".msi", installerExt("https://example.com/a/b/setup.msi?token=1"))
	assert.Equal(t, "", installerExt("https://example.com/download"))
}
