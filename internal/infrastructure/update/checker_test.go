package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/printagent/internal/domain/printing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manifestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestChecker_Check_NewerVersion(t *testing.T) {
	srv := manifestServer(t, http.StatusOK, `{
		"version": "1.3.0",
		"pub_date": "2026-01-10T12:00:00Z",
		"notes": "Fixes ticket margins",
		"url": "https://example.com/setup.exe",
		"sha256": "abc"
	}`)
	c := NewChecker(&CheckerConfig{ManifestURL: srv.URL, CurrentVersion: "1.2.9"})

	release, err := c.Check(context.Background())
	require.NoError(t, err)
	require.NotNil(t, release)
	assert.Equal(t, "1.3.0", release.Version)
	require.NotNil(t, release.Date)
	assert.Equal(t, "2026-01-10T12:00:00Z", *release.Date)
	require.NotNil(t, release.Body)
	assert.Equal(t, "Fixes ticket margins", *release.Body)
	assert.Equal(t, "https://example.com/setup.exe", release.URL)
	assert.Equal(t, "abc", release.SHA256)
}

func TestChecker_Check_PlatformAsset(t *testing.T) {
	srv := manifestServer(t, http.StatusOK, `{
		"version": "2.0.0",
		"url": "https://example.com/generic.exe",
		"platforms": {"windows-x86_64": {"url": "https://example.com/win64.msi", "sha256": "def"}}
	}`)
	c := NewChecker(&CheckerConfig{ManifestURL: srv.URL, CurrentVersion: "1.0.0"})
	c.platform = "windows-x86_64"

	release, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/win64.msi", release.URL)
	assert.Equal(t, "def", release.SHA256)
	assert.Nil(t, release.Date)
	assert.Nil(t, release.Body)
}

func TestChecker_Check_UpToDate(t *testing.T) {
	for _, latest := range []string{"1.2.0", "1.1.9"} {
		srv := manifestServer(t, http.StatusOK, `{"version": "`+latest+`"}`)
		c := NewChecker(&CheckerConfig{ManifestURL: srv.URL, CurrentVersion: "1.2.0"})

		release, err := c.Check(context.Background())
		require.NoError(t, err)
		assert.Nil(t, release)
	}
}

func TestChecker_Check_Disabled(t *testing.T) {
	c := NewChecker(&CheckerConfig{CurrentVersion: "1.0.0"})
	assert.False(t, c.Enabled())

	release, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.Nil(t, release)
}

func TestChecker_Check_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{}`},
		{name: "malformed json", status: http.StatusOK, body: `{"version":`},
		{name: "missing version", status: http.StatusOK, body: `{"url": "x"}`},
		{name: "invalid version", status: http.StatusOK, body: `{"version": "latest"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := manifestServer(t, tt.status, tt.body)
			c := NewChecker(&CheckerConfig{ManifestURL: srv.URL, CurrentVersion: "1.0.0"})

			release, err := c.Check(context.Background())
			require.Error(t, err)
			assert.Nil(t, release)
			assert.Equal(t, printing.ErrKindUpdate, printing.KindOf(err))
		})
	}
}

func TestPlatformKey(t *testing.T) {
	assert.Equal(t, "windows-x86_64", PlatformKey("windows", "amd64"))
	assert.Equal(t, "windows-i686", PlatformKey("windows", "386"))
	assert.Equal(t, "darwin-aarch64", PlatformKey("darwin", "arm64"))
	assert.Equal(t, "linux-riscv64", PlatformKey("linux", "riscv64"))
}
