package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"time"

	"github.com/erp/printagent/internal/domain/printing"
	"go.uber.org/zap"
)

const (
	defaultTimeout  = 15 * time.Second
	maxManifestSize = 1 << 20
)

// Manifest is the release document published next to the installers
type Manifest struct {
	Version   string                   `json:"version"`
	PubDate   string                   `json:"pub_date,omitempty"`
	Notes     string                   `json:"notes,omitempty"`
	URL       string                   `json:"url,omitempty"`
	SHA256    string                   `json:"sha256,omitempty"`
	Platforms map[string]PlatformAsset `json:"platforms,omitempty"`
}

// PlatformAsset is the installer published for one OS and architecture
type PlatformAsset struct {
	URL    string `json:"url"`
	SHA256 string `json:"sha256,omitempty"`
}

// Release describes an available update
type Release struct {
	Version string
	Date    *string
	Body    *string
	URL     string
	SHA256  string
}

// CheckerConfig contains configuration for the update checker
type CheckerConfig struct {
	// ManifestURL is where the release manifest is published. Empty disables updates.
	ManifestURL string
	// CurrentVersion is the running agent version
	CurrentVersion string
	// Timeout for the manifest request (default: 15s)
	Timeout time.Duration
	// Client overrides the HTTP client
	Client *http.Client
	// Logger for debug output
	Logger *zap.Logger
}

// Checker fetches the release manifest and reports newer versions
type Checker struct {
	manifestURL string
	current     string
	client      *http.Client
	platform    string
	logger      *zap.Logger
}

// NewChecker creates a new update checker
func NewChecker(config *CheckerConfig) *Checker {
	if config == nil {
		config = &CheckerConfig{}
	}

	c := &Checker{
		manifestURL: config.ManifestURL,
		current:     config.CurrentVersion,
		client:      config.Client,
		platform:    PlatformKey(runtime.GOOS, runtime.GOARCH),
		logger:      config.Logger,
	}
	if c.client == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		c.client = &http.Client{Timeout: timeout}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// CurrentVersion returns the running agent version
func (c *Checker) CurrentVersion() string {
	return c.current
}

// Enabled reports whether a manifest URL is configured
func (c *Checker) Enabled() bool {
	return c.manifestURL != ""
}

// Check returns the available release, or nil when the running version is
// current or updates are not configured.
func (c *Checker) Check(ctx context.Context) (*Release, error) {
	if !c.Enabled() {
		return nil, nil
	}

	manifest, err := c.fetch(ctx)
	if err != nil {
		return nil, printing.NewPrintError(printing.ErrKindUpdate, "failed to fetch release manifest", err)
	}

	cmp, err := CompareVersions(manifest.Version, c.current)
	if err != nil {
		return nil, printing.NewPrintError(printing.ErrKindUpdate, "invalid release manifest", err)
	}
	if cmp <= 0 {
		c.logger.Debug("agent is up to date",
			zap.String("current", c.current),
			zap.String("latest", manifest.Version))
		return nil, nil
	}

	release := &Release{
		Version: manifest.Version,
		URL:     manifest.URL,
		SHA256:  manifest.SHA256,
	}
	if asset, ok := manifest.Platforms[c.platform]; ok && asset.URL != "" {
		release.URL = asset.URL
		release.SHA256 = asset.SHA256
	}
	if manifest.PubDate != "" {
		release.Date = &manifest.PubDate
	}
	if manifest.Notes != "" {
		release.Body = &manifest.Notes
	}

	c.logger.Info("update available",
		zap.String("current", c.current),
		zap.String("latest", release.Version))
	return release, nil
}

func (c *Checker) fetch(ctx context.Context) (*Manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.manifestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var manifest Manifest
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxManifestSize)).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if manifest.Version == "" {
		return nil, fmt.Errorf("manifest has no version")
	}
	return &manifest, nil
}

// PlatformKey names a platform the way release manifests do, e.g. "windows-x86_64"
func PlatformKey(goos, goarch string) string {
	arch := goarch
	switch goarch {
	case "amd64":
		arch = "x86_64"
	case "386":
		arch = "i686"
	case "arm64":
		arch = "aarch64"
	}
	return goos + "-" + arch
}
