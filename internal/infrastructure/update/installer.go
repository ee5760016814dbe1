package update

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path"
	"strings"

	"github.com/erp/printagent/internal/domain/printing"
	"go.uber.org/zap"
)

// InstallerConfig contains configuration for the installer
type InstallerConfig struct {
	// TempDir receives the downloaded installer (default: os.TempDir())
	TempDir string
	// Client overrides the HTTP client; downloads have no timeout by default
	Client *http.Client
	// Logger for debug output
	Logger *zap.Logger
}

// Installer downloads a release and starts its installer detached from the agent
type Installer struct {
	tempDir string
	client  *http.Client
	launch  func(path string) error
	logger  *zap.Logger
}

// NewInstaller creates a new Installer
func NewInstaller(config *InstallerConfig) *Installer {
	if config == nil {
		config = &InstallerConfig{}
	}

	i := &Installer{
		tempDir: config.TempDir,
		client:  config.Client,
		launch:  launchDetached,
		logger:  config.Logger,
	}
	if i.tempDir == "" {
		i.tempDir = os.TempDir()
	}
	if i.client == nil {
		i.client = &http.Client{}
	}
	if i.logger == nil {
		i.logger = zap.NewNop()
	}
	return i
}

// Install downloads release and launches it. On success the installer owns
// the file; on failure the partial download is removed.
func (i *Installer) Install(ctx context.Context, release *Release) error {
	if release == nil || release.URL == "" {
		return printing.NewPrintError(printing.ErrKindUpdate, "no update available", nil)
	}

	file, err := i.download(ctx, release)
	if err != nil {
		return printing.NewPrintError(printing.ErrKindUpdate, "failed to download update", err)
	}

	i.logger.Info("launching installer",
		zap.String("version", release.Version),
		zap.String("path", file))
	if err := i.launch(file); err != nil {
		_ = os.Remove(file)
		return printing.NewPrintError(printing.ErrKindUpdate, "failed to launch installer", err)
	}
	return nil
}

func (i *Installer) download(ctx context.Context, release *Release) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, release.URL, nil)
	if err != nil {
		return "", err
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	out, err := os.CreateTemp(i.tempDir, "printagent-update-*"+installerExt(release.URL))
	if err != nil {
		return "", err
	}
	name := out.Name()

	hash := sha256.New()
	_, copyErr := io.Copy(io.MultiWriter(out, hash), resp.Body)
	closeErr := out.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(name)
		if copyErr != nil {
			return "", copyErr
		}
		return "", closeErr
	}

	if want := strings.TrimSpace(release.SHA256); want != "" {
		if got := hex.EncodeToString(hash.Sum(nil)); !strings.EqualFold(got, want) {
			_ = os.Remove(name)
			return "", fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return name, nil
}

// installerExt keeps the extension of the published file so the OS can run it
func installerExt(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return path.Ext(u.Path)
}

func launchDetached(path string) error {
	cmd := exec.Command(path)
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
