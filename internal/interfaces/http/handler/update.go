package handler

import (
	"context"

	"github.com/erp/printagent/internal/infrastructure/logger"
	"github.com/erp/printagent/internal/infrastructure/update"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UpdateChecker reports an available release
type UpdateChecker interface {
	Check(ctx context.Context) (*update.Release, error)
}

// UpdateInstaller downloads and launches a release installer
type UpdateInstaller interface {
	Install(ctx context.Context, release *update.Release) error
}

// UpdateHandler exposes the update check and install flow
type UpdateHandler struct {
	BaseHandler
	checker   UpdateChecker
	installer UpdateInstaller
	onLaunch  func()
}

// NewUpdateHandler creates a new UpdateHandler. onLaunch runs after the
// installer was started and the response written; the agent exits there.
func NewUpdateHandler(checker UpdateChecker, installer UpdateInstaller, onLaunch func()) *UpdateHandler {
	if onLaunch == nil {
		onLaunch = func() {}
	}
	return &UpdateHandler{
		checker:   checker,
		installer: installer,
		onLaunch:  onLaunch,
	}
}

// UpdateResponse describes an available release
type UpdateResponse struct {
	Version string  `json:"version"`
	Date    *string `json:"date,omitempty"`
	Body    *string `json:"body,omitempty"`
}

// InstallResponse reports the outcome of an install request
type InstallResponse struct {
	Installing bool   `json:"installing"`
	Version    string `json:"version,omitempty"`
}

func toUpdateResponse(release *update.Release) *UpdateResponse {
	if release == nil {
		return nil
	}
	return &UpdateResponse{
		Version: release.Version,
		Date:    release.Date,
		Body:    release.Body,
	}
}

// CheckUpdate returns the available release, or no data when current
//
// GET /system/update
func (h *UpdateHandler) CheckUpdate(c *gin.Context) {
	release, err := h.checker.Check(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toUpdateResponse(release))
}

// InstallUpdate downloads and launches the available release installer
//
// POST /system/update/install
func (h *UpdateHandler) InstallUpdate(c *gin.Context) {
	ctx := c.Request.Context()
	release, err := h.checker.Check(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if release == nil {
		h.Success(c, InstallResponse{Installing: false})
		return
	}

	if err := h.installer.Install(ctx, release); err != nil {
		h.HandleError(c, err)
		return
	}

	logger.GetGinLogger(c).Info("update installer launched", zap.String("version", release.Version))
	h.Success(c, InstallResponse{Installing: true, Version: release.Version})
	h.onLaunch()
}
