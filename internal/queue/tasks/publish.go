package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/sitepilot/engine/internal/services"
	"github.com/sitepilot/engine/pkg/logger"
)

// PublishTaskHandler materializes queued deployments into served sites.
type PublishTaskHandler struct {
	sites services.SiteService
}

func NewPublishTaskHandler(sites services.SiteService) *PublishTaskHandler {
	return &PublishTaskHandler{sites: sites}
}

// Register mounts the handler on mux.
func (h *PublishTaskHandler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(services.TaskSitePublish, h.HandlePublish)
}

func (h *PublishTaskHandler) HandlePublish(ctx context.Context, t *asynq.Task) error {
	var p services.PublishPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		logger.L().Error("invalid publish task payload", zap.Error(err))
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	id, err := uuid.Parse(p.DeploymentID)
	if err != nil {
		logger.L().Error("invalid deployment id in task", zap.String("deployment_id", p.DeploymentID), zap.Error(err))
		return fmt.Errorf("parse deployment id: %v: %w", err, asynq.SkipRetry)
	}

	logger.L().Info("handling publish task", zap.String("deployment_id", id.String()))
	if err := h.sites.PublishDeployment(ctx, id); err != nil {
		if services.IsPermanent(err) {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}
	return nil
}
