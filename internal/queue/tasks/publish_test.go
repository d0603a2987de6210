package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sitepilot/engine/internal/models"
	"github.com/sitepilot/engine/internal/services"
	appErr "github.com/sitepilot/engine/pkg/errors"
	"github.com/sitepilot/engine/pkg/logger"
)

func TestMain(m *testing.M) {
	// tasks log through the global logger
	_, err := logger.Init("info", "json")
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

type mockSiteService struct {
	mock.Mock
}

func (m *mockSiteService) PublishDeployment(ctx context.Context, deploymentID uuid.UUID) error {
	args := m.Called(ctx, deploymentID)
	return args.Error(0)
}

func (m *mockSiteService) SiteName(host string) (string, bool) {
	args := m.Called(host)
	return args.String(0), args.Bool(1)
}

func (m *mockSiteService) GetSite(ctx context.Context, name string) (*models.Site, error) {
	args := m.Called(ctx, name)
	if v := args.Get(0); v != nil {
		return v.(*models.Site), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSiteService) URL(name string) string {
	return m.Called(name).String(0)
}

func publishTask(t *testing.T, id string) *asynq.Task {
	t.Helper()
	b, err := json.Marshal(services.PublishPayload{DeploymentID: id})
	require.NoError(t, err)
	return asynq.NewTask(services.TaskSitePublish, b)
}

func TestPublishTaskHandler_HandlePublish(t *testing.T) {
	deploymentID := uuid.New()

	t.Run("successful publish", func(t *testing.T) {
		sites := &mockSiteService{}
		sites.On("PublishDeployment", mock.Anything, deploymentID).Return(nil).Once()

		err := NewPublishTaskHandler(sites).HandlePublish(context.Background(), publishTask(t, deploymentID.String()))
		require.NoError(t, err)
		sites.AssertExpectations(t)
	})

	t.Run("transient failure is retried", func(t *testing.T) {
		sites := &mockSiteService{}
		sites.On("PublishDeployment", mock.Anything, deploymentID).
			Return(appErr.Wrap(errors.New("db gone"), appErr.CodeInternal, "site query failed")).Once()

		err := NewPublishTaskHandler(sites).HandlePublish(context.Background(), publishTask(t, deploymentID.String()))
		require.Error(t, err)
		assert.False(t, errors.Is(err, asynq.SkipRetry))
	})

	t.Run("conflict is not retried", func(t *testing.T) {
		sites := &mockSiteService{}
		sites.On("PublishDeployment", mock.Anything, deploymentID).
			Return(appErr.Conflict("subdomain is already taken")).Once()

		err := NewPublishTaskHandler(sites).HandlePublish(context.Background(), publishTask(t, deploymentID.String()))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("malformed payload", func(t *testing.T) {
		sites := &mockSiteService{}
		h := NewPublishTaskHandler(sites)

		err := h.HandlePublish(context.Background(), asynq.NewTask(services.TaskSitePublish, []byte("{")))
		assert.ErrorIs(t, err, asynq.SkipRetry)
		err = h.HandlePublish(context.Background(), publishTask(t, "not-a-uuid"))
		assert.ErrorIs(t, err, asynq.SkipRetry)
		sites.AssertNotCalled(t, "PublishDeployment", mock.Anything, mock.Anything)
	})
}

func TestRegisterMountsHandler(t *testing.T) {
	sites := &mockSiteService{}
	id := uuid.New()
	sites.On("PublishDeployment", mock.Anything, id).Return(nil).Once()

	mux := asynq.NewServeMux()
	NewPublishTaskHandler(sites).Register(mux)
	require.NoError(t, mux.ProcessTask(context.Background(), publishTask(t, id.String())))
	sites.AssertExpectations(t)
}
