package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"veena-assistant-be/internal/config"
	"veena-assistant-be/internal/dto"
	"veena-assistant-be/internal/pkg/logger"
	"veena-assistant-be/internal/pkg/serverutils"
	"veena-assistant-be/internal/repository/memory"
	"veena-assistant-be/pkg/rag/dialog"
	"veena-assistant-be/pkg/rag/knowledge"
	"veena-assistant-be/pkg/rag/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type failingLoader struct{}

func (failingLoader) Load(context.Context) (*knowledge.Knowledge, error) {
	return nil, errors.New("dialog_tree.json: unexpected end of JSON input")
}

func adminConfig(t *testing.T, password string) config.AdminConfig {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return config.AdminConfig{PasswordHash: string(hash), JwtSecret: "test-secret", TokenTTL: time.Hour}
}

func TestAdminLogin(t *testing.T) {
	svc := NewAdminService(adminConfig(t, "correct-horse"), failingLoader{}, nil, nil, logger.NewNopLogger())

	res, err := svc.Login(context.Background(), &dto.AdminLoginRequest{Password: "correct-horse"})
	require.NoError(t, err)

	claims, err := serverutils.ParseToken("test-secret", res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, serverutils.RoleAdmin, claims["role"])

	_, err = svc.Login(context.Background(), &dto.AdminLoginRequest{Password: "wrong-horse"})
	var appErr *serverutils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, fiber.StatusUnauthorized, appErr.Code)
}

func TestAdminLoginUnconfigured(t *testing.T) {
	svc := NewAdminService(config.AdminConfig{}, failingLoader{}, nil, nil, logger.NewNopLogger())

	_, err := svc.Login(context.Background(), &dto.AdminLoginRequest{Password: "whatever1"})
	var appErr *serverutils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, fiber.StatusServiceUnavailable, appErr.Code)
}

func TestReloadFailureIsReported(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewAdminService(config.AdminConfig{}, failingLoader{}, nil, pub, logger.NewNopLogger())

	_, err := svc.ReloadKnowledge(context.Background())
	var appErr *serverutils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, fiber.StatusUnprocessableEntity, appErr.Code)
	assert.Equal(t, "Reload failed, previous data is still active", appErr.Message)
	assert.NotContains(t, appErr.Message, "dialog_tree.json")
	assert.Empty(t, pub.types())
}

func TestResetSessionReturnsUserToRoot(t *testing.T) {
	ctx := context.Background()
	tree, err := dialog.NewTree("1.0", []dialog.Node{
		{ID: "1.0", Title: "Greeting", Prompts: map[string]string{"en": "Hello"}, Next: map[string]dialog.NodeID{"yes": "2.0"}},
		{ID: "2.0", Title: "Premium", Prompts: map[string]string{"en": "Due"}},
	})
	require.NoError(t, err)

	sessions := session.NewManager(memory.NewSessionRepository(time.Hour, 10))
	_, err = sessions.Advance(ctx, "u1", tree, tree.Root(), "yes")
	require.NoError(t, err)

	svc := NewAdminService(config.AdminConfig{}, failingLoader{}, sessions, nil, logger.NewNopLogger())
	require.NoError(t, svc.ResetSession(ctx, "u1"))

	node, err := sessions.Current(ctx, "u1", tree)
	require.NoError(t, err)
	assert.Equal(t, dialog.NodeID("1.0"), node.ID)
}

func TestResetSessionRequiresUserId(t *testing.T) {
	svc := NewAdminService(config.AdminConfig{}, failingLoader{}, nil, nil, logger.NewNopLogger())

	err := svc.ResetSession(context.Background(), "")
	var appErr *serverutils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, fiber.StatusBadRequest, appErr.Code)
}
