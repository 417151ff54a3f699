package service

import (
	"context"
	"errors"
	"time"

	"veena-assistant-be/internal/config"
	"veena-assistant-be/internal/dto"
	"veena-assistant-be/internal/pkg/logger"
	"veena-assistant-be/internal/pkg/serverutils"
	"veena-assistant-be/pkg/events"
	"veena-assistant-be/pkg/rag/knowledge"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const adminModule = "ADMIN"

type IAdminService interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)
	ReloadKnowledge(ctx context.Context) (*dto.KnowledgeReloadResponse, error)
	GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error)
	GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error)
	ResetSession(ctx context.Context, userId string) error
}

// KnowledgeLoader rebuilds the live knowledge snapshot.
type KnowledgeLoader interface {
	Load(ctx context.Context) (*knowledge.Knowledge, error)
}

// SessionEraser drops a user's dialog position.
type SessionEraser interface {
	Forget(ctx context.Context, userID string) error
}

type adminService struct {
	cfg       config.AdminConfig
	loader    KnowledgeLoader
	sessions  SessionEraser
	publisher IPublisherService
	logger    logger.ILogger
}

func NewAdminService(cfg config.AdminConfig, loader KnowledgeLoader, sessions SessionEraser, publisher IPublisherService, log logger.ILogger) IAdminService {
	return &adminService{
		cfg:       cfg,
		loader:    loader,
		sessions:  sessions,
		publisher: publisher,
		logger:    log,
	}
}

func (s *adminService) Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	if s.cfg.PasswordHash == "" || s.cfg.JwtSecret == "" {
		return nil, serverutils.NewAppError(fiber.StatusServiceUnavailable, "Admin access is not configured", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn(adminModule, "Failed admin login", nil)
		return nil, serverutils.NewAppError(fiber.StatusUnauthorized, "Invalid credentials", err)
	}

	token, err := serverutils.IssueToken(s.cfg.JwtSecret, "admin", serverutils.RoleAdmin, s.cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	s.logger.Info(adminModule, "Admin logged in", nil)
	return &dto.AdminLoginResponse{
		AccessToken: token,
		ExpiresAt:   time.Now().Add(s.cfg.TokenTTL),
	}, nil
}

// ReloadKnowledge rebuilds all static data. On failure the running
// snapshot keeps serving; the cause goes to the log only.
func (s *adminService) ReloadKnowledge(ctx context.Context) (*dto.KnowledgeReloadResponse, error) {
	k, err := s.loader.Load(ctx)
	if err != nil {
		s.logger.Error(adminModule, "Knowledge reload failed", map[string]interface{}{"error": err.Error()})
		return nil, serverutils.NewAppError(fiber.StatusUnprocessableEntity, "Reload failed, previous data is still active", err)
	}

	res := &dto.KnowledgeReloadResponse{
		FaqEntries:  k.FAQ.Len(),
		DialogNodes: k.Tree.Len(),
		Rebuttals:   k.Rebuttals.Len(),
		Encoder:     k.FAQ.Model(),
		LoadedAt:    k.LoadedAt,
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.KnowledgeReloaded(res.FaqEntries, res.DialogNodes, res.Rebuttals)); err != nil {
			s.logger.Warn(adminModule, "Failed to publish reload event", map[string]interface{}{"error": err.Error()})
		}
	}
	return res, nil
}

func (s *adminService) GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	entries, err := s.logger.GetLogs(level, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.LogListResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, &dto.LogListResponse{
			Id:        e.Id,
			Level:     e.Level,
			Module:    e.Module,
			Message:   e.Message,
			Timestamp: e.Timestamp,
		})
	}
	return out, nil
}

func (s *adminService) GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error) {
	entry, err := s.logger.GetLogById(logId)
	if errors.Is(err, logger.ErrLogNotFound) {
		return nil, serverutils.NewAppError(fiber.StatusNotFound, "Log not found", err)
	}
	if err != nil {
		return nil, err
	}

	return &dto.LogDetailResponse{
		LogListResponse: dto.LogListResponse{
			Id:        entry.Id,
			Level:     entry.Level,
			Module:    entry.Module,
			Message:   entry.Message,
			Timestamp: entry.Timestamp,
		},
		Details: entry.Details,
	}, nil
}

// ResetSession sends the user back to the dialog root on their next turn.
func (s *adminService) ResetSession(ctx context.Context, userId string) error {
	if userId == "" {
		return serverutils.NewAppError(fiber.StatusBadRequest, "user id is required", nil)
	}
	if s.sessions == nil {
		return serverutils.NewAppError(fiber.StatusServiceUnavailable, "Sessions are not available", nil)
	}
	if err := s.sessions.Forget(ctx, userId); err != nil {
		s.logger.Error(adminModule, "Session reset failed", map[string]interface{}{"user_id": userId, "error": err.Error()})
		return serverutils.NewAppError(fiber.StatusInternalServerError, "Session reset failed", err)
	}

	s.logger.Info(adminModule, "Session reset", map[string]interface{}{"user_id": userId})
	return nil
}
