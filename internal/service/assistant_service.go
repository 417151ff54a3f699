package service

import (
	"context"
	"errors"
	"strings"

	"veena-assistant-be/internal/dto"
	"veena-assistant-be/internal/pkg/logger"
	"veena-assistant-be/internal/pkg/serverutils"
	"veena-assistant-be/pkg/ai/pipeline"
	"veena-assistant-be/pkg/events"
	"veena-assistant-be/pkg/language"
	"veena-assistant-be/pkg/rag/profile"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultUserId   = "default"
	DefaultFullName = "Sir/Madam"
	DefaultLang     = language.English

	MsgNoInput = "No input provided"
)

type IAssistantService interface {
	Welcome(ctx context.Context, req *dto.WelcomeRequest) (*dto.WelcomeResponse, error)
	Query(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error)
	SaveCustomer(ctx context.Context, requestId string, data map[string]interface{}) (*dto.SaveCustomerResponse, error)
	Health(ctx context.Context) *dto.HealthResponse
}

// Assistant is the part of the orchestrator the service drives.
type Assistant interface {
	Greet(ctx context.Context, in pipeline.GreetInput) (*pipeline.GreetResult, error)
	Turn(ctx context.Context, in pipeline.TurnInput) (*pipeline.TurnResult, error)
}

type assistantService struct {
	assistant Assistant
	knowledge pipeline.KnowledgeSource
	publisher IPublisherService
	logger    logger.ILogger
}

func NewAssistantService(assistant Assistant, knowledge pipeline.KnowledgeSource, publisher IPublisherService, log logger.ILogger) IAssistantService {
	return &assistantService{
		assistant: assistant,
		knowledge: knowledge,
		publisher: publisher,
		logger:    log,
	}
}

func (s *assistantService) Welcome(ctx context.Context, req *dto.WelcomeRequest) (*dto.WelcomeResponse, error) {
	in := pipeline.GreetInput{
		UserID:   orDefault(req.UserId, DefaultUserId),
		Lang:     orDefault(language.Normalize(req.Lang), DefaultLang),
		FullName: orDefault(strings.TrimSpace(req.FullName), DefaultFullName),
	}

	res, err := s.assistant.Greet(ctx, in)
	if err != nil {
		return nil, s.internal("Greeting failed", err)
	}

	return &dto.WelcomeResponse{
		Response: res.Response,
		AudioUrl: optionalURL(res.AudioURL),
		Lang:     res.Lang,
	}, nil
}

func (s *assistantService) Query(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error) {
	userId := orDefault(req.UserId, DefaultUserId)

	customer := profile.Decode(req.CustomerData)
	if len(req.CustomerData) == 0 {
		customer = profile.Decode(req.Metadata)
	}

	res, err := s.assistant.Turn(ctx, pipeline.TurnInput{
		UserID:       userId,
		Text:         req.Text,
		Audio:        req.Audio,
		AudioName:    req.AudioName,
		CustomerData: customer,
	})
	if errors.Is(err, pipeline.ErrNoInput) {
		return nil, serverutils.NewAppError(fiber.StatusBadRequest, MsgNoInput, err)
	}
	if err != nil {
		return nil, s.internal("Turn failed", err)
	}

	s.publish(ctx, events.TurnCompleted(userId, req.RequestId, res.Lang, string(res.Path), res.CustomerData))

	return &dto.QueryResponse{
		Response:     res.Response,
		AudioUrl:     optionalURL(res.AudioURL),
		Lang:         res.Lang,
		CustomerData: res.CustomerData,
	}, nil
}

// SaveCustomer only acknowledges; the record goes to the audit trail.
func (s *assistantService) SaveCustomer(ctx context.Context, requestId string, data map[string]interface{}) (*dto.SaveCustomerResponse, error) {
	userId := DefaultUserId
	if v, ok := data["user_id"].(string); ok && v != "" {
		userId = v
	}

	s.publish(ctx, events.CustomerSaved(userId, requestId, data))

	return &dto.SaveCustomerResponse{Status: "success"}, nil
}

func (s *assistantService) Health(ctx context.Context) *dto.HealthResponse {
	k, err := s.knowledge.Current()
	if err != nil {
		return &dto.HealthResponse{Status: "loading"}
	}
	loadedAt := k.LoadedAt
	return &dto.HealthResponse{
		Status:      "ok",
		FaqEntries:  k.FAQ.Len(),
		DialogNodes: k.Tree.Len(),
		Rebuttals:   k.Rebuttals.Len(),
		LoadedAt:    &loadedAt,
	}
}

func (s *assistantService) publish(ctx context.Context, evt events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn(eventsModule, "Failed to publish event", map[string]interface{}{
			"event": evt.EventType(),
			"error": err.Error(),
		})
	}
}

func (s *assistantService) internal(message string, err error) error {
	s.logger.Error("ASSISTANT", message, map[string]interface{}{"error": err.Error()})
	return serverutils.NewAppError(fiber.StatusInternalServerError, "Internal server error", err)
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func optionalURL(url string) *string {
	if url == "" {
		return nil
	}
	return &url
}
