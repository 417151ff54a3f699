package controller

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"veena-assistant-be/internal/dto"
	"veena-assistant-be/internal/middleware"
	"veena-assistant-be/internal/pkg/serverutils"
	"veena-assistant-be/internal/service"
	"veena-assistant-be/pkg/speech"

	"github.com/gofiber/fiber/v2"
)

const maxAudioBytes = 25 << 20

// AudioFiles resolves a generated audio file name to a local path.
type AudioFiles interface {
	Path(name string) (string, error)
}

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	Welcome(ctx *fiber.Ctx) error
	Query(ctx *fiber.Ctx) error
	SaveCustomer(ctx *fiber.Ctx) error
	Audio(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type assistantController struct {
	service service.IAssistantService
	audio   AudioFiles // nil when audio lives in object storage
}

func NewAssistantController(service service.IAssistantService, audio AudioFiles) IAssistantController {
	return &assistantController{
		service: service,
		audio:   audio,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	r.Post("/veena_welcome", c.Welcome)
	r.Post("/query_customer", c.Query)
	r.Post("/save_customer", c.SaveCustomer)
	r.Get("/audio/:filename", c.Audio)
	r.Get("/health", c.Health)
}

func (c *assistantController) Welcome(ctx *fiber.Ctx) error {
	var req dto.WelcomeRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return turnError(ctx, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return turnError(ctx, fiber.StatusBadRequest, err.Error())
	}

	res, err := c.service.Welcome(ctx.UserContext(), &req)
	if err != nil {
		return turnFailure(ctx, err)
	}
	return ctx.JSON(res)
}

func (c *assistantController) Query(ctx *fiber.Ctx) error {
	req, err := parseQuery(ctx)
	if err != nil {
		return turnFailure(ctx, err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return turnError(ctx, fiber.StatusBadRequest, err.Error())
	}
	req.RequestId = middleware.GetRequestID(ctx)

	res, err := c.service.Query(ctx.UserContext(), req)
	if err != nil {
		return turnFailure(ctx, err)
	}
	return ctx.JSON(res)
}

func (c *assistantController) SaveCustomer(ctx *fiber.Ctx) error {
	data := map[string]interface{}{}
	if len(ctx.Body()) > 0 {
		if err := json.Unmarshal(ctx.Body(), &data); err != nil {
			return turnError(ctx, fiber.StatusBadRequest, "Invalid request body")
		}
	}

	res, err := c.service.SaveCustomer(ctx.UserContext(), middleware.GetRequestID(ctx), data)
	if err != nil {
		return turnFailure(ctx, err)
	}
	return ctx.JSON(res)
}

func (c *assistantController) Audio(ctx *fiber.Ctx) error {
	if c.audio == nil {
		return ctx.SendStatus(fiber.StatusNotFound)
	}

	path, err := c.audio.Path(ctx.Params("filename"))
	if err != nil {
		return ctx.SendStatus(fiber.StatusNotFound)
	}

	ctx.Set(fiber.HeaderContentType, "audio/mpeg")
	return ctx.SendFile(path)
}

func (c *assistantController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(c.service.Health(ctx.UserContext()))
}

// parseQuery accepts a JSON body or a multipart form with an optional
// audio file. In forms customerData is a JSON encoded string.
func parseQuery(ctx *fiber.Ctx) (*dto.QueryRequest, error) {
	req := &dto.QueryRequest{}

	if !strings.HasPrefix(ctx.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if len(ctx.Body()) == 0 {
			return req, nil
		}
		if err := json.Unmarshal(ctx.Body(), req); err != nil {
			return nil, badRequest("Invalid request body", err)
		}
		return req, nil
	}

	req.UserId = ctx.FormValue("user_id")
	req.Text = ctx.FormValue("text")
	if raw := ctx.FormValue("customerData"); raw != "" {
		req.CustomerData = json.RawMessage(raw)
	}
	if raw := ctx.FormValue("metadata"); raw != "" {
		req.Metadata = json.RawMessage(raw)
	}

	file, err := ctx.FormFile("audio")
	if err != nil {
		// no audio part
		return req, nil
	}
	if file.Size > maxAudioBytes {
		return nil, badRequest("Audio file is too large", nil)
	}

	f, err := file.Open()
	if err != nil {
		return nil, badRequest("Unreadable audio file", err)
	}
	defer f.Close()

	audio, err := io.ReadAll(io.LimitReader(f, maxAudioBytes))
	if err != nil {
		return nil, badRequest("Unreadable audio file", err)
	}
	req.Audio = audio
	req.AudioName = file.Filename
	return req, nil
}

func badRequest(message string, err error) error {
	return serverutils.NewAppError(fiber.StatusBadRequest, message, err)
}

func turnError(ctx *fiber.Ctx, status int, message string) error {
	return ctx.Status(status).JSON(dto.TurnErrorResponse{Error: message})
}

// turnFailure keeps the flat error shape on the turn endpoints.
func turnFailure(ctx *fiber.Ctx, err error) error {
	var appErr *serverutils.AppError
	if errors.As(err, &appErr) {
		return turnError(ctx, appErr.Code, appErr.Message)
	}
	return turnError(ctx, fiber.StatusInternalServerError, "Internal server error")
}

var _ AudioFiles = (*speech.LocalStore)(nil)
