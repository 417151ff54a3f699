package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"veena-assistant-be/internal/dto"
	"veena-assistant-be/internal/middleware"
	"veena-assistant-be/internal/pkg/serverutils"
	"veena-assistant-be/pkg/speech"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAssistantService struct{ mock.Mock }

func (m *MockAssistantService) Welcome(ctx context.Context, req *dto.WelcomeRequest) (*dto.WelcomeResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*dto.WelcomeResponse)
	return res, args.Error(1)
}

func (m *MockAssistantService) Query(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*dto.QueryResponse)
	return res, args.Error(1)
}

func (m *MockAssistantService) SaveCustomer(ctx context.Context, requestId string, data map[string]interface{}) (*dto.SaveCustomerResponse, error) {
	args := m.Called(ctx, requestId, data)
	res, _ := args.Get(0).(*dto.SaveCustomerResponse)
	return res, args.Error(1)
}

func (m *MockAssistantService) Health(ctx context.Context) *dto.HealthResponse {
	return m.Called(ctx).Get(0).(*dto.HealthResponse)
}

func newTestApp(svc *MockAssistantService, audio AudioFiles) *fiber.App {
	app := fiber.New()
	app.Use(middleware.RequestID())
	NewAssistantController(svc, audio).RegisterRoutes(app.Group("/api"))
	return app
}

func decodeBody(t *testing.T, body io.Reader, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(body).Decode(out))
}

func TestWelcomeWithEmptyBody(t *testing.T) {
	svc := new(MockAssistantService)
	svc.On("Welcome", mock.Anything, &dto.WelcomeRequest{}).
		Return(&dto.WelcomeResponse{Response: "Hello Sir/Madam", Lang: "en"}, nil)

	resp, err := newTestApp(svc, nil).Test(httptest.NewRequest("POST", "/api/veena_welcome", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp.Body, &body)
	assert.Equal(t, "Hello Sir/Madam", body["response"])
	assert.Nil(t, body["audio_url"])
	svc.AssertExpectations(t)
}

func TestQueryNoInputIsFlatError(t *testing.T) {
	svc := new(MockAssistantService)
	svc.On("Query", mock.Anything, mock.Anything).
		Return(nil, serverutils.NewAppError(fiber.StatusBadRequest, "No input provided", nil))

	req := httptest.NewRequest("POST", "/api/query_customer", bytes.NewBufferString(`{"user_id":"u1"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := newTestApp(svc, nil).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body dto.TurnErrorResponse
	decodeBody(t, resp.Body, &body)
	assert.Equal(t, "No input provided", body.Error)
}

func TestQueryMultipartCarriesAudioAndCustomerData(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("user_id", "u1"))
	require.NoError(t, w.WriteField("customerData", `{"city":"Pune"}`))
	part, err := w.CreateFormFile("audio", "clip.webm")
	require.NoError(t, err)
	_, err = part.Write([]byte("RIFF"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	svc := new(MockAssistantService)
	svc.On("Query", mock.Anything, mock.MatchedBy(func(r *dto.QueryRequest) bool {
		return r.UserId == "u1" &&
			string(r.Audio) == "RIFF" &&
			r.AudioName == "clip.webm" &&
			string(r.CustomerData) == `{"city":"Pune"}` &&
			r.RequestId != ""
	})).Return(&dto.QueryResponse{Response: "ok", Lang: "en", CustomerData: map[string]interface{}{"city": "Pune"}}, nil)

	req := httptest.NewRequest("POST", "/api/query_customer", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())

	resp, err := newTestApp(svc, nil).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestQueryRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/query_customer", bytes.NewBufferString(`{"text":`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := newTestApp(new(MockAssistantService), nil).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSaveCustomerAcknowledges(t *testing.T) {
	svc := new(MockAssistantService)
	svc.On("SaveCustomer", mock.Anything, "req-7", map[string]interface{}{"name": "Asha"}).
		Return(&dto.SaveCustomerResponse{Status: "success"}, nil)

	req := httptest.NewRequest("POST", "/api/save_customer", bytes.NewBufferString(`{"name":"Asha"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(middleware.RequestIDKey, "req-7")

	resp, err := newTestApp(svc, nil).Test(req)
	require.NoError(t, err)

	var body dto.SaveCustomerResponse
	decodeBody(t, resp.Body, &body)
	assert.Equal(t, "success", body.Status)
	svc.AssertExpectations(t)
}

func TestAudioServing(t *testing.T) {
	dir := t.TempDir()
	store, err := speech.NewLocalStore(dir, "http://localhost:5000")
	require.NoError(t, err)

	name := speech.NewFileName()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("ID3"), 0o644))

	app := newTestApp(new(MockAssistantService), store)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/audio/"+name, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "audio/mpeg", resp.Header.Get(fiber.HeaderContentType))

	resp, err = app.Test(httptest.NewRequest("GET", "/api/audio/..%2Fsecret.mp3", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
