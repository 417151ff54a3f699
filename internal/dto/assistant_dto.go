package dto

import (
	"encoding/json"
	"time"
)

// Turn endpoints keep the flat body shape the voice client already speaks.

type WelcomeRequest struct {
	Lang     string `json:"lang" validate:"omitempty,max=16"`
	UserId   string `json:"user_id" validate:"omitempty,max=255"`
	FullName string `json:"full_name" validate:"omitempty,max=255"`
}

type WelcomeResponse struct {
	Response string  `json:"response"`
	AudioUrl *string `json:"audio_url"`
	Lang     string  `json:"lang"`
}

type QueryRequest struct {
	UserId       string          `json:"user_id" validate:"omitempty,max=255"`
	Text         string          `json:"text"`
	CustomerData json.RawMessage `json:"customerData"`
	Metadata     json.RawMessage `json:"metadata"`

	Audio     []byte `json:"-"`
	AudioName string `json:"-"`
	RequestId string `json:"-"`
}

type QueryResponse struct {
	Response     string                 `json:"response"`
	AudioUrl     *string                `json:"audio_url"`
	Lang         string                 `json:"lang"`
	CustomerData map[string]interface{} `json:"customerData"`
}

type SaveCustomerResponse struct {
	Status string `json:"status"`
}

type TurnErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status      string     `json:"status"`
	FaqEntries  int        `json:"faq_entries"`
	DialogNodes int        `json:"dialog_nodes"`
	Rebuttals   int        `json:"rebuttals"`
	LoadedAt    *time.Time `json:"loaded_at,omitempty"`
}
