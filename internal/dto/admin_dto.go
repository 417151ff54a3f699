package dto

import "time"

type AdminLoginRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type AdminLoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type KnowledgeReloadResponse struct {
	FaqEntries  int       `json:"faq_entries"`
	DialogNodes int       `json:"dialog_nodes"`
	Rebuttals   int       `json:"rebuttals"`
	Encoder     string    `json:"encoder"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// --- System Log DTOs ---

type LogListResponse struct {
	Id        string `json:"id"` // MD5 of the raw line
	Level     string `json:"level"`
	Module    string `json:"module"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type LogDetailResponse struct {
	LogListResponse
	Details map[string]interface{} `json:"details"`
}
