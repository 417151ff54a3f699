package events

import "time"

const (
	TypeCustomerSaved     = "CUSTOMER_SAVED"
	TypeTurnCompleted     = "TURN_COMPLETED"
	TypeKnowledgeReloaded = "KNOWLEDGE_RELOADED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CUSTOMER_SAVED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// CustomerSaved records a form submission from the client.
func CustomerSaved(userID, requestID string, data map[string]interface{}) BaseEvent {
	now := time.Now()
	return BaseEvent{
		Type: TypeCustomerSaved,
		Data: map[string]interface{}{
			"user_id":     userID,
			"request_id":  requestID,
			"customer":    data,
			"occurred_at": now,
		},
		OccurredAt: now,
	}
}

// TurnCompleted records the customer data a turn ended with.
func TurnCompleted(userID, requestID, lang, path string, data map[string]interface{}) BaseEvent {
	now := time.Now()
	return BaseEvent{
		Type: TypeTurnCompleted,
		Data: map[string]interface{}{
			"user_id":     userID,
			"request_id":  requestID,
			"lang":        lang,
			"path":        path,
			"customer":    data,
			"occurred_at": now,
		},
		OccurredAt: now,
	}
}

func KnowledgeReloaded(faqEntries, dialogNodes, rebuttals int) BaseEvent {
	now := time.Now()
	return BaseEvent{
		Type: TypeKnowledgeReloaded,
		Data: map[string]interface{}{
			"faq_entries":  faqEntries,
			"dialog_nodes": dialogNodes,
			"rebuttals":    rebuttals,
			"occurred_at":  now,
		},
		OccurredAt: now,
	}
}
