package service

import (
	"context"
	"encoding/json"
	"time"

	"veena-assistant-be/internal/entity"
	"veena-assistant-be/internal/model"
	"veena-assistant-be/internal/pkg/logger"
	"veena-assistant-be/internal/repository/contract"
	"veena-assistant-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const eventsModule = "EVENTS"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// EventForwarder ships events off the process (NATS in production).
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

type consumerService struct {
	subscriber   message.Subscriber
	topicName    string
	auditLogger  logger.ILogger
	sysLogger    logger.ILogger
	snapshotRepo contract.CustomerSnapshotRepository // nil without a database
	forwarder    EventForwarder                      // nil without NATS
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	auditLogger logger.ILogger,
	sysLogger logger.ILogger,
	snapshotRepo contract.CustomerSnapshotRepository,
	forwarder EventForwarder,
) IConsumerService {
	return &consumerService{
		subscriber:   subscriber,
		topicName:    topicName,
		auditLogger:  auditLogger,
		sysLogger:    sysLogger,
		snapshotRepo: snapshotRepo,
		forwarder:    forwarder,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks: the audit trail is best effort and a
// redelivery loop against a dead database would starve the other sinks.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var evt eventEnvelope
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		cs.sysLogger.Error(eventsModule, "Failed to unmarshal event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	cs.auditLogger.Info(eventsModule, evt.Type, evt.Data)

	if cs.snapshotRepo != nil {
		if snapshot := snapshotFromEvent(evt); snapshot != nil {
			if err := cs.snapshotRepo.Create(ctx, snapshot); err != nil {
				cs.sysLogger.Error(eventsModule, "Failed to store customer snapshot", map[string]interface{}{
					"event": evt.Type,
					"error": err.Error(),
				})
			}
		}
	}

	if cs.forwarder != nil {
		fwdCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := cs.forwarder.Publish(fwdCtx, evt); err != nil {
			cs.sysLogger.Warn(eventsModule, "Failed to forward event", map[string]interface{}{
				"event": evt.Type,
				"error": err.Error(),
			})
		}
	}
}

func snapshotFromEvent(evt eventEnvelope) *entity.CustomerSnapshot {
	var source string
	switch evt.Type {
	case events.TypeCustomerSaved:
		source = model.SnapshotSourceForm
	case events.TypeTurnCompleted:
		source = model.SnapshotSourceTurn
	default:
		return nil
	}

	customer, _ := evt.Data["customer"].(map[string]interface{})
	if customer == nil {
		customer = map[string]interface{}{}
	}
	userID, _ := evt.Data["user_id"].(string)
	requestID, _ := evt.Data["request_id"].(string)
	lang, _ := evt.Data["lang"].(string)

	return &entity.CustomerSnapshot{
		Id:        uuid.New(),
		UserId:    userID,
		Source:    source,
		Lang:      lang,
		RequestId: requestID,
		Data:      customer,
		CreatedAt: evt.OccurredAt,
	}
}
