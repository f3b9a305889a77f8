package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/lendahand-app/lendahand-backend/pkg/enums"
	"github.com/lendahand-app/lendahand-backend/pkg/logger"
	"github.com/lendahand-app/lendahand-backend/pkg/outbox"
	"github.com/lendahand-app/lendahand-backend/pkg/outbox/idempotency"
	"github.com/lendahand-app/lendahand-backend/pkg/outbox/payloads"
)

const domainNotificationConsumer = "domain-notifications"

// Consumer watches domain events and turns them into notification fan-outs.
type Consumer struct {
	dispatcher   Dispatcher
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds a domain notification consumer.
func NewConsumer(dispatcher Dispatcher, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if dispatcher == nil {
		return nil, fmt.Errorf("notification dispatcher required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("domain subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		dispatcher:   dispatcher,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := msg.Attributes["event_type"]
	fields := map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	}
	logCtx := c.logg.WithFields(ctx, fields)

	if eventType != string(enums.EventSessionMatched) && eventType != string(enums.EventSOSRaised) {
		c.logg.Info(logCtx, "skipping event without fan-out")
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, domainNotificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	input, err := c.buildDispatch(enums.OutboxEventType(eventType), envelope.Data)
	if err != nil {
		c.logg.Error(logCtx, "failed to parse payload", err)
		_ = c.idempotency.Delete(ctx, domainNotificationConsumer, eventID)
		return processResult{nack: true}
	}

	if ok := c.dispatcher.Dispatch(ctx, input); !ok {
		c.logg.Warn(logCtx, "notification fan-out reported failure")
		_ = c.idempotency.Delete(ctx, domainNotificationConsumer, eventID)
		return processResult{nack: true}
	}

	return processResult{ack: true}
}

func (c *Consumer) buildDispatch(eventType enums.OutboxEventType, data json.RawMessage) (DispatchInput, error) {
	switch eventType {
	case enums.EventSessionMatched:
		var payload payloads.SessionMatchedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return DispatchInput{}, err
		}
		kind := enums.NotificationTypeRequest
		if payload.ResourceKind == enums.ResourceKindOffer {
			kind = enums.NotificationTypeOffer
		}
		return DispatchInput{
			UserID:     payload.NotifyUserID,
			Kind:       kind,
			ResourceID: payload.ResourceID,
		}, nil
	case enums.EventSOSRaised:
		var payload payloads.SOSRaisedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return DispatchInput{}, err
		}
		return DispatchInput{
			UserID:     payload.UserID,
			Kind:       enums.NotificationTypeSOS,
			ResourceID: payload.RequestID,
			Location: &Location{
				Latitude:  payload.Latitude,
				Longitude: payload.Longitude,
			},
		}, nil
	default:
		return DispatchInput{}, fmt.Errorf("unsupported event type %s", eventType)
	}
}
