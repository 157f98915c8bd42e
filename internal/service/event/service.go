package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/repository"
)

// EventTypeAssistantAction is emitted once per executed assistant action.
const EventTypeAssistantAction = "assistant.action"

// Recorder appends domain events to the outbox in the same store the action
// wrote to. A separate worker process drains them to the message broker.
type Recorder struct {
	outbox repository.OutboxRepository
}

func NewRecorder(outbox repository.OutboxRepository) *Recorder {
	return &Recorder{outbox: outbox}
}

func (r *Recorder) RecordAction(ctx context.Context, userID string, site model.Ambulatorio, result *model.ActionResult) error {
	payload, err := json.Marshal(model.ActionEventPayload{
		UserID:      userID,
		Ambulatorio: site,
		ActionType:  result.ActionType,
		Success:     result.Success,
		Message:     result.Message,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal action event: %w", err)
	}
	return r.outbox.Insert(ctx, &model.OutboxEvent{
		ID:        uuid.New().String(),
		EventType: EventTypeAssistantAction,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
		CreatedAt: time.Now().UTC(),
	})
}
