package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskRecordIntakeEvent = "intake.events.record"

// RecordIntakeEventPayload carries one intake domain event to the
// worker for persistence. Body is the event as published, verbatim.
type RecordIntakeEventPayload struct {
	SessionID  string          `json:"sessionId"`
	Name       string          `json:"name"`
	OccurredAt time.Time       `json:"occurredAt"`
	Body       json.RawMessage `json:"body"`
}

func NewRecordIntakeEventTask(payload RecordIntakeEventPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRecordIntakeEvent, data), nil
}

func ParseRecordIntakeEventPayload(task *asynq.Task) (RecordIntakeEventPayload, error) {
	var payload RecordIntakeEventPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RecordIntakeEventPayload{}, err
	}
	return payload, nil
}
