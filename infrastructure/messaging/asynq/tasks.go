package asynq

import (
	"encoding/json"
	"fmt"

	"shop-backend/application/ports"

	"github.com/hibiken/asynq"
)

// TaskCatalogBatch carries one producer batch of row payloads
const TaskCatalogBatch = "catalog.batch"

// BatchPayload is the task body. Each entry keeps its own id so log lines
// can point at the offending row.
type BatchPayload struct {
	Messages []BatchMessage `json:"messages"`
}

type BatchMessage struct {
	ID   string          `json:"id"`
	Body json.RawMessage `json:"body"`
}

// NewCatalogBatchTask builds a task from raw row bodies
func NewCatalogBatchTask(batchID string, bodies [][]byte) (*asynq.Task, error) {
	payload := BatchPayload{Messages: make([]BatchMessage, 0, len(bodies))}
	for i, body := range bodies {
		if !json.Valid(body) {
			return nil, fmt.Errorf("row %d is not valid JSON", i)
		}
		payload.Messages = append(payload.Messages, BatchMessage{
			ID:   fmt.Sprintf("%s-%d", batchID, i),
			Body: json.RawMessage(body),
		})
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogBatch, data), nil
}

// ParseCatalogBatchPayload turns a task back into queue messages
func ParseCatalogBatchPayload(task *asynq.Task) ([]ports.QueueMessage, error) {
	var payload BatchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return nil, err
	}

	messages := make([]ports.QueueMessage, 0, len(payload.Messages))
	for _, m := range payload.Messages {
		messages = append(messages, ports.QueueMessage{ID: m.ID, Body: []byte(m.Body)})
	}
	return messages, nil
}
