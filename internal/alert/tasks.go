// Package alert is the failure side channel: alerts are enqueued on Redis via
// asynq and delivered out-of-band by a worker, so a broken chat path can never
// swallow its own failure report.
package alert

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskAdminAlert = "alert.admin"

// AdminAlertPayload describes one failure worth the admin's attention.
type AdminAlertPayload struct {
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	ChatID     string    `json:"chatId,omitempty"`
	SenderID   string    `json:"senderId,omitempty"`
	Command    string    `json:"command,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewAdminAlertTask(payload AdminAlertPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAdminAlert, data), nil
}

func ParseAdminAlertPayload(task *asynq.Task) (AdminAlertPayload, error) {
	var payload AdminAlertPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AdminAlertPayload{}, err
	}
	return payload, nil
}
