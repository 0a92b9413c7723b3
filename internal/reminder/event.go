package reminder

import (
	"encoding/json"
	"time"
)

// SentEvent is the queue payload recorded after every send attempt. The
// worker persists these into the notification log.
type SentEvent struct {
	ScheduleID string    `json:"schedule_id"`
	Student    string    `json:"student"`
	Window     string    `json:"window"`
	Status     int       `json:"status"`
	Result     string    `json:"result"`
	Message    string    `json:"message"`
	SentAt     time.Time `json:"sent_at"`
}

// Marshal encodes the event for the queue.
func (e SentEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalSentEvent decodes a queue payload.
func UnmarshalSentEvent(body []byte) (SentEvent, error) {
	var e SentEvent
	err := json.Unmarshal(body, &e)
	return e, err
}
