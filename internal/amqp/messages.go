package amqp

import (
	"encoding/json"
	"time"
)

// ExportRequestMessage is a lightweight message asking the worker to export
// a project's report. It carries only the queue ID; the worker fetches the
// request details and entries itself.
type ExportRequestMessage struct {
	ID        int64     `json:"id"`
	ProjectID string    `json:"project_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExportRequestMessage creates a new export message.
func NewExportRequestMessage(id int64, projectID string) *ExportRequestMessage {
	return &ExportRequestMessage{
		ID:        id,
		ProjectID: projectID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExportRequestMessageFromJSON creates a message from JSON bytes
func ExportRequestMessageFromJSON(data []byte) (*ExportRequestMessage, error) {
	var msg ExportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
