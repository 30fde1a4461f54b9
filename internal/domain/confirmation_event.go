package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ConfirmationEvent is the audit record of one received notification.
type ConfirmationEvent struct {
	ID              uuid.UUID
	OrderID         *int64
	OperationNumber string
	OperationStatus OperationStatus
	Outcome         *Outcome
	Diagnostic      string
	RemoteAddr      string
	Payload         json.RawMessage
	CreatedAt       time.Time
}
