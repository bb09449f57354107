package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeTransferAttempted = "transfer.attempted"
	EventTypeDirectorySynced   = "directory.synced"
)

type TransferAttemptedEvent struct {
	BaseEvent
	EmployeeID    string `json:"employee_id"`
	FromOU        string `json:"from_ou"`
	ToOU          string `json:"to_ou"`
	TransferredBy string `json:"transferred_by"`
	Success       bool   `json:"success"`
}

func NewTransferAttemptedEvent(employeeID, fromOU, toOU, transferredBy string, success bool) *TransferAttemptedEvent {
	return &TransferAttemptedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTransferAttempted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"employee_id":    employeeID,
				"from_ou":        fromOU,
				"to_ou":          toOU,
				"transferred_by": transferredBy,
				"success":        success,
			},
		},
		EmployeeID:    employeeID,
		FromOU:        fromOU,
		ToOU:          toOU,
		TransferredBy: transferredBy,
		Success:       success,
	}
}

type DirectorySyncedEvent struct {
	BaseEvent
	TotalEmployees int `json:"total_employees"`
	SyncedCount    int `json:"synced_count"`
}

func NewDirectorySyncedEvent(total, synced int) *DirectorySyncedEvent {
	return &DirectorySyncedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeDirectorySynced,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"total_employees": total,
				"synced_count":    synced,
			},
		},
		TotalEmployees: total,
		SyncedCount:    synced,
	}
}
