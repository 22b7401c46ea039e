package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/hvaldez/garage/internal/audit"
)

type entryResponse struct {
	ID          uuid.UUID       `json:"id"`
	Module      string          `json:"module"`
	Action      audit.Action    `json:"action"`
	Table       string          `json:"table"`
	RecordID    string          `json:"record_id"`
	User        string          `json:"user,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Before      json.RawMessage `json:"before,omitempty"`
	After       json.RawMessage `json:"after,omitempty"`
	Description string          `json:"description,omitempty"`
	IPAddress   string          `json:"ip_address,omitempty"`
}

type listResponse struct {
	Total   int             `json:"total"`
	Entries []entryResponse `json:"entries"`
}

func toResponse(e *audit.Entry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		Module:      e.Module,
		Action:      e.Action,
		Table:       e.Table,
		RecordID:    e.RecordID,
		User:        e.User,
		OccurredAt:  e.OccurredAt,
		Before:      e.Before,
		After:       e.After,
		Description: e.Description,
		IPAddress:   e.IPAddress,
	}
}

func toResponseList(entries []*audit.Entry) []entryResponse {
	resp := make([]entryResponse, len(entries))
	for i, e := range entries {
		resp[i] = toResponse(e)
	}

	return resp
}

func toListResponse(entries []*audit.Entry, total int) listResponse {
	return listResponse{Total: total, Entries: toResponseList(entries)}
}
