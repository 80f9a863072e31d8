package handlers

import (
	"time"

	"github.com/seuros/hirefunnel/internal/history"
)

// HistoryResponse wraps the monthly trend. UpdatedAt is set when the trend
// comes from a watched file.
type HistoryResponse struct {
	Data      []history.Month `json:"data"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

type reloadedSource interface {
	LoadedAt() time.Time
}
