package domain

import (
	"fmt"
	"time"
)

// NoticePriority ranks a notice on the public board.
type NoticePriority string

const (
	NoticePriorityHigh   NoticePriority = "high"
	NoticePriorityMedium NoticePriority = "medium"
	NoticePriorityLow    NoticePriority = "low"
)

// ParseNoticePriority validates a raw priority string.
func ParseNoticePriority(raw string) (NoticePriority, error) {
	switch NoticePriority(raw) {
	case NoticePriorityHigh, NoticePriorityMedium, NoticePriorityLow:
		return NoticePriority(raw), nil
	}
	return "", fmt.Errorf("unknown notice priority %q", raw)
}

// Notice is a site announcement published by the administrator. It has no
// relationship to the agent hierarchy.
type Notice struct {
	ID        string
	Title     string
	Content   string
	Priority  NoticePriority
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
