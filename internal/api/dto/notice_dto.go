package dto

import (
	"time"

	"github.com/magicplay247/agent-panel/internal/domain"
)

// CreateNoticeRequest payload.
type CreateNoticeRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Priority string `json:"priority"`
	IsActive bool   `json:"is_active"`
}

// UpdateNoticeRequest is a partial patch; absent fields are untouched.
type UpdateNoticeRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Priority *string `json:"priority"`
	IsActive *bool   `json:"is_active"`
}

// NoticeResponse is the wire form of a notice.
type NoticeResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Priority  string    `json:"priority"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNoticeResponse hydrates the wire form from a domain notice.
func NewNoticeResponse(notice *domain.Notice) NoticeResponse {
	return NoticeResponse{
		ID:        notice.ID,
		Title:     notice.Title,
		Content:   notice.Content,
		Priority:  string(notice.Priority),
		IsActive:  notice.IsActive,
		CreatedAt: notice.CreatedAt,
		UpdatedAt: notice.UpdatedAt,
	}
}

// NewNoticeResponses hydrates a slice.
func NewNoticeResponses(notices []domain.Notice) []NoticeResponse {
	items := make([]NoticeResponse, 0, len(notices))
	for i := range notices {
		items = append(items, NewNoticeResponse(&notices[i]))
	}
	return items
}
