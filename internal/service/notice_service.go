package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/magicplay247/agent-panel/internal/domain"
	"github.com/magicplay247/agent-panel/internal/events"
	"github.com/magicplay247/agent-panel/internal/repository"
	apperrors "github.com/magicplay247/agent-panel/pkg/util/errorutil"
)

// NoticeService manages site notices.
type NoticeService struct {
	notices    repository.NoticeRepository
	dispatcher events.Dispatcher
}

// NewNoticeService builds the service.
func NewNoticeService(notices repository.NoticeRepository, dispatcher events.Dispatcher) *NoticeService {
	return &NoticeService{notices: notices, dispatcher: dispatcher}
}

// NoticeCreateInput describes notice creation payload.
type NoticeCreateInput struct {
	Title    string
	Content  string
	Priority domain.NoticePriority
	IsActive bool
}

// NoticeUpdateInput is a partial patch. Nil fields are left untouched.
type NoticeUpdateInput struct {
	Title    *string
	Content  *string
	Priority *domain.NoticePriority
	IsActive *bool
}

// CreateNotice persists a new notice with a generated id.
func (s *NoticeService) CreateNotice(ctx context.Context, input NoticeCreateInput) (*domain.Notice, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" || content == "" {
		return nil, apperrors.NewValidationError("title and content are required", nil)
	}

	notice := &domain.Notice{
		ID:       uuid.NewString(),
		Title:    title,
		Content:  content,
		Priority: input.Priority,
		IsActive: input.IsActive,
	}
	if notice.Priority == "" {
		notice.Priority = domain.NoticePriorityMedium
	}

	if err := s.notices.Create(ctx, notice); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventNoticeCreated, notice)
	return notice, nil
}

// UpdateNotice applies a partial patch and bumps the modification timestamp.
func (s *NoticeService) UpdateNotice(ctx context.Context, id string, patch NoticeUpdateInput) (*domain.Notice, error) {
	notice, err := s.notices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("notice", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title must not be empty", nil)
		}
		notice.Title = title
	}
	if patch.Content != nil {
		content := strings.TrimSpace(*patch.Content)
		if content == "" {
			return nil, apperrors.NewValidationError("content must not be empty", nil)
		}
		notice.Content = content
	}
	if patch.Priority != nil {
		notice.Priority = *patch.Priority
	}
	if patch.IsActive != nil {
		notice.IsActive = *patch.IsActive
	}

	if err := s.notices.Update(ctx, notice); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("notice", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventNoticeUpdated, notice)
	return notice, nil
}

// DeleteNotice removes a notice.
func (s *NoticeService) DeleteNotice(ctx context.Context, id string) error {
	notice, err := s.notices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("notice", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	if err := s.notices.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("notice", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.EventNoticeDeleted, notice)
	return nil
}

// ListNotices returns every notice, newest first. Administrator view.
func (s *NoticeService) ListNotices(ctx context.Context) ([]domain.Notice, error) {
	notices, err := s.notices.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return notices, nil
}

// ListActiveNotices returns the public notice board: active notices only,
// newest first.
func (s *NoticeService) ListActiveNotices(ctx context.Context) ([]domain.Notice, error) {
	notices, err := s.notices.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return notices, nil
}

func (s *NoticeService) publish(ctx context.Context, eventType events.EventType, notice *domain.Notice) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload: events.NoticePayload{
			NoticeID: notice.ID,
			Title:    notice.Title,
			Priority: notice.Priority,
			IsActive: notice.IsActive,
		},
	})
}
