package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/formahub/formahub-api/internal/dto"
	"github.com/formahub/formahub-api/internal/models"
)

type memoryNotificationRepo struct {
	notifications map[uint]models.Notification
	nextID        uint
}

func newMemoryNotificationRepo() *memoryNotificationRepo {
	return &memoryNotificationRepo{notifications: make(map[uint]models.Notification), nextID: 1}
}

func (m *memoryNotificationRepo) Create(_ context.Context, notification *models.Notification) error {
	notification.ID = m.nextID
	notification.CreatedAt = time.Now()
	notification.UpdatedAt = notification.CreatedAt
	m.notifications[m.nextID] = *notification
	m.nextID++
	return nil
}

func (m *memoryNotificationRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]models.Notification, error) {
	matched := make([]models.Notification, 0)
	for _, notification := range m.notifications {
		if notification.UserID == userID {
			matched = append(matched, notification)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	if offset >= len(matched) {
		return []models.Notification{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (m *memoryNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var total int64
	for _, notification := range m.notifications {
		if notification.UserID == userID && !notification.Read {
			total++
		}
	}
	return total, nil
}

func (m *memoryNotificationRepo) MarkRead(_ context.Context, id uint, userID string) (models.Notification, error) {
	notification, ok := m.notifications[id]
	if !ok || notification.UserID != userID {
		return models.Notification{}, gorm.ErrRecordNotFound
	}
	notification.Read = true
	m.notifications[id] = notification
	return notification, nil
}

func newNotificationService(repo *memoryNotificationRepo) NotificationService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewNotificationService(repo, nil, "", nil, validate, testLogger())
}

func TestPublishSanitizesAndStores(t *testing.T) {
	repo := newMemoryNotificationRepo()
	svc := newNotificationService(repo)

	published, err := svc.Publish(context.Background(), dto.NotificationCreateRequest{
		UserID:  "42",
		Type:    "submission_evaluated",
		Message: "<b>Your work</b> was approved",
	})
	require.NoError(t, err)
	require.Equal(t, "Your work was approved", published.Message)
	require.False(t, published.Read)
	require.Len(t, repo.notifications, 1)
}

func TestPublishRejectsEmptyMessageAfterSanitization(t *testing.T) {
	svc := newNotificationService(newMemoryNotificationRepo())

	_, err := svc.Publish(context.Background(), dto.NotificationCreateRequest{
		UserID:  "42",
		Type:    "generic",
		Message: "<script>alert(1)</script>",
	})
	require.Error(t, err)
}

func TestPublishDeliversToSubscribers(t *testing.T) {
	svc := newNotificationService(newMemoryNotificationRepo())

	channel, cleanup := svc.Subscribe("42")
	defer cleanup()

	_, err := svc.Publish(context.Background(), dto.NotificationCreateRequest{
		UserID:  "42",
		Type:    "submission_comment",
		Message: "A mentor replied",
	})
	require.NoError(t, err)

	select {
	case received := <-channel:
		require.Equal(t, "A mentor replied", received.Message)
		require.Equal(t, "submission_comment", received.Type)
	case <-time.After(time.Second):
		t.Fatal("expected a broadcast notification")
	}
}

func TestPublishDoesNotCrossUsers(t *testing.T) {
	svc := newNotificationService(newMemoryNotificationRepo())

	channel, cleanup := svc.Subscribe("7")
	defer cleanup()

	_, err := svc.Publish(context.Background(), dto.NotificationCreateRequest{
		UserID:  "42",
		Type:    "generic",
		Message: "not yours",
	})
	require.NoError(t, err)

	select {
	case received := <-channel:
		t.Fatalf("unexpected delivery: %+v", received)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	repo := newMemoryNotificationRepo()
	svc := newNotificationService(repo)

	first, err := svc.Publish(context.Background(), dto.NotificationCreateRequest{
		UserID: "42", Type: "generic", Message: "one",
	})
	require.NoError(t, err)
	_, err = svc.Publish(context.Background(), dto.NotificationCreateRequest{
		UserID: "42", Type: "generic", Message: "two",
	})
	require.NoError(t, err)

	count, err := svc.UnreadCount(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	marked, err := svc.MarkRead(context.Background(), first.ID, "42")
	require.NoError(t, err)
	require.True(t, marked.Read)

	count, err = svc.UnreadCount(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	_, err = svc.MarkRead(context.Background(), first.ID, "99")
	require.ErrorIs(t, err, ErrNotificationNotFound)

	_, err = svc.MarkRead(context.Background(), 999, "42")
	require.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestListRequiresUserID(t *testing.T) {
	svc := newNotificationService(newMemoryNotificationRepo())

	_, err := svc.List(context.Background(), "  ", 10, 0)
	require.Error(t, err)

	_, err = svc.UnreadCount(context.Background(), "")
	require.Error(t, err)
}
