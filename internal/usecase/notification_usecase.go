package usecase

import (
	"context"
	"time"

	"erp-backend/internal/model"
	"erp-backend/internal/repository"
)

type NotificationUsecase struct {
	store *repository.Store
	now   func() time.Time
}

func NewNotificationUsecase(store *repository.Store) *NotificationUsecase {
	return &NotificationUsecase{store: store, now: time.Now}
}

func (u *NotificationUsecase) List(ctx context.Context, userID uint, unreadOnly bool) ([]model.Notification, error) {
	return u.store.Notifications.ListByUser(ctx, userID, unreadOnly, 100)
}

func (u *NotificationUsecase) MarkRead(ctx context.Context, userID, id uint) error {
	return u.store.Notifications.MarkRead(ctx, id, userID, u.now())
}
