// Package storage defines the persistence contracts for the storefront
// entities and ships interchangeable in-memory and Postgres backends.
package storage

import (
	"context"
	"errors"

	"kavara-store/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// UserStore persists user records. TelegramID, when set, is unique
// across all users.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID string) (models.User, error)
}

// QuizStore persists quiz responses. A user has at most one current
// response: updates overwrite in place. Concurrent updates for the same
// user are last-write-wins; there is no version check.
type QuizStore interface {
	CreateQuizResponse(ctx context.Context, resp models.QuizResponse) (models.QuizResponse, error)
	GetQuizResponseByUser(ctx context.Context, userID string) (models.QuizResponse, error)
	UpdateQuizResponseByUser(ctx context.Context, userID string, resp models.QuizResponse) (models.QuizResponse, error)
}

// BoxStore persists catalog boxes.
type BoxStore interface {
	CreateBox(ctx context.Context, box models.Box) (models.Box, error)
	GetBox(ctx context.Context, id string) (models.Box, error)
	ListBoxes(ctx context.Context) ([]models.Box, error)
	ListBoxesByCategory(ctx context.Context, category string) ([]models.Box, error)
}

// OrderStore persists orders.
type OrderStore interface {
	CreateOrder(ctx context.Context, order models.Order) (models.Order, error)
	GetOrder(ctx context.Context, id string) (models.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
}

// NotificationStore persists restock notification requests.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error)
	ListNotificationsByBox(ctx context.Context, boxID string) ([]models.Notification, error)
}

// Store bundles all entity stores behind one dependency.
type Store interface {
	UserStore
	QuizStore
	BoxStore
	OrderStore
	NotificationStore
}
