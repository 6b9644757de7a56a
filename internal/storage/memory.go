package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"kavara-store/internal/models"
)

// Memory is an in-memory Store. It is safe for concurrent use and is
// intended for tests and local development. The catalog is seeded at
// construction so every instance carries its own isolated fixture.
type Memory struct {
	mu            sync.RWMutex
	users         map[string]models.User
	quizResponses map[string]models.QuizResponse
	boxes         map[string]models.Box
	orders        map[string]models.Order
	notifications map[string]models.Notification
}

var _ Store = (*Memory)(nil)

// NewMemory creates a store pre-populated with the seed catalog.
func NewMemory() *Memory {
	m := &Memory{
		users:         make(map[string]models.User),
		quizResponses: make(map[string]models.QuizResponse),
		boxes:         make(map[string]models.Box),
		orders:        make(map[string]models.Order),
		notifications: make(map[string]models.Notification),
	}
	now := time.Now()
	for i, box := range SeedBoxes() {
		box.ID = uuid.NewString()
		box.CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		m.boxes[box.ID] = box
	}
	return m
}

// NewMemoryEmpty creates a store with no catalog, for tests that supply
// their own boxes.
func NewMemoryEmpty() *Memory {
	m := NewMemory()
	m.boxes = make(map[string]models.Box)
	return m
}

func (m *Memory) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user.TelegramID != "" {
		for _, existing := range m.users {
			if existing.TelegramID == user.TelegramID {
				return models.User{}, fmt.Errorf("telegram id %s already registered", user.TelegramID)
			}
		}
	}

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return user, nil
}

func (m *Memory) GetUser(ctx context.Context, id string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (m *Memory) GetUserByTelegramID(ctx context.Context, telegramID string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.TelegramID != "" && user.TelegramID == telegramID {
			return user, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *Memory) CreateQuizResponse(ctx context.Context, resp models.QuizResponse) (models.QuizResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	resp.ID = uuid.NewString()
	resp.CreatedAt = time.Now()
	m.quizResponses[resp.ID] = resp
	return resp, nil
}

func (m *Memory) GetQuizResponseByUser(ctx context.Context, userID string) (models.QuizResponse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, resp := range m.quizResponses {
		if resp.UserID == userID {
			return resp, nil
		}
	}
	return models.QuizResponse{}, ErrNotFound
}

func (m *Memory) UpdateQuizResponseByUser(ctx context.Context, userID string, resp models.QuizResponse) (models.QuizResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, existing := range m.quizResponses {
		if existing.UserID == userID {
			existing.Size = resp.Size
			existing.Height = resp.Height
			existing.Weight = resp.Weight
			existing.Goals = resp.Goals
			existing.Budget = resp.Budget
			m.quizResponses[id] = existing
			return existing, nil
		}
	}
	return models.QuizResponse{}, ErrNotFound
}

func (m *Memory) CreateBox(ctx context.Context, box models.Box) (models.Box, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	box.ID = uuid.NewString()
	box.CreatedAt = time.Now()
	m.boxes[box.ID] = box
	return box, nil
}

func (m *Memory) GetBox(ctx context.Context, id string) (models.Box, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	box, ok := m.boxes[id]
	if !ok {
		return models.Box{}, ErrNotFound
	}
	return box, nil
}

func (m *Memory) ListBoxes(ctx context.Context) ([]models.Box, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	boxes := make([]models.Box, 0, len(m.boxes))
	for _, box := range m.boxes {
		boxes = append(boxes, box)
	}
	sortBoxesNewestFirst(boxes)
	return boxes, nil
}

func (m *Memory) ListBoxesByCategory(ctx context.Context, category string) ([]models.Box, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var boxes []models.Box
	for _, box := range m.boxes {
		if box.Category == category {
			boxes = append(boxes, box)
		}
	}
	sortBoxesNewestFirst(boxes)
	return boxes, nil
}

func (m *Memory) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order.ID = uuid.NewString()
	order.CreatedAt = time.Now()
	m.orders[order.ID] = order
	return order, nil
}

func (m *Memory) GetOrder(ctx context.Context, id string) (models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	order, ok := m.orders[id]
	if !ok {
		return models.Order{}, ErrNotFound
	}
	return order, nil
}

func (m *Memory) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var orders []models.Order
	for _, order := range m.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (m *Memory) CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n.ID = uuid.NewString()
	n.CreatedAt = time.Now()
	m.notifications[n.ID] = n
	return n, nil
}

func (m *Memory) ListNotificationsByBox(ctx context.Context, boxID string) ([]models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []models.Notification
	for _, n := range m.notifications {
		if n.BoxID == boxID {
			result = append(result, n)
		}
	}
	return result, nil
}

func sortBoxesNewestFirst(boxes []models.Box) {
	sort.Slice(boxes, func(i, j int) bool { return boxes[i].CreatedAt.After(boxes[j].CreatedAt) })
}
