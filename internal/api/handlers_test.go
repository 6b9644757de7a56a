package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kavara-store/internal/models"
	"kavara-store/internal/storage"
	"kavara-store/pkg/logger"
)

func newTestHandler(t *testing.T) (http.Handler, *storage.Memory) {
	t.Helper()
	store := storage.NewMemoryEmpty()
	return NewHandler(store, logger.NewDevelopment()), store
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), v))
}

func TestUserEndpoints(t *testing.T) {
	handler, _ := newTestHandler(t)

	resp := doJSON(t, handler, http.MethodPost, "/api/users", map[string]string{
		"telegramId": "123456",
		"username":   "ivan",
		"firstName":  "Иван",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var user models.User
	decode(t, resp, &user)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "123456", user.TelegramID)

	resp = doJSON(t, handler, http.MethodGet, "/api/users/"+user.ID, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, handler, http.MethodGet, "/api/users/telegram/123456", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var byTelegram models.User
	decode(t, resp, &byTelegram)
	assert.Equal(t, user.ID, byTelegram.ID)

	resp = doJSON(t, handler, http.MethodGet, "/api/users/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = doJSON(t, handler, http.MethodGet, "/api/users/telegram/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// A second user with the same Telegram id violates uniqueness.
	resp = doJSON(t, handler, http.MethodPost, "/api/users", map[string]string{
		"telegramId": "123456",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestQuizResponseUpsert(t *testing.T) {
	handler, store := newTestHandler(t)

	first := map[string]interface{}{
		"userId": "user-1",
		"size":   "M",
		"height": 175,
		"weight": 70,
		"goals":  []string{"running"},
		"budget": "10000",
	}
	resp := doJSON(t, handler, http.MethodPost, "/api/quiz-responses", first)
	require.Equal(t, http.StatusOK, resp.Code)

	var created models.QuizResponse
	decode(t, resp, &created)
	assert.Equal(t, "10000", created.Budget)

	// A second submission for the same user updates in place.
	second := map[string]interface{}{
		"userId": "user-1",
		"size":   "L",
		"height": 180,
		"weight": 80,
		"goals":  []string{"yoga"},
		"budget": "15000",
	}
	resp = doJSON(t, handler, http.MethodPost, "/api/quiz-responses", second)
	require.Equal(t, http.StatusOK, resp.Code)

	var updated models.QuizResponse
	decode(t, resp, &updated)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "L", updated.Size)
	assert.Equal(t, []string{"yoga"}, updated.Goals)

	// Exactly one record exists and it carries the latest values.
	stored, err := store.GetQuizResponseByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, stored.ID)
	assert.Equal(t, "15000", stored.Budget)

	resp = doJSON(t, handler, http.MethodGet, "/api/quiz-responses/user/user-1", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, handler, http.MethodPut, "/api/quiz-responses/user/user-1", map[string]interface{}{
		"size": "XL", "height": 180, "weight": 80, "goals": []string{"yoga"}, "budget": "15000+",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	decode(t, resp, &updated)
	assert.Equal(t, "XL", updated.Size)

	resp = doJSON(t, handler, http.MethodGet, "/api/quiz-responses/user/nobody", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = doJSON(t, handler, http.MethodPut, "/api/quiz-responses/user/nobody", first)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestBoxEndpoints(t *testing.T) {
	handler, store := newTestHandler(t)
	ctx := context.Background()

	ready, err := store.CreateBox(ctx, models.Box{Name: "READY", Price: 9990, Category: models.CategoryReady, IsAvailable: true})
	require.NoError(t, err)
	_, err = store.CreateBox(ctx, models.Box{Name: "PERSONAL", Price: 7490, Category: models.CategoryPersonal, IsAvailable: true})
	require.NoError(t, err)

	resp := doJSON(t, handler, http.MethodGet, "/api/boxes", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var boxes []models.Box
	decode(t, resp, &boxes)
	assert.Len(t, boxes, 2)

	resp = doJSON(t, handler, http.MethodGet, "/api/boxes?category=ready", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	decode(t, resp, &boxes)
	require.Len(t, boxes, 1)
	assert.Equal(t, "READY", boxes[0].Name)

	resp = doJSON(t, handler, http.MethodGet, "/api/boxes/"+ready.ID, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, handler, http.MethodGet, "/api/boxes/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = doJSON(t, handler, http.MethodPost, "/api/boxes", models.Box{
		Name: "NEW", Price: 5490, Category: models.CategoryReady, IsAvailable: true,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, handler, http.MethodPost, "/api/boxes", models.Box{Name: "", Price: 0})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRecommendationsEndpoint(t *testing.T) {
	handler, store := newTestHandler(t)
	ctx := context.Background()

	_, err := store.CreateBox(ctx, models.Box{
		Name: "RUN CHEAP", Price: 7490, Category: models.CategoryPersonal,
		SportTypes: []models.SportType{models.SportRunning}, IsAvailable: true,
	})
	require.NoError(t, err)
	_, err = store.CreateBox(ctx, models.Box{
		Name: "RUN PREMIUM", Price: 20000, Category: models.CategoryPersonal,
		SportTypes: []models.SportType{models.SportRunning}, IsAvailable: true,
	})
	require.NoError(t, err)

	_, err = store.CreateQuizResponse(ctx, models.QuizResponse{
		UserID: "user-1",
		Goals:  []string{"running"},
		Budget: "10000",
	})
	require.NoError(t, err)

	resp := doJSON(t, handler, http.MethodGet, "/api/recommendations/user/user-1", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var boxes []models.Box
	decode(t, resp, &boxes)
	require.Len(t, boxes, 1)
	assert.Equal(t, "RUN CHEAP", boxes[0].Name)

	resp = doJSON(t, handler, http.MethodGet, "/api/recommendations/user/nobody", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCreateOrder(t *testing.T) {
	handler, store := newTestHandler(t)
	ctx := context.Background()

	box, err := store.CreateBox(ctx, models.Box{
		Name: "FIT", Price: 8990, Category: models.CategoryPersonal, IsAvailable: true,
	})
	require.NoError(t, err)

	payload := map[string]interface{}{
		"userId":         "user-1",
		"boxId":          box.ID,
		"customerName":   "Иван Петров",
		"customerPhone":  "+79001234567",
		"deliveryMethod": "courier",
		"paymentMethod":  "cash",
		"totalPrice":     9490,
	}

	resp := doJSON(t, handler, http.MethodPost, "/api/orders", payload)
	require.Equal(t, http.StatusOK, resp.Code)

	var created models.Order
	decode(t, resp, &created)
	assert.Equal(t, 9490, created.TotalPrice)
	assert.Equal(t, models.OrderStatusPending, created.Status)
	assert.Regexp(t, `^KB\d{6}$`, created.OrderNumber)

	resp = doJSON(t, handler, http.MethodGet, "/api/orders/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, handler, http.MethodGet, "/api/orders/user/user-1", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var orders []models.Order
	decode(t, resp, &orders)
	assert.Len(t, orders, 1)

	resp = doJSON(t, handler, http.MethodGet, "/api/orders/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCreateOrderRejectsTotalMismatch(t *testing.T) {
	handler, store := newTestHandler(t)

	box, err := store.CreateBox(context.Background(), models.Box{
		Name: "FIT", Price: 8990, Category: models.CategoryPersonal, IsAvailable: true,
	})
	require.NoError(t, err)

	resp := doJSON(t, handler, http.MethodPost, "/api/orders", map[string]interface{}{
		"boxId":          box.ID,
		"customerName":   "Иван",
		"customerPhone":  "+79001234567",
		"deliveryMethod": "courier",
		"paymentMethod":  "cash",
		"totalPrice":     100,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCreateOrderRejectsUnavailableBox(t *testing.T) {
	handler, store := newTestHandler(t)

	box, err := store.CreateBox(context.Background(), models.Box{
		Name: "SOON", Price: 15990, Category: models.CategoryReady, IsAvailable: false,
	})
	require.NoError(t, err)

	resp := doJSON(t, handler, http.MethodPost, "/api/orders", map[string]interface{}{
		"boxId":          box.ID,
		"customerName":   "Иван",
		"customerPhone":  "+79001234567",
		"deliveryMethod": "pickup",
		"paymentMethod":  "card",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCreateOrderRejectsMissingFields(t *testing.T) {
	handler, store := newTestHandler(t)

	box, err := store.CreateBox(context.Background(), models.Box{
		Name: "FIT", Price: 8990, Category: models.CategoryPersonal, IsAvailable: true,
	})
	require.NoError(t, err)

	resp := doJSON(t, handler, http.MethodPost, "/api/orders", map[string]interface{}{
		"boxId":          box.ID,
		"customerName":   "Иван",
		"deliveryMethod": "pickup",
		"paymentMethod":  "card",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doJSON(t, handler, http.MethodPost, "/api/orders", map[string]interface{}{
		"boxId":         "missing",
		"customerName":  "Иван",
		"customerPhone": "+79001234567",
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestNotificationEndpoints(t *testing.T) {
	handler, store := newTestHandler(t)

	box, err := store.CreateBox(context.Background(), models.Box{
		Name: "SOON", Price: 15990, Category: models.CategoryReady, IsAvailable: false,
	})
	require.NoError(t, err)

	resp := doJSON(t, handler, http.MethodPost, "/api/notifications", map[string]string{
		"userId": "user-1",
		"boxId":  box.ID,
		"email":  "ivan@example.com",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var created models.Notification
	decode(t, resp, &created)
	assert.NotEmpty(t, created.ID)

	resp = doJSON(t, handler, http.MethodGet, "/api/notifications/box/"+box.ID, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var notifications []models.Notification
	decode(t, resp, &notifications)
	require.Len(t, notifications, 1)
	assert.Equal(t, "ivan@example.com", notifications[0].Email)

	resp = doJSON(t, handler, http.MethodPost, "/api/notifications", map[string]string{
		"userId": "user-1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doJSON(t, handler, http.MethodPost, "/api/notifications", map[string]string{
		"boxId": "missing",
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHealth(t *testing.T) {
	handler, _ := newTestHandler(t)

	resp := doJSON(t, handler, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}
