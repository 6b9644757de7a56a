// Package api exposes the storefront REST API.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kavara-store/internal/models"
	"kavara-store/internal/order"
	"kavara-store/internal/recommend"
	"kavara-store/internal/storage"
	"kavara-store/pkg/logger"
)

type Handler struct {
	store  storage.Store
	logger *logger.Logger
}

// NewHandler builds the REST router over the given store.
func NewHandler(store storage.Store, l *logger.Logger) http.Handler {
	h := &Handler{store: store, logger: l}

	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", h.createUser)
		r.Get("/users/{id}", h.getUser)
		r.Get("/users/telegram/{telegramId}", h.getUserByTelegramID)

		r.Post("/quiz-responses", h.createQuizResponse)
		r.Get("/quiz-responses/user/{userId}", h.getQuizResponse)
		r.Put("/quiz-responses/user/{userId}", h.updateQuizResponse)

		r.Get("/boxes", h.listBoxes)
		r.Get("/boxes/{id}", h.getBox)
		r.Post("/boxes", h.createBox)

		r.Get("/recommendations/user/{userId}", h.getRecommendations)

		r.Post("/orders", h.createOrder)
		r.Get("/orders/{id}", h.getOrder)
		r.Get("/orders/user/{userId}", h.listOrdersByUser)

		r.Post("/notifications", h.createNotification)
		r.Get("/notifications/box/{boxId}", h.listNotificationsByBox)
	})

	return r
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		TelegramID string `json:"telegramId"`
		Username   string `json:"username"`
		FirstName  string `json:"firstName"`
		LastName   string `json:"lastName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid user data")
		return
	}

	user, err := h.store.CreateUser(r.Context(), models.User{
		TelegramID: payload.TelegramID,
		Username:   payload.Username,
		FirstName:  payload.FirstName,
		LastName:   payload.LastName,
	})
	if err != nil {
		h.logger.Error("Failed to create user", "error", err)
		h.writeError(w, http.StatusBadRequest, "invalid user data")
		return
	}

	h.writeJSON(w, http.StatusOK, user)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondLookupError(w, err, "User not found")
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

func (h *Handler) getUserByTelegramID(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetUserByTelegramID(r.Context(), chi.URLParam(r, "telegramId"))
	if err != nil {
		h.respondLookupError(w, err, "User not found")
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

type quizPayload struct {
	UserID string   `json:"userId"`
	Size   string   `json:"size"`
	Height int      `json:"height"`
	Weight int      `json:"weight"`
	Goals  []string `json:"goals"`
	Budget string   `json:"budget"`
}

func (p quizPayload) toModel() models.QuizResponse {
	return models.QuizResponse{
		UserID: p.UserID,
		Size:   p.Size,
		Height: p.Height,
		Weight: p.Weight,
		Goals:  p.Goals,
		Budget: p.Budget,
	}
}

// createQuizResponse has create-or-update semantics: a second
// submission for the same user overwrites the existing record instead
// of adding one.
func (h *Handler) createQuizResponse(w http.ResponseWriter, r *http.Request) {
	var payload quizPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid quiz data")
		return
	}

	resp := payload.toModel()

	if payload.UserID != "" {
		if _, err := h.store.GetQuizResponseByUser(r.Context(), payload.UserID); err == nil {
			updated, err := h.store.UpdateQuizResponseByUser(r.Context(), payload.UserID, resp)
			if err != nil {
				h.logger.Error("Failed to update quiz response", "error", err)
				h.writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			h.writeJSON(w, http.StatusOK, updated)
			return
		}
	}

	created, err := h.store.CreateQuizResponse(r.Context(), resp)
	if err != nil {
		h.logger.Error("Failed to create quiz response", "error", err)
		h.writeError(w, http.StatusBadRequest, "invalid quiz data")
		return
	}
	h.writeJSON(w, http.StatusOK, created)
}

func (h *Handler) getQuizResponse(w http.ResponseWriter, r *http.Request) {
	resp, err := h.store.GetQuizResponseByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.respondLookupError(w, err, "Quiz response not found")
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) updateQuizResponse(w http.ResponseWriter, r *http.Request) {
	var payload quizPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid quiz data")
		return
	}

	updated, err := h.store.UpdateQuizResponseByUser(r.Context(), chi.URLParam(r, "userId"), payload.toModel())
	if err != nil {
		h.respondLookupError(w, err, "Quiz response not found")
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) listBoxes(w http.ResponseWriter, r *http.Request) {
	var (
		boxes []models.Box
		err   error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		boxes, err = h.store.ListBoxesByCategory(r.Context(), category)
	} else {
		boxes, err = h.store.ListBoxes(r.Context())
	}
	if err != nil {
		h.logger.Error("Failed to list boxes", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if boxes == nil {
		boxes = []models.Box{}
	}
	h.writeJSON(w, http.StatusOK, boxes)
}

func (h *Handler) getBox(w http.ResponseWriter, r *http.Request) {
	box, err := h.store.GetBox(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondLookupError(w, err, "Box not found")
		return
	}
	h.writeJSON(w, http.StatusOK, box)
}

func (h *Handler) createBox(w http.ResponseWriter, r *http.Request) {
	var payload models.Box
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid box data")
		return
	}
	if payload.Name == "" || payload.Price <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid box data")
		return
	}

	box, err := h.store.CreateBox(r.Context(), payload)
	if err != nil {
		h.logger.Error("Failed to create box", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.writeJSON(w, http.StatusOK, box)
}

func (h *Handler) getRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	quiz, err := h.store.GetQuizResponseByUser(r.Context(), userID)
	if err != nil {
		h.respondLookupError(w, err, "Quiz response not found")
		return
	}

	boxes, err := h.store.ListBoxesByCategory(r.Context(), models.CategoryPersonal)
	if err != nil {
		h.logger.Error("Failed to list personal boxes", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	recommendations := recommend.TopRecommendations(boxes, quiz)
	if recommendations == nil {
		recommendations = []models.Box{}
	}
	h.writeJSON(w, http.StatusOK, recommendations)
}

// createOrder recomputes the total price from the stored box price and
// the fixed surcharge tables. A client-supplied total that disagrees is
// rejected rather than persisted verbatim.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID         string `json:"userId"`
		BoxID          string `json:"boxId"`
		CustomerName   string `json:"customerName"`
		CustomerPhone  string `json:"customerPhone"`
		CustomerEmail  string `json:"customerEmail"`
		DeliveryMethod string `json:"deliveryMethod"`
		PaymentMethod  string `json:"paymentMethod"`
		TotalPrice     int    `json:"totalPrice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid order data")
		return
	}

	box, err := h.store.GetBox(r.Context(), payload.BoxID)
	if err != nil {
		h.respondLookupError(w, err, "Box not found")
		return
	}

	assembled, err := order.Assemble(box, payload.UserID, order.Form{
		CustomerName:   payload.CustomerName,
		CustomerPhone:  payload.CustomerPhone,
		CustomerEmail:  payload.CustomerEmail,
		DeliveryMethod: payload.DeliveryMethod,
		PaymentMethod:  payload.PaymentMethod,
	})
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if payload.TotalPrice != 0 && payload.TotalPrice != assembled.TotalPrice {
		h.writeError(w, http.StatusBadRequest, "total price mismatch")
		return
	}

	created, err := h.store.CreateOrder(r.Context(), assembled)
	if err != nil {
		h.logger.Error("Failed to create order", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.writeJSON(w, http.StatusOK, created)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.store.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondLookupError(w, err, "Order not found")
		return
	}
	h.writeJSON(w, http.StatusOK, o)
}

func (h *Handler) listOrdersByUser(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListOrdersByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.logger.Error("Failed to list orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) createNotification(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID string `json:"userId"`
		BoxID  string `json:"boxId"`
		Email  string `json:"email"`
		Phone  string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid notification data")
		return
	}
	if payload.BoxID == "" {
		h.writeError(w, http.StatusBadRequest, "boxId is required")
		return
	}
	if _, err := h.store.GetBox(r.Context(), payload.BoxID); err != nil {
		h.respondLookupError(w, err, "Box not found")
		return
	}

	n, err := h.store.CreateNotification(r.Context(), models.Notification{
		UserID: payload.UserID,
		BoxID:  payload.BoxID,
		Email:  payload.Email,
		Phone:  payload.Phone,
	})
	if err != nil {
		h.logger.Error("Failed to create notification", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.writeJSON(w, http.StatusOK, n)
}

func (h *Handler) listNotificationsByBox(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.store.ListNotificationsByBox(r.Context(), chi.URLParam(r, "boxId"))
	if err != nil {
		h.logger.Error("Failed to list notifications", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	h.writeJSON(w, http.StatusOK, notifications)
}

func (h *Handler) respondLookupError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, storage.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, message)
		return
	}
	h.logger.Error("Storage lookup failed", "error", err)
	h.writeError(w, http.StatusInternalServerError, "Internal server error")
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
