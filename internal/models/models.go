// internal/models/models.go
package models

import (
	"time"
)

// SportType tags a box with the activities it suits.
type SportType string

const (
	SportRunning SportType = "running"
	SportPower   SportType = "power"
	SportYoga    SportType = "yoga"
	SportCycling SportType = "cycling"
	SportCommand SportType = "command_sports"
)

// Box categories. Ready boxes are offered as-is, personal boxes are
// matched against quiz answers.
const (
	CategoryReady    = "ready"
	CategoryPersonal = "personal"
)

// Order statuses. Orders are created as pending; further transitions
// belong to fulfillment processes outside this service.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

type User struct {
	ID         string    `json:"id"`
	TelegramID string    `json:"telegramId,omitempty"`
	Username   string    `json:"username,omitempty"`
	FirstName  string    `json:"firstName,omitempty"`
	LastName   string    `json:"lastName,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type QuizResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	Size      string    `json:"size,omitempty"`
	Height    int       `json:"height,omitempty"`
	Weight    int       `json:"weight,omitempty"`
	Goals     []string  `json:"goals,omitempty"`
	Budget    string    `json:"budget,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Box struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Price       int         `json:"price"`
	ImageURL    string      `json:"imageUrl,omitempty"`
	Contents    []string    `json:"contents,omitempty"`
	Category    string      `json:"category,omitempty"`
	SportTypes  []SportType `json:"sportTypes,omitempty"`
	Emoji       string      `json:"emoji,omitempty"`
	IsAvailable bool        `json:"isAvailable"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type Order struct {
	ID             string    `json:"id"`
	OrderNumber    string    `json:"orderNumber"`
	UserID         string    `json:"userId,omitempty"`
	BoxID          string    `json:"boxId,omitempty"`
	CustomerName   string    `json:"customerName"`
	CustomerPhone  string    `json:"customerPhone"`
	CustomerEmail  string    `json:"customerEmail,omitempty"`
	DeliveryMethod string    `json:"deliveryMethod"`
	PaymentMethod  string    `json:"paymentMethod"`
	TotalPrice     int       `json:"totalPrice"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Notification is a "tell me when this box is back" registration.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	BoxID     string    `json:"boxId"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
