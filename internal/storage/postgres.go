package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"kavara-store/internal/config"
	"kavara-store/internal/models"
)

// Postgres is the pgx-backed Store.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

func NewPostgres(cfg config.DB) (*Postgres, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode, cfg.MaxOpenConns,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DB connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnLifetime
	poolConfig.MaxConnIdleTime = 15 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func (db *Postgres) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Bootstrap creates the schema if it is missing and seeds the catalog
// when the boxes table is empty.
func (db *Postgres) Bootstrap(ctx context.Context) error {
	schema := `
        CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            telegram_id TEXT UNIQUE,
            username TEXT NOT NULL DEFAULT '',
            first_name TEXT NOT NULL DEFAULT '',
            last_name TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE TABLE IF NOT EXISTS quiz_responses (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL DEFAULT '',
            size TEXT NOT NULL DEFAULT '',
            height INTEGER NOT NULL DEFAULT 0,
            weight INTEGER NOT NULL DEFAULT 0,
            goals JSONB,
            budget TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE TABLE IF NOT EXISTS boxes (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price INTEGER NOT NULL,
            image_url TEXT NOT NULL DEFAULT '',
            contents JSONB,
            category TEXT NOT NULL DEFAULT '',
            sport_types JSONB,
            emoji TEXT NOT NULL DEFAULT '',
            is_available BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            order_number TEXT NOT NULL UNIQUE,
            user_id TEXT NOT NULL DEFAULT '',
            box_id TEXT NOT NULL DEFAULT '',
            customer_name TEXT NOT NULL,
            customer_phone TEXT NOT NULL,
            customer_email TEXT NOT NULL DEFAULT '',
            delivery_method TEXT NOT NULL,
            payment_method TEXT NOT NULL,
            total_price INTEGER NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE TABLE IF NOT EXISTS notifications (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL DEFAULT '',
            box_id TEXT NOT NULL,
            email TEXT NOT NULL DEFAULT '',
            phone TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
    `
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	var count int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM boxes`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count boxes: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, box := range SeedBoxes() {
		if _, err := db.CreateBox(ctx, box); err != nil {
			return fmt.Errorf("failed to seed box %q: %w", box.Name, err)
		}
	}
	return nil
}

func (db *Postgres) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	user.ID = uuid.NewString()

	query := `
        INSERT INTO users (id, telegram_id, username, first_name, last_name)
        VALUES ($1, NULLIF($2, ''), $3, $4, $5)
        RETURNING created_at
    `
	err := db.pool.QueryRow(ctx, query,
		user.ID, user.TelegramID, user.Username, user.FirstName, user.LastName,
	).Scan(&user.CreatedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (db *Postgres) GetUser(ctx context.Context, id string) (models.User, error) {
	query := `
        SELECT id, COALESCE(telegram_id, ''), username, first_name, last_name, created_at
        FROM users
        WHERE id = $1
    `
	var user models.User
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.TelegramID, &user.Username,
		&user.FirstName, &user.LastName, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (db *Postgres) GetUserByTelegramID(ctx context.Context, telegramID string) (models.User, error) {
	query := `
        SELECT id, COALESCE(telegram_id, ''), username, first_name, last_name, created_at
        FROM users
        WHERE telegram_id = $1
    `
	var user models.User
	err := db.pool.QueryRow(ctx, query, telegramID).Scan(
		&user.ID, &user.TelegramID, &user.Username,
		&user.FirstName, &user.LastName, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get user by telegram id: %w", err)
	}

	return user, nil
}

func (db *Postgres) CreateQuizResponse(ctx context.Context, resp models.QuizResponse) (models.QuizResponse, error) {
	resp.ID = uuid.NewString()

	goals, err := json.Marshal(resp.Goals)
	if err != nil {
		return models.QuizResponse{}, fmt.Errorf("failed to encode goals: %w", err)
	}

	query := `
        INSERT INTO quiz_responses (id, user_id, size, height, weight, goals, budget)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at
    `
	err = db.pool.QueryRow(ctx, query,
		resp.ID, resp.UserID, resp.Size, resp.Height, resp.Weight, goals, resp.Budget,
	).Scan(&resp.CreatedAt)
	if err != nil {
		return models.QuizResponse{}, fmt.Errorf("failed to create quiz response: %w", err)
	}

	return resp, nil
}

func (db *Postgres) GetQuizResponseByUser(ctx context.Context, userID string) (models.QuizResponse, error) {
	query := `
        SELECT id, user_id, size, height, weight, goals, budget, created_at
        FROM quiz_responses
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT 1
    `
	var (
		resp  models.QuizResponse
		goals []byte
	)
	err := db.pool.QueryRow(ctx, query, userID).Scan(
		&resp.ID, &resp.UserID, &resp.Size, &resp.Height, &resp.Weight,
		&goals, &resp.Budget, &resp.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.QuizResponse{}, ErrNotFound
	}
	if err != nil {
		return models.QuizResponse{}, fmt.Errorf("failed to get quiz response: %w", err)
	}
	if err := json.Unmarshal(goals, &resp.Goals); err != nil {
		return models.QuizResponse{}, fmt.Errorf("failed to decode goals: %w", err)
	}

	return resp, nil
}

// UpdateQuizResponseByUser overwrites the user's current answers.
// Last write wins; there is no version column.
func (db *Postgres) UpdateQuizResponseByUser(ctx context.Context, userID string, resp models.QuizResponse) (models.QuizResponse, error) {
	goals, err := json.Marshal(resp.Goals)
	if err != nil {
		return models.QuizResponse{}, fmt.Errorf("failed to encode goals: %w", err)
	}

	query := `
        UPDATE quiz_responses
        SET size = $2, height = $3, weight = $4, goals = $5, budget = $6
        WHERE user_id = $1
        RETURNING id, created_at
    `
	updated := resp
	updated.UserID = userID
	err = db.pool.QueryRow(ctx, query,
		userID, resp.Size, resp.Height, resp.Weight, goals, resp.Budget,
	).Scan(&updated.ID, &updated.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.QuizResponse{}, ErrNotFound
	}
	if err != nil {
		return models.QuizResponse{}, fmt.Errorf("failed to update quiz response: %w", err)
	}

	return updated, nil
}

func (db *Postgres) CreateBox(ctx context.Context, box models.Box) (models.Box, error) {
	box.ID = uuid.NewString()

	contents, err := json.Marshal(box.Contents)
	if err != nil {
		return models.Box{}, fmt.Errorf("failed to encode contents: %w", err)
	}
	sportTypes, err := json.Marshal(box.SportTypes)
	if err != nil {
		return models.Box{}, fmt.Errorf("failed to encode sport types: %w", err)
	}

	query := `
        INSERT INTO boxes (id, name, description, price, image_url, contents, category, sport_types, emoji, is_available)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING created_at
    `
	err = db.pool.QueryRow(ctx, query,
		box.ID, box.Name, box.Description, box.Price, box.ImageURL,
		contents, box.Category, sportTypes, box.Emoji, box.IsAvailable,
	).Scan(&box.CreatedAt)
	if err != nil {
		return models.Box{}, fmt.Errorf("failed to create box: %w", err)
	}

	return box, nil
}

const boxColumns = `id, name, description, price, image_url, contents, category, sport_types, emoji, is_available, created_at`

func (db *Postgres) GetBox(ctx context.Context, id string) (models.Box, error) {
	query := `SELECT ` + boxColumns + ` FROM boxes WHERE id = $1`

	row := db.pool.QueryRow(ctx, query, id)
	box, err := scanBox(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Box{}, ErrNotFound
	}
	if err != nil {
		return models.Box{}, fmt.Errorf("failed to get box: %w", err)
	}
	return box, nil
}

func (db *Postgres) ListBoxes(ctx context.Context) ([]models.Box, error) {
	query := `SELECT ` + boxColumns + ` FROM boxes ORDER BY created_at DESC`
	return db.queryBoxes(ctx, query)
}

func (db *Postgres) ListBoxesByCategory(ctx context.Context, category string) ([]models.Box, error) {
	query := `SELECT ` + boxColumns + ` FROM boxes WHERE category = $1 ORDER BY created_at DESC`
	return db.queryBoxes(ctx, query, category)
}

func (db *Postgres) queryBoxes(ctx context.Context, query string, args ...interface{}) ([]models.Box, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list boxes: %w", err)
	}
	defer rows.Close()

	var boxes []models.Box
	for rows.Next() {
		box, err := scanBox(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan box: %w", err)
		}
		boxes = append(boxes, box)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read boxes: %w", err)
	}
	return boxes, nil
}

func scanBox(row pgx.Row) (models.Box, error) {
	var (
		box        models.Box
		contents   []byte
		sportTypes []byte
	)
	err := row.Scan(
		&box.ID, &box.Name, &box.Description, &box.Price, &box.ImageURL,
		&contents, &box.Category, &sportTypes, &box.Emoji, &box.IsAvailable,
		&box.CreatedAt,
	)
	if err != nil {
		return models.Box{}, err
	}
	if err := json.Unmarshal(contents, &box.Contents); err != nil {
		return models.Box{}, fmt.Errorf("failed to decode contents: %w", err)
	}
	if err := json.Unmarshal(sportTypes, &box.SportTypes); err != nil {
		return models.Box{}, fmt.Errorf("failed to decode sport types: %w", err)
	}
	return box, nil
}

func (db *Postgres) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	order.ID = uuid.NewString()

	query := `
        INSERT INTO orders (id, order_number, user_id, box_id, customer_name, customer_phone,
                            customer_email, delivery_method, payment_method, total_price, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING created_at
    `
	err := db.pool.QueryRow(ctx, query,
		order.ID, order.OrderNumber, order.UserID, order.BoxID,
		order.CustomerName, order.CustomerPhone, order.CustomerEmail,
		order.DeliveryMethod, order.PaymentMethod, order.TotalPrice, order.Status,
	).Scan(&order.CreatedAt)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to create order: %w", err)
	}

	return order, nil
}

const orderColumns = `id, order_number, user_id, box_id, customer_name, customer_phone, customer_email, delivery_method, payment_method, total_price, status, created_at`

func (db *Postgres) GetOrder(ctx context.Context, id string) (models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var order models.Order
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.OrderNumber, &order.UserID, &order.BoxID,
		&order.CustomerName, &order.CustomerPhone, &order.CustomerEmail,
		&order.DeliveryMethod, &order.PaymentMethod, &order.TotalPrice,
		&order.Status, &order.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}

func (db *Postgres) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := db.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		err := rows.Scan(
			&order.ID, &order.OrderNumber, &order.UserID, &order.BoxID,
			&order.CustomerName, &order.CustomerPhone, &order.CustomerEmail,
			&order.DeliveryMethod, &order.PaymentMethod, &order.TotalPrice,
			&order.Status, &order.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}
	return orders, nil
}

func (db *Postgres) CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	n.ID = uuid.NewString()

	query := `
        INSERT INTO notifications (id, user_id, box_id, email, phone)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at
    `
	err := db.pool.QueryRow(ctx, query,
		n.ID, n.UserID, n.BoxID, n.Email, n.Phone,
	).Scan(&n.CreatedAt)
	if err != nil {
		return models.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}

	return n, nil
}

func (db *Postgres) ListNotificationsByBox(ctx context.Context, boxID string) ([]models.Notification, error) {
	query := `
        SELECT id, user_id, box_id, email, phone, created_at
        FROM notifications
        WHERE box_id = $1
        ORDER BY created_at DESC
    `
	rows, err := db.pool.Query(ctx, query, boxID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var result []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.BoxID, &n.Email, &n.Phone, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notifications: %w", err)
	}
	return result, nil
}
