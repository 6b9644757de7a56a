package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kavara-store/internal/models"
	"kavara-store/internal/quiz"
	"kavara-store/internal/recommend"
	"kavara-store/internal/storage"
	"kavara-store/pkg/logger"
)

const (
	StateIdle   = "idle"
	StateSize   = "size"
	StateHeight = "height"
	StateWeight = "weight"
	StateGoals  = "goals"
	StateBudget = "budget"
)

const (
	buttonBack = "⬅️ Назад"
	buttonDone = "✅ Готово"
)

var sizeOptions = []string{"XS", "S", "M", "L", "XL", "XXL"}

// goalLabels maps keyboard labels to the goal tags the recommendation
// filter understands.
var goalLabels = map[string]string{
	"🏃‍♂️ Бег/кардио":          "running",
	"💪 Силовые тренировки":    "strength",
	"🧘‍♀️ Йога/пилатес":        "yoga",
	"🚴‍♂️ Велоспорт":           "cycling",
	"🏀 Командные виды спорта": "team-sports",
	"🌟 Повседневная носка":    "casual",
}

var budgetLabels = map[string]string{
	"До 5000₽":     "5000",
	"5000-10000₽":  "10000",
	"10000-15000₽": "15000",
	"Свыше 15000₽": "15000+",
}

type conversation struct {
	State   string
	Session *quiz.Session
}

type TelegramBot struct {
	bot        *tgbotapi.BotAPI
	store      storage.Store
	logger     *logger.Logger
	miniAppURL string

	stateMutex    sync.RWMutex
	conversations map[int64]*conversation
}

func NewTelegramBot(token string, store storage.Store, miniAppURL string, logger *logger.Logger) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	logger.Info("Authorized on Telegram", "username", bot.Self.UserName)

	return &TelegramBot{
		bot:           bot,
		store:         store,
		logger:        logger,
		miniAppURL:    miniAppURL,
		conversations: make(map[int64]*conversation),
	}, nil
}

// Start begins receiving updates from Telegram via polling.
func (t *TelegramBot) Start(ctx context.Context) error {
	_, err := t.bot.Request(tgbotapi.DeleteWebhookConfig{
		DropPendingUpdates: true,
	})
	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := t.bot.GetUpdatesChan(updateConfig)

	t.logger.Info("Started receiving Telegram updates")

	go t.handleUpdates(ctx, updates)

	return nil
}

func (t *TelegramBot) handleUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		go func(update tgbotapi.Update) {
			defer func() {
				if r := recover(); r != nil {
					t.logger.Error("Recovered from panic while processing update", "error", r)
				}
			}()

			if update.Message != nil {
				if update.Message.IsCommand() {
					t.handleCommand(ctx, update.Message)
				} else {
					t.handleMessage(ctx, update.Message)
				}
			} else if update.CallbackQuery != nil {
				t.handleCallbackQuery(ctx, update.CallbackQuery)
			}
		}(update)
	}
}

// Stop gracefully shuts down the bot.
func (t *TelegramBot) Stop(ctx context.Context) error {
	t.bot.StopReceivingUpdates()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(500 * time.Millisecond):
		return nil
	}
}

func (t *TelegramBot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	userID := message.From.ID

	t.logger.Info("Handling command", "command", message.Command(), "user_id", userID)

	switch message.Command() {
	case "start":
		t.sendWelcome(chatID)
	case "quiz":
		t.startQuiz(chatID, userID)
	case "help":
		t.send(tgbotapi.NewMessage(chatID, "Я помогу подобрать спортивный бокс под ваши цели. Команды:\n/start — главное меню\n/quiz — пройти подбор"))
	default:
		t.send(tgbotapi.NewMessage(chatID, "Неизвестная команда. Используйте /start для начала работы."))
	}
}

func (t *TelegramBot) sendWelcome(chatID int64) {
	text := "🎽 Добро пожаловать в KAVARA!\n\n" +
		"Я ваш персональный стилист спортивной одежды. Могу подобрать готовый бокс или собрать индивидуальный комплект по результатам короткого теста."

	var rows [][]tgbotapi.InlineKeyboardButton
	if t.miniAppURL != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🚀 Открыть приложение", t.miniAppURL),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Пройти тест", "quiz"),
			tgbotapi.NewInlineKeyboardButtonData("📦 Готовые боксы", "ready_boxes"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📞 Поддержка", "support"),
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ О нас", "about"),
		),
	)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	t.send(msg)
}

func (t *TelegramBot) startQuiz(chatID, userID int64) {
	t.stateMutex.Lock()
	t.conversations[userID] = &conversation{
		State:   StateSize,
		Session: quiz.NewSession(),
	}
	t.stateMutex.Unlock()

	t.askSize(chatID)
}

func (t *TelegramBot) askSize(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Какой у вас размер одежды?")
	msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("XS"),
			tgbotapi.NewKeyboardButton("S"),
			tgbotapi.NewKeyboardButton("M"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("L"),
			tgbotapi.NewKeyboardButton("XL"),
			tgbotapi.NewKeyboardButton("XXL"),
		),
	)
	t.send(msg)
}

func (t *TelegramBot) askGoals(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Какие у вас цели? Можно выбрать несколько, затем нажмите «"+buttonDone+"».")
	msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("🏃‍♂️ Бег/кардио"),
			tgbotapi.NewKeyboardButton("💪 Силовые тренировки"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("🧘‍♀️ Йога/пилатес"),
			tgbotapi.NewKeyboardButton("🚴‍♂️ Велоспорт"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("🏀 Командные виды спорта"),
			tgbotapi.NewKeyboardButton("🌟 Повседневная носка"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonDone),
			tgbotapi.NewKeyboardButton(buttonBack),
		),
	)
	t.send(msg)
}

func (t *TelegramBot) askBudget(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Какой бюджет рассматриваете?")
	msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("До 5000₽"),
			tgbotapi.NewKeyboardButton("5000-10000₽"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("10000-15000₽"),
			tgbotapi.NewKeyboardButton("Свыше 15000₽"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonBack),
		),
	)
	t.send(msg)
}

func (t *TelegramBot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	userID := message.From.ID
	text := message.Text

	t.stateMutex.RLock()
	conv, exists := t.conversations[userID]
	t.stateMutex.RUnlock()

	if !exists || conv.State == StateIdle {
		t.send(tgbotapi.NewMessage(chatID, "Пожалуйста, используйте /start для начала работы с ботом."))
		return
	}

	switch conv.State {
	case StateSize:
		if !containsString(sizeOptions, text) {
			t.send(tgbotapi.NewMessage(chatID, "Пожалуйста, выберите размер с помощью кнопок ниже."))
			return
		}
		conv.Session.Size = text
		conv.State = StateHeight

		msg := tgbotapi.NewMessage(chatID, "Укажите ваш рост в сантиметрах (например, 175):")
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		t.send(msg)

	case StateHeight:
		height, err := strconv.Atoi(text)
		if err != nil || height < 50 || height > 250 {
			t.send(tgbotapi.NewMessage(chatID, "Пожалуйста, введите корректный рост в сантиметрах (например, 175):"))
			return
		}
		conv.Session.Height = height
		conv.State = StateWeight

		t.send(tgbotapi.NewMessage(chatID, "Укажите ваш вес в килограммах (например, 70):"))

	case StateWeight:
		weight, err := strconv.Atoi(text)
		if err != nil || weight < 30 || weight > 300 {
			t.send(tgbotapi.NewMessage(chatID, "Пожалуйста, введите корректный вес в килограммах (например, 70):"))
			return
		}
		conv.Session.Weight = weight
		if err := conv.Session.Next(); err != nil {
			t.logger.Error("Failed to advance quiz session", "error", err)
			t.send(tgbotapi.NewMessage(chatID, "Что-то пошло не так. Используйте /quiz, чтобы начать заново."))
			return
		}
		conv.State = StateGoals
		t.askGoals(chatID)

	case StateGoals:
		switch text {
		case buttonBack:
			conv.Session.Back()
			conv.State = StateSize
			t.askSize(chatID)
		case buttonDone:
			if err := conv.Session.Next(); err != nil {
				t.send(tgbotapi.NewMessage(chatID, "Выберите хотя бы одну цель."))
				return
			}
			conv.State = StateBudget
			t.askBudget(chatID)
		default:
			goal, ok := goalLabels[text]
			if !ok {
				t.send(tgbotapi.NewMessage(chatID, "Пожалуйста, используйте кнопки ниже."))
				return
			}
			conv.Session.ToggleGoal(goal)
			t.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Выбрано целей: %d. Нажмите «%s», когда закончите.", len(conv.Session.Goals), buttonDone)))
		}

	case StateBudget:
		if text == buttonBack {
			conv.Session.Back()
			conv.State = StateGoals
			t.askGoals(chatID)
			return
		}
		budget, ok := budgetLabels[text]
		if !ok {
			t.send(tgbotapi.NewMessage(chatID, "Пожалуйста, выберите бюджет с помощью кнопок ниже."))
			return
		}
		conv.Session.Budget = budget
		t.finishQuiz(ctx, message, conv)

	default:
		t.send(tgbotapi.NewMessage(chatID, "Извините, произошла ошибка. Используйте /start для начала заново."))
		t.stateMutex.Lock()
		delete(t.conversations, userID)
		t.stateMutex.Unlock()
	}
}

// finishQuiz persists the answers and replies with the top
// recommendations.
func (t *TelegramBot) finishQuiz(ctx context.Context, message *tgbotapi.Message, conv *conversation) {
	chatID := message.Chat.ID
	opCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	user, err := t.resolveUser(opCtx, message.From)
	if err != nil {
		t.logger.Error("Failed to resolve user", "error", err)
		t.send(tgbotapi.NewMessage(chatID, "Извините, произошла ошибка при сохранении данных. Попробуйте позже."))
		return
	}

	resp, err := conv.Session.Submit(user.ID)
	if err != nil {
		t.logger.Error("Failed to submit quiz session", "error", err)
		t.send(tgbotapi.NewMessage(chatID, "Что-то пошло не так. Используйте /quiz, чтобы начать заново."))
		return
	}

	// Create-or-update: a repeat submission overwrites the previous
	// answers instead of adding a second record.
	if _, lookupErr := t.store.GetQuizResponseByUser(opCtx, user.ID); lookupErr == nil {
		_, err = t.store.UpdateQuizResponseByUser(opCtx, user.ID, resp)
	} else {
		_, err = t.store.CreateQuizResponse(opCtx, resp)
	}
	if err != nil {
		t.logger.Error("Failed to save quiz response", "error", err)
		t.send(tgbotapi.NewMessage(chatID, "Извините, произошла ошибка при сохранении данных. Попробуйте позже."))
		return
	}

	t.stateMutex.Lock()
	delete(t.conversations, message.From.ID)
	t.stateMutex.Unlock()

	boxes, err := t.store.ListBoxesByCategory(opCtx, models.CategoryPersonal)
	if err != nil {
		t.logger.Error("Failed to list personal boxes", "error", err)
		t.send(tgbotapi.NewMessage(chatID, "Ответы сохранены, но подборка временно недоступна. Попробуйте позже."))
		return
	}

	recommendations := recommend.TopRecommendations(boxes, resp)

	done := tgbotapi.NewMessage(chatID, "Спасибо! Ваши ответы сохранены. 🎯")
	done.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	t.send(done)

	if len(recommendations) == 0 {
		t.send(tgbotapi.NewMessage(chatID, "Пока не нашлось боксов под ваши цели и бюджет. Загляните в готовые боксы: /start"))
		return
	}

	var b strings.Builder
	b.WriteString("Вот что мы подобрали для вас:\n")
	for i, box := range recommendations {
		b.WriteString(fmt.Sprintf("\n%d. %s %s — %d₽\n%s\n", i+1, box.Emoji, box.Name, box.Price, box.Description))
	}
	t.send(tgbotapi.NewMessage(chatID, b.String()))
}

// resolveUser finds or creates the storefront user for a Telegram
// account. The Telegram id is always treated as an external identifier,
// never inferred from the shape of a string.
func (t *TelegramBot) resolveUser(ctx context.Context, from *tgbotapi.User) (models.User, error) {
	telegramID := strconv.FormatInt(from.ID, 10)

	user, err := t.store.GetUserByTelegramID(ctx, telegramID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, err
	}

	return t.store.CreateUser(ctx, models.User{
		TelegramID: telegramID,
		Username:   from.UserName,
		FirstName:  from.FirstName,
		LastName:   from.LastName,
	})
}

func (t *TelegramBot) handleCallbackQuery(ctx context.Context, callbackQuery *tgbotapi.CallbackQuery) {
	t.bot.Request(tgbotapi.NewCallback(callbackQuery.ID, ""))

	if callbackQuery.Message == nil {
		return
	}
	chatID := callbackQuery.Message.Chat.ID
	userID := callbackQuery.From.ID
	data := callbackQuery.Data

	switch {
	case data == "quiz":
		t.startQuiz(chatID, userID)
	case data == "ready_boxes":
		t.sendReadyBoxes(ctx, chatID)
	case strings.HasPrefix(data, "notify:"):
		t.registerNotification(ctx, chatID, callbackQuery.From, strings.TrimPrefix(data, "notify:"))
	case data == "support":
		t.send(tgbotapi.NewMessage(chatID, "📞 Поддержка KAVARA: напишите нам @kavara_support, отвечаем ежедневно с 10:00 до 20:00."))
	case data == "about":
		t.send(tgbotapi.NewMessage(chatID, "KAVARA — сервис подбора спортивной экипировки. Мы собираем боксы под ваши цели, размер и бюджет."))
	default:
		t.logger.Info("Unknown callback", "data", data)
	}
}

func (t *TelegramBot) sendReadyBoxes(ctx context.Context, chatID int64) {
	opCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	boxes, err := t.store.ListBoxesByCategory(opCtx, models.CategoryReady)
	if err != nil {
		t.logger.Error("Failed to list ready boxes", "error", err)
		t.send(tgbotapi.NewMessage(chatID, "Каталог временно недоступен. Попробуйте позже."))
		return
	}

	for _, box := range boxes {
		text := fmt.Sprintf("%s %s — %d₽\n%s\nСостав: %s", box.Emoji, box.Name, box.Price, box.Description, strings.Join(box.Contents, ", "))
		msg := tgbotapi.NewMessage(chatID, text)
		if !box.IsAvailable {
			// Unavailable boxes are never purchasable, only notifiable.
			msg.Text += "\n\n⏳ Скоро в продаже"
			msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
				tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonData("🔔 Сообщить о поступлении", "notify:"+box.ID),
				),
			)
		}
		t.send(msg)
	}
}

func (t *TelegramBot) registerNotification(ctx context.Context, chatID int64, from *tgbotapi.User, boxID string) {
	opCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	user, err := t.resolveUser(opCtx, from)
	if err != nil {
		t.logger.Error("Failed to resolve user for notification", "error", err)
		t.send(tgbotapi.NewMessage(chatID, "Не удалось оформить подписку. Попробуйте позже."))
		return
	}

	_, err = t.store.CreateNotification(opCtx, models.Notification{
		UserID: user.ID,
		BoxID:  boxID,
	})
	if err != nil {
		t.logger.Error("Failed to create notification", "error", err)
		t.send(tgbotapi.NewMessage(chatID, "Не удалось оформить подписку. Попробуйте позже."))
		return
	}

	t.send(tgbotapi.NewMessage(chatID, "🔔 Готово! Сообщим, как только бокс появится в продаже."))
}

func (t *TelegramBot) send(msg tgbotapi.MessageConfig) {
	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Error("Failed to send message", "error", err, "chat_id", msg.ChatID)
	}
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
