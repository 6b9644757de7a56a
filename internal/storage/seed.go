package storage

import "kavara-store/internal/models"

// SeedBoxes returns the initial KAVARA catalog. IDs and timestamps are
// assigned by the store that inserts them.
func SeedBoxes() []models.Box {
	return []models.Box{
		{
			Name:        "ФИТНЕС КОМПЛЕКТ",
			Description: "Полный набор для тренировок в спортзале",
			Price:       8990,
			ImageURL:    "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b",
			Contents:    []string{"Спортивная футболка KAVARA", "Шорты для тренировок", "Спортивные носки", "Полотенце"},
			Category:    models.CategoryReady,
			SportTypes:  []models.SportType{models.SportPower},
			Emoji:       "💪",
			IsAvailable: true,
		},
		{
			Name:        "БЕГОВОЙ НАБОР",
			Description: "Легкая и дышащая одежда для бега",
			Price:       7490,
			ImageURL:    "https://images.unsplash.com/photo-1506629905877-c1e5027f5b6c",
			Contents:    []string{"Беговая футболка", "Беговые шорты", "Компрессионные гетры"},
			Category:    models.CategoryReady,
			SportTypes:  []models.SportType{models.SportRunning},
			Emoji:       "🏃‍♂️",
			IsAvailable: true,
		},
		{
			Name:        "ЙОГА СТИЛЬ",
			Description: "Комфортная одежда для йоги и растяжки",
			Price:       6990,
			ImageURL:    "https://images.unsplash.com/photo-1544966503-7cc5ac882d5a",
			Contents:    []string{"Топ для йоги", "Леггинсы", "Коврик для йоги"},
			Category:    models.CategoryReady,
			SportTypes:  []models.SportType{models.SportYoga},
			Emoji:       "🧘‍♀️",
			IsAvailable: true,
		},
		{
			Name:        "ПРЕМИУМ СПОРТ",
			Description: "Элитная коллекция для профессиональных спортсменов",
			Price:       15990,
			ImageURL:    "https://images.unsplash.com/photo-1517838277536-f5f99be501cd",
			Contents:    []string{"Премиум футболка", "Компрессионные шорты", "Профессиональные аксессуары"},
			Category:    models.CategoryReady,
			Emoji:       "⭐",
			IsAvailable: false,
		},
		{
			Name:        "ЗИМНИЙ СПОРТ",
			Description: "Теплая спортивная одежда для холодного времени года",
			Price:       11990,
			ImageURL:    "https://images.unsplash.com/photo-1594736797933-d0b22ce8cd6c",
			Contents:    []string{"Утепленная куртка", "Термобелье", "Зимние аксессуары"},
			Category:    models.CategoryReady,
			Emoji:       "❄️",
			IsAvailable: false,
		},
		{
			Name:        "СИЛОВЫЕ ТРЕНИРОВКИ",
			Description: "Комплект для тренировок с железом",
			Price:       9990,
			ImageURL:    "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b",
			Contents:    []string{"Компрессионная футболка", "Шорты для тренировок", "Перчатки для зала"},
			Category:    models.CategoryPersonal,
			SportTypes:  []models.SportType{models.SportPower},
			Emoji:       "🏋️‍♂️",
			IsAvailable: true,
		},
		{
			Name:        "КАРДИО МИКС",
			Description: "Легкая одежда для кардио тренировок",
			Price:       8490,
			ImageURL:    "https://images.unsplash.com/photo-1506629905877-c1e5027f5b6c",
			Contents:    []string{"Дышащая футболка", "Легкие шорты", "Спортивные кроссовки"},
			Category:    models.CategoryPersonal,
			SportTypes:  []models.SportType{models.SportRunning, models.SportCycling},
			Emoji:       "🏃‍♀️",
			IsAvailable: true,
		},
		{
			Name:        "АКТИВНЫЙ СТИЛЬ",
			Description: "Стильный комплект для бега и активного образа жизни",
			Price:       7490,
			ImageURL:    "https://images.unsplash.com/photo-1506629905877-c1e5027f5b6c",
			Contents:    []string{"Беговая футболка", "Спортивные шорты", "Беговые кроссовки"},
			Category:    models.CategoryPersonal,
			SportTypes:  []models.SportType{models.SportRunning},
			Emoji:       "🏃‍♂️",
			IsAvailable: true,
		},
		{
			Name:        "ПРЕМИУМ ФИТНЕС",
			Description: "Профессиональный набор из премиальных материалов",
			Price:       12990,
			ImageURL:    "https://images.unsplash.com/photo-1544966503-7cc5ac882d5a",
			Contents:    []string{"Компрессионный топ", "Премиум леггинсы", "Профессиональные кроссовки"},
			Category:    models.CategoryPersonal,
			SportTypes:  []models.SportType{models.SportPower, models.SportYoga},
			Emoji:       "⭐",
			IsAvailable: true,
		},
	}
}
