// Package recommend maps quiz answers to a ranked shortlist of boxes.
// All functions are pure and never return an error: unrecognized input
// degrades to the most permissive behavior instead of failing.
package recommend

import (
	"sort"

	"kavara-store/internal/models"
)

// maxRecommendations caps the shortlist returned to the user.
const maxRecommendations = 3

// noLimitCeiling stands in for "premium, no real cap". Unknown budget
// labels fail open to this ceiling.
const noLimitCeiling = 50000

var goalSports = map[string]models.SportType{
	"running":     models.SportRunning,
	"strength":    models.SportPower,
	"yoga":        models.SportYoga,
	"cycling":     models.SportCycling,
	"team-sports": models.SportCommand,
	"casual":      models.SportRunning,
}

var budgetCeilings = map[string]int{
	"5000":   5000,
	"10000":  10000,
	"15000":  15000,
	"15000+": noLimitCeiling,
}

// MapGoals translates quiz goal tags into sport types. Unknown tags are
// dropped silently.
func MapGoals(goals []string) []models.SportType {
	var sports []models.SportType
	for _, goal := range goals {
		if sport, ok := goalSports[goal]; ok {
			sports = append(sports, sport)
		}
	}
	return sports
}

// BudgetCeiling translates a budget label into a price ceiling.
func BudgetCeiling(label string) int {
	if ceiling, ok := budgetCeilings[label]; ok {
		return ceiling
	}
	return noLimitCeiling
}

// FilterBoxes returns the boxes eligible for the given quiz answers,
// sorted ascending by price. A quiz with no goals or no budget skips
// filtering entirely and passes through every available box, unsorted.
func FilterBoxes(boxes []models.Box, quiz models.QuizResponse) []models.Box {
	if len(quiz.Goals) == 0 || quiz.Budget == "" {
		var available []models.Box
		for _, box := range boxes {
			if box.IsAvailable {
				available = append(available, box)
			}
		}
		return available
	}

	userSports := MapGoals(quiz.Goals)
	ceiling := BudgetCeiling(quiz.Budget)

	var eligible []models.Box
	for _, box := range boxes {
		if !box.IsAvailable {
			continue
		}
		if box.Price > ceiling {
			continue
		}
		// Boxes without declared sport types match any goal set.
		if len(box.SportTypes) > 0 && !sportsIntersect(box.SportTypes, userSports) {
			continue
		}
		eligible = append(eligible, box)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Price < eligible[j].Price
	})
	return eligible
}

// TopRecommendations returns at most three eligible boxes, cheapest
// first.
func TopRecommendations(boxes []models.Box, quiz models.QuizResponse) []models.Box {
	filtered := FilterBoxes(boxes, quiz)
	if len(filtered) > maxRecommendations {
		filtered = filtered[:maxRecommendations]
	}
	return filtered
}

func sportsIntersect(declared, wanted []models.SportType) bool {
	for _, d := range declared {
		for _, w := range wanted {
			if d == w {
				return true
			}
		}
	}
	return false
}
