// Package mealplan builds simple daily meal plans from a calorie target
// and a dietary preference.
package mealplan

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
)

// Preference narrows meal suggestions to a dietary style.
type Preference string

const (
	PreferenceAny         Preference = "any"
	PreferenceVegetarian  Preference = "vegetarian"
	PreferenceLowCarb     Preference = "low-carb"
	PreferenceHighProtein Preference = "high-protein"
)

// Calorie bounds for a daily plan. Outside this range the split stops
// resembling food.
const (
	MinCalories = 1000
	MaxCalories = 5000
)

// Meal is one slot of the daily plan.
type Meal struct {
	Slot       string  `json:"slot"`
	Calories   float64 `json:"calories"`
	Suggestion string  `json:"suggestion"`
}

// Plan is a full day of meals.
type Plan struct {
	TotalCalories float64    `json:"total_calories"`
	Preference    Preference `json:"preference"`
	Meals         []Meal     `json:"meals"`
}

// Calorie split across the day: breakfast 25%, lunch 35%, dinner 30%,
// snacks 10%.
var slotShares = []struct {
	slot  string
	share float64
}{
	{"breakfast", 0.25},
	{"lunch", 0.35},
	{"dinner", 0.30},
	{"snacks", 0.10},
}

// ParsePreference validates a preference string; empty means any.
func ParsePreference(s string) (Preference, error) {
	switch Preference(s) {
	case "", PreferenceAny:
		return PreferenceAny, nil
	case PreferenceVegetarian, PreferenceLowCarb, PreferenceHighProtein:
		return Preference(s), nil
	default:
		return "", fmt.Errorf("unknown dietary preference %q", s)
	}
}

// Build creates a daily plan for the calorie target.
func Build(totalCalories float64, pref Preference) (Plan, error) {
	// NaN compares false against both bounds, so check it explicitly.
	if math.IsNaN(totalCalories) || totalCalories < MinCalories || totalCalories > MaxCalories {
		return Plan{}, fmt.Errorf("calorie target %v out of range [%d, %d]",
			totalCalories, MinCalories, MaxCalories)
	}
	if pref == "" {
		pref = PreferenceAny
	}

	plan := Plan{
		TotalCalories: totalCalories,
		Preference:    pref,
		Meals:         make([]Meal, 0, len(slotShares)),
	}

	for _, s := range slotShares {
		calories := totalCalories * s.share
		plan.Meals = append(plan.Meals, Meal{
			Slot:       s.slot,
			Calories:   calories,
			Suggestion: suggest(s.slot, calories, pref),
		})
	}

	log.Debug().
		Float64("total_calories", totalCalories).
		Str("preference", string(pref)).
		Msg("Meal plan built")

	return plan, nil
}

// suggest picks a meal idea by slot and calorie tier.
func suggest(slot string, calories float64, pref Preference) string {
	switch slot {
	case "breakfast":
		return suggestBreakfast(calories, pref)
	case "lunch":
		return suggestLunch(calories, pref)
	case "dinner":
		return suggestDinner(calories, pref)
	default:
		return suggestSnacks(pref)
	}
}

func suggestBreakfast(calories float64, pref Preference) string {
	switch {
	case calories <= 300:
		if pref == PreferenceLowCarb {
			return "Greek yogurt with nuts"
		}
		return "Oatmeal with berries"
	case calories <= 500:
		if pref == PreferenceVegetarian {
			return "Veggie omelette with whole grain toast"
		}
		return "Eggs, toast and fruit"
	default:
		if pref == PreferenceHighProtein {
			return "Protein pancakes with cottage cheese"
		}
		return "Full breakfast with eggs, toast and avocado"
	}
}

func suggestLunch(calories float64, pref Preference) string {
	switch {
	case calories <= 400:
		if pref == PreferenceVegetarian {
			return "Lentil soup with side salad"
		}
		return "Grilled chicken salad"
	case calories <= 600:
		if pref == PreferenceLowCarb {
			return "Tuna salad lettuce wraps"
		}
		return "Turkey sandwich with vegetable soup"
	default:
		if pref == PreferenceVegetarian {
			return "Chickpea curry with rice"
		}
		return "Chicken rice bowl with roasted vegetables"
	}
}

func suggestDinner(calories float64, pref Preference) string {
	switch {
	case calories <= 500:
		if pref == PreferenceVegetarian {
			return "Stir-fried tofu with vegetables"
		}
		return "Baked fish with steamed vegetables"
	case calories <= 700:
		if pref == PreferenceLowCarb {
			return "Steak with cauliflower mash"
		}
		return "Salmon with quinoa and greens"
	default:
		if pref == PreferenceHighProtein {
			return "Grilled chicken with sweet potato and broccoli"
		}
		return "Pasta with lean meat sauce and salad"
	}
}

func suggestSnacks(pref Preference) string {
	switch pref {
	case PreferenceLowCarb:
		return "Cheese cubes and almonds"
	case PreferenceHighProtein:
		return "Protein shake and a boiled egg"
	case PreferenceVegetarian:
		return "Hummus with carrot sticks"
	default:
		return "Fruit, nuts or yogurt"
	}
}
