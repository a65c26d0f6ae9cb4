package nutrition

import (
	"encoding/json"
	"testing"
)

func TestParseFoodDescription(t *testing.T) {
	desc := "Per 100g - Calories: 89kcal | Fat: 0.33g | Carbs: 22.84g | Protein: 1.10g"
	rec := parseFoodDescription(desc)

	if rec.Calories != 89 {
		t.Errorf("Calories = %v, want 89", rec.Calories)
	}
	if rec.Fat != 0.33 {
		t.Errorf("Fat = %v, want 0.33", rec.Fat)
	}
	if rec.Carbs != 22.84 {
		t.Errorf("Carbs = %v, want 22.84", rec.Carbs)
	}
	if rec.Protein != 1.10 {
		t.Errorf("Protein = %v, want 1.10", rec.Protein)
	}
}

func TestParseFoodDescription_Empty(t *testing.T) {
	rec := parseFoodDescription("")
	if rec.Calories != 0 || rec.Protein != 0 {
		t.Errorf("empty description should yield zero record, got %+v", rec)
	}
}

func TestDecodeFatSecretFoods_Array(t *testing.T) {
	raw := json.RawMessage(`[
		{"food_name": "Banana", "food_description": "Per 100g - Calories: 89kcal"},
		{"food_name": "Banana Bread", "brand_name": "Bakery", "food_description": "Per 100g - Calories: 326kcal"}
	]`)

	foods, err := decodeFatSecretFoods(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(foods) != 2 {
		t.Fatalf("len(foods) = %d, want 2", len(foods))
	}
	if foods[1].BrandName != "Bakery" {
		t.Errorf("BrandName = %q", foods[1].BrandName)
	}
}

func TestDecodeFatSecretFoods_SingleObject(t *testing.T) {
	// FatSecret drops the array wrapper when there is exactly one hit
	raw := json.RawMessage(`{"food_name": "Banana", "food_description": "Per 100g - Calories: 89kcal"}`)

	foods, err := decodeFatSecretFoods(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(foods) != 1 || foods[0].FoodName != "Banana" {
		t.Errorf("foods = %+v", foods)
	}
}

func TestDecodeFatSecretFoods_Empty(t *testing.T) {
	foods, err := decodeFatSecretFoods(nil)
	if err != nil || foods != nil {
		t.Errorf("decode(nil) = %v, %v; want nil, nil", foods, err)
	}
}
