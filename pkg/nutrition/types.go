package nutrition

// Record holds per-100g nutrition facts for a single food item.
type Record struct {
	// Name is the food description as reported by the source.
	Name string `json:"name"`

	// Brand is the brand owner, if any.
	Brand string `json:"brand,omitempty"`

	// Source identifies which provider produced the record
	// ("usda", "fatsecret", "estimate").
	Source string `json:"source"`

	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
}

// MacroBreakdown is the share of calories contributed by each
// macronutrient, in percent.
type MacroBreakdown struct {
	ProteinPct float64 `json:"protein_pct"`
	CarbsPct   float64 `json:"carbs_pct"`
	FatPct     float64 `json:"fat_pct"`
}

// Macros computes the calorie split across protein, carbs and fat using
// the standard Atwater factors (4/4/9 kcal per gram). Foods with no
// macro content at all report a zero breakdown.
func (r Record) Macros() MacroBreakdown {
	proteinCal := r.Protein * 4
	carbsCal := r.Carbs * 4
	fatCal := r.Fat * 9

	total := proteinCal + carbsCal + fatCal
	if total <= 0 {
		return MacroBreakdown{}
	}

	return MacroBreakdown{
		ProteinPct: proteinCal / total * 100,
		CarbsPct:   carbsCal / total * 100,
		FatPct:     fatCal / total * 100,
	}
}
