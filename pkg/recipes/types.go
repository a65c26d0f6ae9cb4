package recipes

// Recipe is a single meal from TheMealDB, with the sparse
// strIngredientN/strMeasureN columns flattened into one list.
type Recipe struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category,omitempty"`
	Area         string   `json:"area,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
	Image        string   `json:"image,omitempty"`
	YouTube      string   `json:"youtube,omitempty"`
	Tags         []string `json:"tags,omitempty"`

	// Ingredients holds "measure ingredient" lines, e.g. "200g Rice".
	Ingredients []string `json:"ingredients"`
}
