// Package recipes finds recipes by ingredient using TheMealDB API.
// Multi-ingredient searches fan out one query per ingredient, then merge
// and dedupe the result set.
package recipes
