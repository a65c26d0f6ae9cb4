// Package nutrition resolves food names to per-100g nutrition facts.
//
// Lookups go through a provider chain: the USDA FoodData Central search
// API first, the FatSecret platform API when configured, and a built-in
// estimates table as the final fallback so a query never comes back
// empty-handed.
package nutrition
