// Package tools registers the nutrition explorer's MCP tools so the
// lookup services can be driven from an MCP-capable assistant.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/foodatlas/nutrition-explorer/pkg/mealplan"
	"github.com/foodatlas/nutrition-explorer/pkg/nutrition"
	"github.com/foodatlas/nutrition-explorer/pkg/recipes"
)

// Deps holds the services the tools call into.
type Deps struct {
	Nutrition *nutrition.Service
	Recipes   *recipes.Searcher
}

// Register adds all tools to the MCP server.
func Register(s *server.MCPServer, deps Deps) {
	s.AddTool(nutritionTool(), handleNutrition(deps))
	s.AddTool(recipeTool(), handleRecipes(deps))
	s.AddTool(mealPlanTool(), handleMealPlan())
}

func nutritionTool() mcp.Tool {
	return mcp.NewTool("food-nutrition",
		mcp.WithDescription("Look up per-100g nutrition facts (calories, protein, carbs, fat) for a food"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Food name, e.g. 'banana' or 'grilled chicken'"),
		),
	)
}

func handleNutrition(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		records, err := deps.Nutrition.Search(ctx, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("nutrition lookup failed: %v", err)), nil
		}
		if len(records) == 0 {
			return mcp.NewToolResultText("No nutrition data found for " + query), nil
		}

		return jsonResult(records)
	}
}

func recipeTool() mcp.Tool {
	return mcp.NewTool("recipe-search",
		mcp.WithDescription("Find recipes matching up to three ingredients"),
		mcp.WithString("ingredients",
			mcp.Required(),
			mcp.Description("Comma-separated ingredient list, e.g. 'chicken, rice'"),
		),
	)
}

func handleRecipes(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := req.RequireString("ingredients")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		found, err := deps.Recipes.Search(ctx, strings.Split(raw, ","))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("recipe search failed: %v", err)), nil
		}
		if len(found) == 0 {
			return mcp.NewToolResultText("No recipes found for " + raw), nil
		}

		return jsonResult(found)
	}
}

func mealPlanTool() mcp.Tool {
	return mcp.NewTool("meal-plan",
		mcp.WithDescription("Build a daily meal plan for a calorie target and dietary preference"),
		mcp.WithNumber("calories",
			mcp.Required(),
			mcp.Description("Daily calorie target between 1000 and 5000"),
		),
		mcp.WithString("diet",
			mcp.Description("Dietary preference: any, vegetarian, low-carb or high-protein"),
		),
	)
}

func handleMealPlan() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		calories, err := req.RequireFloat("calories")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		pref, err := mealplan.ParsePreference(req.GetString("diet", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		plan, err := mealplan.Build(calories, pref)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return jsonResult(plan)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
