package mcp

// Tool represents an MCP tool definition
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

var reviewProperties = map[string]any{
	"rating": map[string]any{
		"type":        "integer",
		"minimum":     1,
		"maximum":     5,
		"description": "Star rating from 1 to 5",
	},
	"title": map[string]any{
		"type":        "string",
		"description": "Review title",
	},
	"comment": map[string]any{
		"type":        "string",
		"description": "Review body",
	},
	"review_type": map[string]any{
		"type":        "string",
		"enum":        []string{"viewing", "rented"},
		"description": "Whether the author only viewed the room or actually rented it",
	},
	"verified": map[string]any{
		"type":        "boolean",
		"description": "The review is backed by a confirmed booking",
	},
}

func withProperties(base map[string]any, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// ToolDefinitions contains all available MCP tools
var ToolDefinitions = []Tool{
	{
		Name:        "moderate_review",
		Description: "Score a review without storing it. Returns the decision (approved, pending or rejected), the 0-100 trust score, the reason and every sub-check.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": withProperties(reviewProperties, map[string]any{
				"total_reviews": map[string]any{
					"type":        "integer",
					"description": "Author's previous review count (default: 0)",
				},
				"approved_reviews": map[string]any{
					"type":        "integer",
					"description": "How many of the author's previous reviews were approved",
				},
				"rejected_reviews": map[string]any{
					"type":        "integer",
					"description": "How many of the author's previous reviews were rejected",
				},
			}),
			"required": []string{"rating", "title", "comment", "review_type"},
		},
	},
	{
		Name:        "submit_review",
		Description: "Submit a review for a listing. The review is moderated against the author's stored history, saved, and the author is notified. Reviews below the trust floor are removed again.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": withProperties(reviewProperties, map[string]any{
				"listing_id": map[string]any{
					"type":        "string",
					"description": "Listing being reviewed",
				},
				"user_id": map[string]any{
					"type":        "string",
					"description": "Author of the review",
				},
				"user_name": map[string]any{
					"type":        "string",
					"description": "Author display name shown to the landlord",
				},
			}),
			"required": []string{"listing_id", "user_id", "rating", "title", "comment", "review_type"},
		},
	},
	{
		Name:        "search_listings",
		Description: "Search room listings with a natural-language query in Vietnamese or English, e.g. 'phòng trọ gần ĐH Bách Khoa dưới 3 triệu có máy lạnh'. Returns listings ranked by relevance.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query text",
				},
				"translate": map[string]any{
					"type":        "boolean",
					"description": "Translate non-Vietnamese queries before parsing (default: true)",
				},
			},
			"required": []string{"query"},
		},
	},
	{
		Name:        "parse_query",
		Description: "Show the structured filter a search query is parsed into, and which parser produced it.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query text",
				},
			},
			"required": []string{"query"},
		},
	},
	{
		Name:        "list_reviews",
		Description: "List stored reviews, newest first, optionally filtered by moderation status, listing or author.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"status": map[string]any{
					"type":        "string",
					"enum":        []string{"pending", "approved", "rejected", "all"},
					"description": "Filter by moderation status. Use 'all' or omit for no filter.",
				},
				"listing_id": map[string]any{
					"type":        "string",
					"description": "Only reviews of this listing",
				},
				"user_id": map[string]any{
					"type":        "string",
					"description": "Only reviews by this author",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of results to return (default: 20)",
				},
			},
		},
	},
	{
		Name:        "review_stats",
		Description: "Get review counts by moderation status, including how many were decided automatically.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
}
