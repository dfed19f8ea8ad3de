package mcp

// Resource defines an MCP resource
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

const (
	uriPendingReviews = "roomfinder://pending-reviews"
	uriReviewStats    = "roomfinder://review-stats"
	uriListings       = "roomfinder://listings"
)

// ResourceDefinitions lists all available resources
var ResourceDefinitions = []Resource{
	{
		URI:         uriPendingReviews,
		Name:        "Pending Reviews",
		Description: "Reviews waiting for a moderator decision, with their trust scores",
		MimeType:    "text/plain",
	},
	{
		URI:         uriReviewStats,
		Name:        "Review Statistics",
		Description: "Review counts by moderation status",
		MimeType:    "text/plain",
	},
	{
		URI:         uriListings,
		Name:        "Available Listings",
		Description: "The 50 newest listings open for rent",
		MimeType:    "text/plain",
	},
}

// resourcesListResult is the response for resources/list
type resourcesListResult struct {
	Resources []Resource `json:"resources"`
}

// readResourceParams is the params for resources/read
type readResourceParams struct {
	URI string `json:"uri"`
}

// readResourceResult is the response for resources/read
type readResourceResult struct {
	Contents []resourceContent `json:"contents"`
}

type resourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
}
