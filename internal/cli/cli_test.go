package cli

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/database"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/listing"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/moderation"
)

func TestCommandsRegistered(t *testing.T) {
	for _, path := range [][]string{
		{"version"},
		{"config", "init"},
		{"config", "show"},
		{"moderate"},
		{"reviews", "submit"},
		{"reviews", "list"},
		{"reviews", "show"},
		{"reviews", "stats"},
		{"reviews", "set-status"},
		{"reviews", "rescore"},
		{"reviews", "export"},
		{"listings", "import"},
		{"listings", "list"},
		{"listings", "moderate"},
		{"notifications"},
		{"search"},
		{"parse"},
		{"mcp"},
	} {
		cmd, rest, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Empty(t, rest, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestExportCSV(t *testing.T) {
	admin := "admin-1"
	reviews := []database.Review{
		{
			ID: "r1", ListingID: "l1", UserID: "u1", Rating: 4,
			Title: "Ở rất ổn", Comment: "Phòng sạch, có chỗ để xe",
			Type: moderation.ReviewRented, Verified: true,
			Status: moderation.StatusApproved, TrustScore: 90, AutoApproved: true,
			Reason:    "Verified review with good trust score (90/100)",
			CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			ID: "r2", ListingID: "l1", UserID: "u2", Rating: 1,
			Title: "Tệ", Comment: "tệ quá",
			Type:        moderation.ReviewViewing,
			Status:      moderation.StatusRejected,
			ModeratedBy: &admin,
			CreatedAt:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, exportCSV(&buf, reviews))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, exportHeader, records[0])
	assert.Equal(t, []string{
		"r1", "l1", "u1", "4", "Ở rất ổn", "Phòng sạch, có chỗ để xe", "rented",
		"true", "approved", "90", "true", "false",
		"Verified review with good trust score (90/100)", "", "2026-03-01T09:00:00Z",
	}, records[1])
	assert.Equal(t, "admin-1", records[2][13])
}

func TestTerminalColor(t *testing.T) {
	plain := &Terminal{}
	assert.Equal(t, "approved", plain.Color(ColorGreen, "approved"))

	colored := &Terminal{IsTerminal: true, UseColor: true}
	assert.Equal(t, ColorRed+"rejected"+ColorReset, colored.Color(ColorRed, "rejected"))
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, ColorGreen, StatusColor(moderation.StatusApproved))
	assert.Equal(t, ColorYellow, StatusColor(moderation.StatusPending))
	assert.Equal(t, ColorRed, StatusColor(moderation.StatusRejected))
	assert.Equal(t, ColorGray, StatusColor("unknown"))
}

func TestStatusBanner_NoTerminal(t *testing.T) {
	// go test output is not a terminal
	assert.Equal(t, "pending · trust score 60/100", statusBanner(moderation.StatusPending, 60))
}

func TestGradeListing(t *testing.T) {
	sparse := listing.Listing{Title: "Phòng rẻ", Price: 50_000_000, Area: 15}
	gradeListing(&sparse, "")
	assert.Equal(t, listing.DecisionRejected, sparse.ModerationDecision)
	require.NotNil(t, sparse.ModerationScore)
	assert.Less(t, *sparse.ModerationScore, 0.6)

	overridden := listing.Listing{Title: "Phòng rẻ"}
	gradeListing(&overridden, listing.DecisionAutoApproved)
	assert.Equal(t, listing.DecisionAutoApproved, overridden.ModerationDecision)
	assert.Nil(t, overridden.ModerationScore)

	decided := listing.Listing{Title: "Phòng rẻ", ModerationDecision: listing.DecisionPending}
	gradeListing(&decided, "")
	assert.Equal(t, listing.DecisionPending, decided.ModerationDecision)
	assert.Nil(t, decided.ModerationScore)
}
