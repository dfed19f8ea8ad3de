package database

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/listing"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/moderation"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/search"
)

func setupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "roomfinder-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := Open(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to open database: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return db, cleanup
}

func TestOpen(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	for _, table := range []string{"listings", "reviews", "notifications"} {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		if err != nil {
			t.Fatalf("failed to query tables: %v", err)
		}
		if count != 1 {
			t.Errorf("expected %s table to exist", table)
		}
	}
}

func TestOpen_Twice(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "again.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	db.Close()
}

func seedListings(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()

	listings := []listing.Listing{
		{
			ID: "q1-wifi", Title: "Phòng trọ Q1 có wifi", PropertyType: listing.PropertyRoom,
			Price: 4_500_000, Area: 20,
			Address:            listing.Address{District: "Quận 1", City: "TP. Hồ Chí Minh"},
			Amenities:          listing.Amenities{listing.AmenityWifi: true},
			Rules:              "Chỉ nhận nữ",
			Status:             listing.StatusAvailable,
			ModerationDecision: listing.DecisionAutoApproved,
		},
		{
			ID: "q10", Title: "Phòng Q10", PropertyType: listing.PropertyRoom,
			Price: 4_000_000, Area: 18,
			Address:            listing.Address{District: "Quận 10", City: "TP.HCM"},
			Amenities:          listing.Amenities{listing.AmenityWifi: true, listing.AmenityAC: true},
			Status:             listing.StatusAvailable,
			ModerationDecision: listing.DecisionAutoApproved,
		},
		{
			ID: "q1-rented", Title: "Căn hộ Q1", PropertyType: listing.PropertyApartment,
			Price: 9_000_000, Area: 45, Bedrooms: 2,
			Address:            listing.Address{District: "Q.1", City: "Sài Gòn"},
			Status:             listing.StatusRented,
			ModerationDecision: listing.DecisionAutoApproved,
		},
		{
			ID: "q1-pending", Title: "Phòng chờ duyệt", PropertyType: listing.PropertyRoom,
			Price: 3_000_000, Area: 15,
			Address: listing.Address{District: "quận 1", City: "TP. Hồ Chí Minh"},
			Status:  listing.StatusAvailable,
		},
	}

	for i := range listings {
		if err := db.CreateListing(ctx, &listings[i]); err != nil {
			t.Fatalf("CreateListing(%s) failed: %v", listings[i].ID, err)
		}
	}
}

func TestListingCRUD(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	score := 0.9
	l := &listing.Listing{
		Title:           "Căn hộ mini Bình Thạnh",
		PropertyType:    listing.PropertyMiniApartment,
		Price:           6_000_000,
		Area:            30,
		Address:         listing.Address{Street: "12 Điện Biên Phủ", District: "Bình Thạnh", City: "TP. Hồ Chí Minh"},
		Amenities:       listing.Amenities{listing.AmenityBalcony: true},
		ModerationScore: &score,
		LandlordID:      "landlord-1",
	}
	if err := db.CreateListing(ctx, l); err != nil {
		t.Fatalf("CreateListing failed: %v", err)
	}
	if l.ID == "" {
		t.Error("expected ID to be set after create")
	}
	if l.ModerationDecision != listing.DecisionPending {
		t.Errorf("expected default decision pending, got %s", l.ModerationDecision)
	}

	fetched, err := db.GetListing(ctx, l.ID)
	if err != nil {
		t.Fatalf("GetListing failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected listing to be found")
	}
	if fetched.PropertyType != listing.PropertyMiniApartment {
		t.Errorf("expected PropertyType=chung-cu-mini, got %s", fetched.PropertyType)
	}
	if !fetched.Amenities[listing.AmenityBalcony] {
		t.Error("expected balcony amenity to round-trip")
	}
	if fetched.ModerationScore == nil || *fetched.ModerationScore != 0.9 {
		t.Errorf("expected ModerationScore=0.9, got %v", fetched.ModerationScore)
	}
	if fetched.LandlordID != "landlord-1" {
		t.Errorf("expected LandlordID=landlord-1, got %s", fetched.LandlordID)
	}

	if err := db.SetListingModeration(ctx, l.ID, listing.DecisionAutoApproved, nil); err != nil {
		t.Fatalf("SetListingModeration failed: %v", err)
	}
	fetched, _ = db.GetListing(ctx, l.ID)
	if fetched.ModerationDecision != listing.DecisionAutoApproved || fetched.ModerationScore != nil {
		t.Errorf("unexpected moderation after update: %s %v", fetched.ModerationDecision, fetched.ModerationScore)
	}

	missing, err := db.GetListing(ctx, "nope")
	if err != nil {
		t.Fatalf("GetListing(missing) failed: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing listing")
	}

	if err := db.SetListingModeration(ctx, "nope", listing.DecisionRejected, nil); err == nil {
		t.Error("expected error for missing listing")
	}
}

func TestListListings(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	seedListings(t, db)
	ctx := context.Background()

	all, err := db.ListListings(ctx, ListingListOptions{})
	if err != nil {
		t.Fatalf("ListListings failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 listings, got %d", len(all))
	}

	rented := listing.StatusRented
	got, err := db.ListListings(ctx, ListingListOptions{Status: &rented})
	if err != nil {
		t.Fatalf("ListListings(rented) failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "q1-rented" {
		t.Errorf("expected only q1-rented, got %v", ids(got))
	}
}

func ids(listings []listing.Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}

func TestFindListings(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	seedListings(t, db)
	ctx := context.Background()

	minPrice, maxPrice := 4_000_000.0, 5_000_000.0
	tests := []struct {
		name     string
		query    listing.Query
		expected []string
	}{
		{
			name:     "eligible only",
			query:    listing.Query{Status: listing.StatusAvailable, ModerationDecision: listing.DecisionAutoApproved},
			expected: []string{"q1-wifi", "q10"},
		},
		{
			name: "district does not match a longer number",
			query: listing.Query{
				Status:          listing.StatusAvailable,
				DistrictPattern: `(?:Quận 1|quận 1|Q1|Q\.1|quan 1)(?:[^0-9]|$)`,
			},
			expected: []string{"q1-wifi", "q1-pending"},
		},
		{
			name:     "price range",
			query:    listing.Query{PriceMin: &minPrice, PriceMax: &maxPrice},
			expected: []string{"q1-wifi", "q10"},
		},
		{
			name:     "amenities",
			query:    listing.Query{Amenities: []listing.Amenity{listing.AmenityAC, listing.AmenityWifi}},
			expected: []string{"q10"},
		},
		{
			name:     "property type spellings",
			query:    listing.Query{PropertyTypes: listing.PropertyApartment.Spellings()},
			expected: []string{"q1-rented"},
		},
		{
			name:     "city variants",
			query:    listing.Query{CityPattern: `(?:Hồ Chí Minh|Sài Gòn)`},
			expected: []string{"q1-wifi", "q1-rented", "q1-pending"},
		},
		{
			name:     "rules",
			query:    listing.Query{RulesPattern: `(?:NỮ|female)`},
			expected: []string{"q1-wifi"},
		},
		{
			name:     "bedrooms",
			query:    listing.Query{MinBedrooms: ptr(1)},
			expected: []string{"q1-rented"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.FindListings(ctx, tt.query)
			if err != nil {
				t.Fatalf("FindListings failed: %v", err)
			}
			if !sameIDs(ids(got), tt.expected) {
				t.Errorf("FindListings = %v, want %v", ids(got), tt.expected)
			}
		})
	}
}

func TestFindListings_BuildQuery(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	seedListings(t, db)

	f := search.NewFallbackParser().ParseQuery("phòng trọ quận 1 dưới 5tr có wifi")
	q := search.BuildQuery(f)
	q.Limit = 10

	got, err := db.FindListings(context.Background(), q)
	if err != nil {
		t.Fatalf("FindListings failed: %v", err)
	}
	if !sameIDs(ids(got), []string{"q1-wifi"}) {
		t.Errorf("FindListings = %v, want [q1-wifi]", ids(got))
	}
}

func TestFindListings_Limit(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	seedListings(t, db)

	got, err := db.FindListings(context.Background(), listing.Query{Limit: 2})
	if err != nil {
		t.Fatalf("FindListings failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 listings, got %d", len(got))
	}
}

func TestFindListings_InvalidPattern(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	seedListings(t, db)

	if _, err := db.FindListings(context.Background(), listing.Query{CityPattern: "(unclosed"}); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func sameIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	seen := make(map[string]bool, len(got))
	for _, id := range got {
		seen[id] = true
	}
	for _, id := range want {
		if !seen[id] {
			return false
		}
	}
	return true
}

func ptr[T any](v T) *T {
	return &v
}

func TestReviewCRUD(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	r := &Review{
		ListingID: "listing-1",
		UserID:    "user-1",
		Rating:    4,
		Title:     "Phòng sạch",
		Comment:   "Chủ nhà thân thiện, phòng sạch sẽ",
		Type:      moderation.ReviewRented,
		Verified:  true,
	}
	res := moderation.NewDefault().Moderate(r.Candidate(), moderation.History{})
	r.ApplyModeration(res)

	if err := db.CreateReview(ctx, r); err != nil {
		t.Fatalf("CreateReview failed: %v", err)
	}

	fetched, err := db.GetReview(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetReview failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected review to be found")
	}
	if fetched.Status != res.Status || fetched.TrustScore != res.TrustScore {
		t.Errorf("expected %s/%d, got %s/%d", res.Status, res.TrustScore, fetched.Status, fetched.TrustScore)
	}
	if fetched.Details == nil {
		t.Error("expected moderation details to round-trip")
	}
	if fetched.Type != moderation.ReviewRented || !fetched.Verified {
		t.Errorf("unexpected type/verified: %s %v", fetched.Type, fetched.Verified)
	}

	if err := db.SetReviewStatus(ctx, r.ID, moderation.StatusRejected, "Nội dung quảng cáo", "admin-1"); err != nil {
		t.Fatalf("SetReviewStatus failed: %v", err)
	}
	fetched, _ = db.GetReview(ctx, r.ID)
	if fetched.Status != moderation.StatusRejected {
		t.Errorf("expected Status=rejected, got %s", fetched.Status)
	}
	if fetched.Reason != "Nội dung quảng cáo" {
		t.Errorf("expected reason to be replaced, got %q", fetched.Reason)
	}
	if fetched.ModeratedBy == nil || *fetched.ModeratedBy != "admin-1" {
		t.Errorf("expected ModeratedBy=admin-1, got %v", fetched.ModeratedBy)
	}

	if err := db.SetReviewStatus(ctx, r.ID, moderation.StatusApproved, "", "admin-2"); err != nil {
		t.Fatalf("SetReviewStatus failed: %v", err)
	}
	fetched, _ = db.GetReview(ctx, r.ID)
	if fetched.Reason != "Nội dung quảng cáo" {
		t.Errorf("expected empty reason to keep the old one, got %q", fetched.Reason)
	}

	if err := db.DeleteReview(ctx, r.ID); err != nil {
		t.Fatalf("DeleteReview failed: %v", err)
	}
	fetched, err = db.GetReview(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetReview after delete failed: %v", err)
	}
	if fetched != nil {
		t.Error("expected review to be deleted")
	}
	if err := db.DeleteReview(ctx, r.ID); err == nil {
		t.Error("expected error deleting a missing review")
	}
}

func createReview(t *testing.T, db *DB, userID string, status moderation.Status, autoRejected bool) *Review {
	t.Helper()
	r := &Review{
		ListingID:    "listing-1",
		UserID:       userID,
		Rating:       3,
		Title:        "Tạm ổn",
		Comment:      "Phòng bình thường",
		Type:         moderation.ReviewViewing,
		Status:       status,
		AutoRejected: autoRejected,
		AutoApproved: status == moderation.StatusApproved,
	}
	if err := db.CreateReview(context.Background(), r); err != nil {
		t.Fatalf("CreateReview failed: %v", err)
	}
	return r
}

func TestUserReviewHistory(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	h, err := db.UserReviewHistory(ctx, "nobody")
	if err != nil {
		t.Fatalf("UserReviewHistory failed: %v", err)
	}
	if h != (moderation.History{}) {
		t.Errorf("expected empty history, got %+v", h)
	}

	createReview(t, db, "user-1", moderation.StatusApproved, false)
	createReview(t, db, "user-1", moderation.StatusApproved, false)
	createReview(t, db, "user-1", moderation.StatusRejected, true)
	createReview(t, db, "user-1", moderation.StatusPending, false)
	createReview(t, db, "user-2", moderation.StatusRejected, true)

	h, err = db.UserReviewHistory(ctx, "user-1")
	if err != nil {
		t.Fatalf("UserReviewHistory failed: %v", err)
	}
	want := moderation.History{Total: 4, Approved: 2, Rejected: 1}
	if h != want {
		t.Errorf("UserReviewHistory = %+v, want %+v", h, want)
	}
}

func TestListReviewsAndStats(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	createReview(t, db, "user-1", moderation.StatusApproved, false)
	createReview(t, db, "user-1", moderation.StatusPending, false)
	createReview(t, db, "user-2", moderation.StatusPending, false)
	createReview(t, db, "user-2", moderation.StatusRejected, true)

	pending := moderation.StatusPending
	reviews, err := db.ListReviews(ctx, ReviewListOptions{Status: &pending})
	if err != nil {
		t.Fatalf("ListReviews failed: %v", err)
	}
	if len(reviews) != 2 {
		t.Errorf("expected 2 pending reviews, got %d", len(reviews))
	}

	user := "user-2"
	reviews, _ = db.ListReviews(ctx, ReviewListOptions{UserID: &user, Limit: 1})
	if len(reviews) != 1 {
		t.Errorf("expected 1 review with limit, got %d", len(reviews))
	}

	stats, err := db.GetReviewStats(ctx)
	if err != nil {
		t.Fatalf("GetReviewStats failed: %v", err)
	}
	want := ReviewStats{Total: 4, Pending: 2, Approved: 1, Rejected: 1, AutoApproved: 1, AutoRejected: 1}
	if *stats != want {
		t.Errorf("GetReviewStats = %+v, want %+v", *stats, want)
	}
}

func TestUpdateReviewModeration(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	r := createReview(t, db, "user-1", moderation.StatusPending, false)

	m := moderation.NewDefault()
	m.SetClock(func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) })
	r.ApplyModeration(m.Moderate(r.Candidate(), moderation.History{}))

	if err := db.UpdateReviewModeration(ctx, r); err != nil {
		t.Fatalf("UpdateReviewModeration failed: %v", err)
	}

	fetched, _ := db.GetReview(ctx, r.ID)
	if fetched.TrustScore != r.TrustScore || fetched.Status != r.Status {
		t.Errorf("expected %s/%d, got %s/%d", r.Status, r.TrustScore, fetched.Status, fetched.TrustScore)
	}
	if fetched.ModeratedAt == nil || !fetched.ModeratedAt.Equal(*r.ModeratedAt) {
		t.Errorf("expected ModeratedAt=%v, got %v", r.ModeratedAt, fetched.ModeratedAt)
	}

	r.ID = "missing"
	if err := db.UpdateReviewModeration(ctx, r); err == nil {
		t.Error("expected error for missing review")
	}
}

func TestNotifications(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	n := &Notification{
		UserID:  "user-1",
		Type:    NotifyReviewPending,
		Title:   "Đánh giá đang chờ kiểm duyệt",
		Message: "Đánh giá của bạn đang được kiểm duyệt",
		Data:    map[string]any{"trustScore": 55},
	}
	if err := db.CreateNotification(ctx, n); err != nil {
		t.Fatalf("CreateNotification failed: %v", err)
	}
	if err := db.CreateNotification(ctx, &Notification{UserID: "user-2", Type: NotifyReviewNew, Title: "t", Message: "m"}); err != nil {
		t.Fatalf("CreateNotification failed: %v", err)
	}

	got, err := db.ListNotifications(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("ListNotifications failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(got))
	}
	if got[0].Type != NotifyReviewPending {
		t.Errorf("expected type review_pending, got %s", got[0].Type)
	}
	if got[0].Data["trustScore"] != float64(55) {
		t.Errorf("expected trustScore 55 in data, got %v", got[0].Data["trustScore"])
	}
}

func TestRegexpMatch(t *testing.T) {
	tests := []struct {
		pattern, value string
		expected       bool
	}{
		{"quận 1", "QUẬN 1", true},
		{"^(?:can-ho)$", "can-ho", true},
		{"^(?:can-ho)$", "can-ho-mini", false},
		{"nữ", "", false},
	}

	for _, tt := range tests {
		got, err := regexpMatch(tt.pattern, tt.value)
		if err != nil {
			t.Fatalf("regexpMatch(%q) error: %v", tt.pattern, err)
		}
		if got != tt.expected {
			t.Errorf("regexpMatch(%q, %q) = %v, want %v", tt.pattern, tt.value, got, tt.expected)
		}
	}

	if _, err := regexpMatch("(", "x"); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestInsertListingTransaction(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		for _, title := range []string{"Phòng A", "Phòng B"} {
			if err := InsertListing(ctx, tx, &listing.Listing{Title: title, Price: 2_000_000}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Transaction failed: %v", err)
	}

	// a duplicate ID aborts the whole batch
	err = db.Transaction(ctx, func(tx *sql.Tx) error {
		if err := InsertListing(ctx, tx, &listing.Listing{ID: "dup", Title: "Phòng C"}); err != nil {
			return err
		}
		return InsertListing(ctx, tx, &listing.Listing{ID: "dup", Title: "Phòng D"})
	})
	if err == nil {
		t.Fatal("expected duplicate ID to fail")
	}

	listings, err := db.ListListings(ctx, ListingListOptions{})
	if err != nil {
		t.Fatalf("ListListings failed: %v", err)
	}
	if len(listings) != 2 {
		t.Errorf("expected 2 listings after rollback, got %d", len(listings))
	}
}
