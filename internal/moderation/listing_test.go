package moderation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/listing"
)

func completeListing() listing.Listing {
	return listing.Listing{
		Title: "Phòng trọ cao cấp đầy đủ tiện nghi gần Đại học Quốc Gia",
		Description: "Phòng trọ mới xây, sạch sẽ, thoáng mát, an ninh 24/7. " +
			"Diện tích 25m2, có gác lửng, cửa sổ lớn, ánh sáng tự nhiên. " +
			"Đầy đủ tiện nghi: điều hòa, nóng lạnh, wifi, máy giặt chung. " +
			"Gần trường đại học, siêu thị, chợ, bệnh viện. Giờ giấc tự do, có thể nấu ăn.",
		PropertyType: listing.PropertyRoom,
		Price:        3_200_000,
		Area:         25,
		Address: listing.Address{
			Street:   "123 Nguyễn Văn Cừ",
			Ward:     "Phường 4",
			District: "Quận 5",
			City:     "TP. Hồ Chí Minh",
		},
		Bedrooms:  1,
		Bathrooms: 1,
		Amenities: listing.Amenities{listing.AmenityWifi: true, listing.AmenityAC: true},
	}
}

func TestModerateListing_Complete(t *testing.T) {
	res := ModerateListing(completeListing())

	assert.Equal(t, listing.DecisionAutoApproved, res.Decision)
	assert.InDelta(t, 1.0, res.Score, 0.001)
	assert.Equal(t, ListingScores{Text: 1, Completeness: 1, Price: 1}, res.Scores)
	assert.Empty(t, res.Reasons)
}

func TestModerateListing_Sparse(t *testing.T) {
	res := ModerateListing(listing.Listing{
		Title:        "Phòng rẻ",
		Description:  "Phòng cho thuê. Liên hệ ngay.",
		PropertyType: listing.PropertyRoom,
		Price:        50_000_000,
		Area:         15,
		Address:      listing.Address{District: "Quận 1"},
	})

	assert.Equal(t, listing.DecisionRejected, res.Decision)
	assert.InDelta(t, 0.5125, res.Score, 0.001)
	assert.InDelta(t, 0.55, res.Scores.Text, 0.001)
	assert.InDelta(t, 0.45, res.Scores.Completeness, 0.001)
	assert.InDelta(t, 0.55, res.Scores.Price, 0.001)
	assert.Contains(t, res.Reasons, "Found 1 suspicious phrases")
	assert.Contains(t, res.Reasons, "Incomplete address: missing street, ward, city")
}

func TestModerateListing_NeedsModerator(t *testing.T) {
	l := completeListing()
	l.Bedrooms, l.Bathrooms = 0, 0
	l.Price, l.Area = 12_000_000, 30

	res := ModerateListing(l)

	assert.Equal(t, listing.DecisionPending, res.Decision)
	assert.InDelta(t, 0.83125, res.Score, 0.001)
	assert.InDelta(t, 0.8, res.Scores.Completeness, 0.001)
	assert.InDelta(t, 0.7, res.Scores.Price, 0.001)
}

func TestModerateListing_NoPrice(t *testing.T) {
	l := completeListing()
	l.Price = 0

	res := ModerateListing(l)
	assert.Equal(t, 0.0, res.Scores.Price)
	assert.Contains(t, res.Reasons, "Missing required fields: price")
	assert.Contains(t, res.Reasons, "Invalid price")
}

func TestCheckListingText(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		desc       string
		wantScore  float64
		wantReason string
	}{
		{"forbidden words", "Phòng trọ quận 3 giá tốt", "Cho thuê phòng, không lừa đảo, chủ nhà thân thiện dễ chịu", 0.5, "Contains forbidden words: lừa đảo"},
		{"spam flood", "Phòng trọ quận 3 giá tốt", "Giá sốc, siêu rẻ, cực rẻ, gọi ngay, inbox zalo để xem phòng", 0.7, "Found 6 spam phrases"},
		{"shouting title", "PHÒNG TRỌ GIÁ TỐT", "Phòng rộng rãi, có cửa sổ, gần chợ và trạm xe buýt, yên tĩnh", 0.85, "Too many capital letters in the title"},
		{"phone in title", "Phòng trọ 0909123456", "Phòng rộng rãi, có cửa sổ, gần chợ và trạm xe buýt, yên tĩnh", 0.9, "Phone number in the title"},
		{"repeated characters", "Phòng đẹp lắmmmmm", "Phòng rộng rãi, có cửa sổ, gần chợ và trạm xe buýt, yên tĩnh", 0.85, "Repeated characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, reasons := checkListingText(tt.title, tt.desc)
			assert.InDelta(t, tt.wantScore, score, 0.001)
			assert.Contains(t, reasons, tt.wantReason)
		})
	}
}

func TestCheckListingText_LongDescriptionBonus(t *testing.T) {
	score, _ := checkListingText("Phòng", strings.Repeat("phòng sạch sẽ ", 20))
	// short title costs 0.15, a detailed description earns 0.05 back
	assert.InDelta(t, 0.9, score, 0.001)
}

func TestCheckListingPrice(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		pt    listing.PropertyType
		area  float64
		want  float64
	}{
		{"in range", 3_000_000, listing.PropertyRoom, 20, 1},
		{"too cheap", 300_000, listing.PropertyRoom, 0, 0.7},
		{"cheap per m2", 600_000, listing.PropertyRoom, 40, 0.85},
		{"apartment ceiling", 120_000_000, listing.PropertyApartment, 100, 0.7},
		{"unknown type uses default range", 400_000, listing.PropertyUnknown, 0, 0.7},
		{"zero", 0, listing.PropertyRoom, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _ := checkListingPrice(tt.price, tt.pt, tt.area)
			assert.InDelta(t, tt.want, score, 0.001)
		})
	}
}

func TestModerateListing_Deterministic(t *testing.T) {
	l := completeListing()
	first := ModerateListing(l)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, ModerateListing(l))
	}
}
