package review

import (
	"fmt"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/database"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/listing"
)

const myReviewsLink = "/my-reviews"

func reviewData(r *database.Review, title string) map[string]any {
	return map[string]any{
		"reviewId":     r.ID,
		"listingId":    r.ListingID,
		"listingTitle": title,
		"trustScore":   r.TrustScore,
		"reviewStatus": string(r.Status),
		"autoApproved": r.AutoApproved,
		"autoRejected": r.AutoRejected,
	}
}

// autoDeletedNotice tells the author a rejected review was removed. The
// trust score is named as the cause only when it was below the reject line;
// otherwise the rule that fired is.
func autoDeletedNotice(r *database.Review, title string, lowTrust bool) *database.Notification {
	data := reviewData(r, title)
	data["reason"] = r.Reason
	data["autoDeleted"] = true

	msg := fmt.Sprintf("Đánh giá của bạn cho %q đã bị từ chối tự động. Lý do: %s (Điểm tin cậy: %d/100)",
		title, r.Reason, r.TrustScore)
	if lowTrust {
		msg = fmt.Sprintf("Đánh giá của bạn cho %q đã bị từ chối tự động. Lý do: Điểm tin cậy quá thấp (%d/100). %s",
			title, r.TrustScore, r.Reason)
	}

	return &database.Notification{
		UserID:  r.UserID,
		Type:    database.NotifyReviewRejected,
		Title:   "Đánh giá bị từ chối",
		Message: msg,
		Link:    myReviewsLink,
		Data:    data,
	}
}

func rejectedNotice(r *database.Review, title, reason string, byAdmin bool) *database.Notification {
	data := reviewData(r, title)
	data["reason"] = reason

	msg := fmt.Sprintf("Đánh giá của bạn cho %q đã bị từ chối. Lý do: %s", title, reason)
	if byAdmin {
		msg = fmt.Sprintf("Đánh giá của bạn cho %q đã bị quản trị viên từ chối.", title)
		if reason != "" {
			msg += " Lý do: " + reason
		}
	}

	return &database.Notification{
		UserID:  r.UserID,
		Type:    database.NotifyReviewRejected,
		Title:   "Đánh giá bị từ chối",
		Message: msg,
		Link:    myReviewsLink,
		Data:    data,
	}
}

func pendingNotice(r *database.Review, title string) *database.Notification {
	return &database.Notification{
		UserID:  r.UserID,
		Type:    database.NotifyReviewPending,
		Title:   "Đánh giá đang chờ kiểm duyệt",
		Message: fmt.Sprintf("Đánh giá của bạn cho %q đang được kiểm duyệt bởi quản trị viên.", title),
		Link:    myReviewsLink,
		Data:    reviewData(r, title),
	}
}

func approvedNotice(r *database.Review, title string, byAdmin bool) *database.Notification {
	by := "tự động"
	if byAdmin {
		by = "quản trị viên"
	}
	return &database.Notification{
		UserID:  r.UserID,
		Type:    database.NotifyReviewApproved,
		Title:   "Đánh giá đã được phê duyệt",
		Message: fmt.Sprintf("Đánh giá của bạn cho %q đã được %s phê duyệt và hiển thị công khai.", title, by),
		Link:    "/property/" + r.ListingID,
		Data:    reviewData(r, title),
	}
}

func newReviewNotice(r *database.Review, l *listing.Listing, reviewerName string) *database.Notification {
	msg := fmt.Sprintf("Bài đăng %q của bạn vừa nhận được đánh giá %d sao", l.Title, r.Rating)
	if reviewerName != "" {
		msg += " từ " + reviewerName
	}
	return &database.Notification{
		UserID:  l.LandlordID,
		Type:    database.NotifyReviewNew,
		Title:   "Có đánh giá mới",
		Message: msg,
		Link:    "/properties/" + l.ID + "#reviews",
		Data: map[string]any{
			"reviewId":     r.ID,
			"listingId":    l.ID,
			"listingTitle": l.Title,
			"rating":       r.Rating,
			"reviewerName": reviewerName,
		},
	}
}
