package moderation

const baseTrustScore = 50

// TrustScore computes the 0-100 trust score for a review using the built-in
// keyword list.
func TrustScore(review Review, history History) int {
	text := review.Comment + " " + review.Title
	return trustScore(review, history, CheckBannedKeywords(text), CheckSpamPatterns(text))
}

// trustScore adds the content, rating, provenance and history adjustments to
// the base score, subtracts the keyword and spam penalties once each, and
// clamps the total to [0,100].
func trustScore(review Review, history History, keywords KeywordCheck, spam SpamCheck) int {
	score := baseTrustScore

	stats := CheckContentLength(review.Comment, review.Title).Stats

	// content length
	switch {
	case stats.TotalLength >= 50 && stats.TotalLength <= 500:
		score += 15
	case stats.TotalLength >= 30 && stats.TotalLength <= 1000:
		score += 10
	case stats.TotalLength < 20:
		score -= 20
	}

	// word count
	switch {
	case stats.CommentWords >= 10:
		score += 10
	case stats.CommentWords >= 5:
		score += 5
	case stats.CommentWords < 3:
		score -= 15
	}

	// extreme ratings are less trustworthy than middling ones
	switch {
	case review.Rating >= 3 && review.Rating <= 4:
		score += 10
	case review.Rating == 5:
		score += 5
	case review.Rating == 1:
		score -= 5
	}

	switch review.Type {
	case ReviewRented:
		score += 15
	case ReviewViewing:
		score += 5
	}

	if review.Verified {
		score += 20
	}

	score += historyAdjustment(history)

	if keywords.HasBannedKeywords {
		if keywords.Severity == SeverityHigh {
			score -= 40
		} else {
			score -= 20
		}
	}

	if spam.HasSpamPatterns {
		switch spam.Severity {
		case SeverityHigh:
			score -= 30
		case SeverityMedium:
			score -= 15
		default:
			score -= 5
		}
	}

	return clamp(score, 0, 100)
}

// historyAdjustment scores the author's track record. A first review costs
// 10 points; afterwards the approval rate and review count decide.
func historyAdjustment(h History) int {
	adj := 0

	if h.Total > 0 {
		rate := float64(h.Approved) / float64(h.Total)
		switch {
		case rate >= 0.9:
			adj += 15
		case rate >= 0.7:
			adj += 10
		case rate >= 0.5:
			adj += 5
		case rate < 0.3:
			adj -= 20
		}

		if h.Total < 3 {
			adj -= 5
		} else if h.Total >= 10 {
			adj += 5
		}
	} else {
		adj -= 10
	}

	if h.Rejected > 3 {
		adj -= 25
	}

	return adj
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
