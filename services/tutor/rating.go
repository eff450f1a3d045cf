package tutor

import (
	"fmt"
	"strings"
)

// UnparseableRatingError reports a model reply that contained no rating
// token. It is never silently defaulted; the exchange fails instead.
type UnparseableRatingError struct {
	Reply string
}

func (e *UnparseableRatingError) Error() string {
	return fmt.Sprintf("model reply did not contain a rating: %q", e.Reply)
}

var ratingTokens = []struct {
	value int
	digit string
	word  string
}{
	{5, "5", "five"},
	{4, "4", "four"},
	{3, "3", "three"},
	{2, "2", "two"},
	{1, "1", "one"},
}

// ExtractRating scans the reply for a rating token, digit or English word,
// in descending order: a reply containing both "4" and "5" resolves to 5.
func ExtractRating(reply string) (int, error) {
	lower := strings.ToLower(reply)
	for _, token := range ratingTokens {
		if strings.Contains(lower, token.digit) || strings.Contains(lower, token.word) {
			return token.value, nil
		}
	}
	return 0, &UnparseableRatingError{Reply: reply}
}
