// internal/review/scorer.go
package review

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf16"

	"studio-site/internal/models"
)

const (
	startScore = 10.0
	minScore   = 1.0
	maxScore   = 10.0

	shortAnswerLength   = 50
	detailedTotalLength = 1000

	emptyAnswerPenalty   = 3.0
	shortAnswerPenalty   = 2.0
	noLinksPenalty       = 1.5
	moderateAvailPenalty = 0.5
	lowAvailPenalty      = 1.0
	missingFieldPenalty  = 0.5
)

const (
	HighlightNoLinks          = "no links provided in prior experience"
	HighlightAdditionalInfo   = "provided additional details"
	HighlightMissingAnswers   = "missing answers"
	HighlightVeryShort        = "very short answers"
	HighlightPartiallyShort   = "partially short answers"
	HighlightDetailed         = "detailed answers"
	HighlightGoodAvailability = "good availability"
	HighlightModerateAvail    = "moderate availability"
	HighlightLowAvailability  = "low availability"
	HighlightAllComplete      = "all fields completed"

	missingFieldsPrefix = "missing fields: "
)

// Any one match counts as a shared link. Changing these changes scores.
var linkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)https?://`),
	regexp.MustCompile(`(?i)discord\.gg/[\w-]+`),
	regexp.MustCompile(`(?i)discord\.com/[\w-]+`),
	regexp.MustCompile(`(?i)discord\.gg`),
	regexp.MustCompile(`(?i)roblox\.com/[\w-]+`),
	regexp.MustCompile(`(?i)roblox\.com/games/\d+`),
	regexp.MustCompile(`(?i)roblox\.com`),
	regexp.MustCompile(`(?i)www\.\w+\.\w+`),
	regexp.MustCompile(`(?i)\w+\.(com|gg|net|org|io)/?`),
}

var hoursPerDay = map[string]float64{
	models.WeeklyHoursUnderOne:  0.75,
	models.WeeklyHoursOneToTwo:  1.5,
	models.WeeklyHoursThreeFour: 3.5,
	models.WeeklyHoursFivePlus:  5,
}

// Score rates a staff application from 1 to 10 and explains the rating.
// It is pure and deterministic.
func Score(app *models.StaffApplicationForm) models.AIReview {
	score := startScore
	var highlights []string

	var emptyCount, shortCount, totalLength int
	for _, answer := range []string{app.Experience, app.Motivation, app.Scenario} {
		n := textLength(answer)
		switch {
		case n == 0:
			emptyCount++
			score -= emptyAnswerPenalty
		case n < shortAnswerLength:
			shortCount++
			score -= shortAnswerPenalty
		}
		totalLength += n
	}

	experience := strings.TrimSpace(app.Experience)
	if experience != "" && !containsLink(experience) {
		highlights = append(highlights, HighlightNoLinks)
		score -= noLinksPenalty
	}

	if textLength(app.AdditionalInfo) > 0 {
		highlights = append(highlights, HighlightAdditionalInfo)
	}

	switch {
	case emptyCount > 0:
		highlights = append(highlights, HighlightMissingAnswers)
	case shortCount == 3:
		highlights = append(highlights, HighlightVeryShort)
	case shortCount > 0:
		highlights = append(highlights, HighlightPartiallyShort)
	case totalLength > detailedTotalLength:
		highlights = append(highlights, HighlightDetailed)
	}

	if app.WeeklyHours != "" {
		hours := hoursPerDay[app.WeeklyHours]
		switch {
		case hours >= 2:
			highlights = append(highlights, HighlightGoodAvailability)
		case hours >= 1:
			highlights = append(highlights, HighlightModerateAvail)
			score -= moderateAvailPenalty
		default:
			highlights = append(highlights, HighlightLowAvailability)
			score -= lowAvailPenalty
		}
	}

	if missing := missingIdentityFields(app); len(missing) > 0 {
		score -= float64(len(missing)) * missingFieldPenalty
		highlights = append(highlights, missingFieldsPrefix+strings.Join(missing, ", "))
	}

	if len(highlights) == 0 {
		highlights = []string{HighlightAllComplete}
	}

	return models.AIReview{
		Score:      clamp(roundOneDecimal(score), minScore, maxScore),
		Highlights: highlights,
	}
}

// textLength counts UTF-16 code units after trimming surrounding whitespace,
// so a character outside the BMP counts as two.
func textLength(s string) int {
	n := 0
	for _, r := range strings.TrimSpace(s) {
		n += utf16.RuneLen(r)
	}
	return n
}

func containsLink(text string) bool {
	for _, re := range linkPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func missingIdentityFields(app *models.StaffApplicationForm) []string {
	fields := []struct {
		label string
		value string
	}{
		{"full name", app.FullName},
		{"discord username", app.DiscordUsername},
		{"roblox username", app.RobloxUsername},
		{"position", app.Position},
		{"timezone", app.Timezone},
	}

	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.label)
		}
	}
	return missing
}

// roundOneDecimal rounds half up, so 4.25 becomes 4.3 and -2.25 becomes -2.2.
func roundOneDecimal(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
