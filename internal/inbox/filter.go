// internal/inbox/filter.go
package inbox

import (
	"strings"

	"studio-site/internal/models"
)

// ReadFilter selects which read states stay visible.
type ReadFilter string

const (
	ReadFilterAll    ReadFilter = "all"
	ReadFilterUnread ReadFilter = "unread"
)

// Query is the admin's current tab, read filter and search text.
type Query struct {
	Tab        models.SubmissionType
	ReadFilter ReadFilter
	Search     string
}

// Stats describes the visible set and the tab badges.
type Stats struct {
	SupportCount int `json:"supportCount"`
	StaffCount   int `json:"staffCount"`
	Total        int `json:"total"`
	Unread       int `json:"unread"`
	Read         int `json:"read"`
}

// Filter returns the submissions visible for q, keeping the input order.
func Filter(subs []models.Submission, q Query) []models.Submission {
	needle := strings.ToLower(q.Search)

	out := make([]models.Submission, 0, len(subs))
	for _, s := range subs {
		if s.Type != q.Tab {
			continue
		}
		if q.ReadFilter == ReadFilterUnread && s.Read {
			continue
		}
		if needle != "" && !matches(&s, needle) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Summarize counts tabs over all submissions and read states over filtered.
func Summarize(all, filtered []models.Submission) Stats {
	var st Stats
	for _, s := range all {
		switch s.Type {
		case models.TypeSupport:
			st.SupportCount++
		case models.TypeStaffApplication:
			st.StaffCount++
		}
	}

	st.Total = len(filtered)
	for _, s := range filtered {
		if s.Read {
			st.Read++
		} else {
			st.Unread++
		}
	}
	return st
}

func matches(s *models.Submission, needle string) bool {
	var fields []string
	switch data := s.Data.(type) {
	case *models.ContactForm:
		fields = []string{data.Name, data.Message, data.ContactMethod}
	case *models.StaffApplicationForm:
		fields = []string{data.FullName, data.DiscordUsername, data.RobloxUsername, data.Position}
	}

	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
