// Package matching scores how well a mentor fits the goals a mentee typed in.
//
// The score is a transparent heuristic shown to users: three weighted
// components (expertise, availability, preferred topics) computed by plain
// case-insensitive substring containment, summed and rounded once.
package matching

import (
	"alumnihub/backend/internal/config"
	"alumnihub/backend/internal/models"
	"math"
	"sort"
	"strings"
)

// Breakdown is the per-component view of a score.
type Breakdown struct {
	Expertise        float64  `json:"expertise"`
	Availability     float64  `json:"availability"`
	Topics           float64  `json:"topics"`
	Total            int      `json:"total"`
	MatchedExpertise []string `json:"matchedExpertise"`
	MatchedTopics    []string `json:"matchedTopics"`
}

// Match pairs a mentor with its score for a given goals text.
type Match struct {
	Mentor    models.User `json:"mentor"`
	Score     int         `json:"matchScore"`
	Breakdown Breakdown   `json:"breakdown"`
}

// Score returns the 0..100 match score of mentor for goals.
func Score(mentor *models.User, goals string) int {
	return Explain(mentor, goals).Total
}

// Explain computes the score and keeps every component and matched phrase.
func Explain(mentor *models.User, goals string) Breakdown {
	text := strings.ToLower(goals)

	matchedExp := matchPhrases(mentor.Expertise, text)
	matchedTopics := matchPhrases(mentor.MentorshipPreferences.Topics, text)

	var b Breakdown
	b.MatchedExpertise = matchedExp
	b.MatchedTopics = matchedTopics

	if n := len(mentor.Expertise); n > 0 {
		b.Expertise = config.ExpertiseWeight * float64(len(matchedExp)) / float64(n)
	}

	switch {
	case mentor.IsMentorAvailable && mentor.HasFreeSlot():
		b.Availability = config.AvailabilityWeight
	case mentor.IsMentorAvailable:
		b.Availability = config.FullMentorAvailabilityScore
	}

	topics := max(len(mentor.MentorshipPreferences.Topics), 1)
	b.Topics = config.TopicWeight * float64(len(matchedTopics)) / float64(topics)

	b.Total = int(math.Round(b.Expertise + b.Availability + b.Topics))
	return b
}

// Rank scores every mentor and orders them best first. Equal scores are
// ordered by name and then id so the result is stable across calls.
func Rank(mentors []models.User, goals string) []Match {
	out := make([]Match, 0, len(mentors))
	for i := range mentors {
		b := Explain(&mentors[i], goals)
		out = append(out, Match{Mentor: mentors[i], Score: b.Total, Breakdown: b})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Mentor.Name != out[j].Mentor.Name {
			return out[i].Mentor.Name < out[j].Mentor.Name
		}
		return out[i].Mentor.ID < out[j].Mentor.ID
	})
	return out
}

// matchPhrases returns the phrases contained in text. text must already be lowercase.
// A blank phrase never matches, otherwise it would be contained in every text.
func matchPhrases(phrases []string, text string) []string {
	matched := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(p)) {
			matched = append(matched, p)
		}
	}
	return matched
}
