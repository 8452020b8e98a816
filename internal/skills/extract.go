package skills

import (
	"math"
	"strings"
)

// Extract partitions vocab into the terms present in text and the terms
// absent from it. Membership is case-insensitive substring containment, not
// word-boundary matching: "r" matches inside "car". That is a fixed policy
// choice kept for score compatibility; both slices preserve vocabulary order.
func Extract(text string, vocab []string) (matched, missing []string) {
	lower := strings.ToLower(text)

	matched = make([]string, 0, len(vocab))
	missing = make([]string, 0)
	for _, term := range vocab {
		if strings.Contains(lower, term) {
			matched = append(matched, term)
		} else {
			missing = append(missing, term)
		}
	}

	return matched, missing
}

// SelectRelevant returns the subset of vocab present in the job description,
// order preserved. A skill absent from the job description is never counted
// for or against a resume.
func SelectRelevant(jobDescription string, vocab []string) []string {
	relevant, _ := Extract(jobDescription, vocab)
	return relevant
}

// Score computes keyword coverage of a resume against the job-relevant skill
// set: |matched| / |jdSkills| rounded to 2 decimal places, 0 by policy when
// jdSkills is empty.
func Score(resumeText string, jdSkills []string) (score float64, matched, missing []string) {
	matched, missing = Extract(resumeText, jdSkills)

	if len(jdSkills) == 0 {
		return 0, matched, missing
	}

	score = math.Round(float64(len(matched))/float64(len(jdSkills))*100) / 100
	return score, matched, missing
}
