package services

import (
	"fmt"
	"strconv"
	"strings"
)

// Literal markers expected in scoring output. The prompts demand this
// exact format; any deviation fails the job rather than being repaired.
const (
	markerMatchRate = "Match Rate:"
	markerScore     = "Score:"
	markerFeedback  = "Feedback:"
)

// ParseCVEvaluation extracts the match rate and feedback from CV scoring
// output of the form "...Match Rate: <value>...Feedback: <text>".
func ParseCVEvaluation(output string) (float64, string, error) {
	return parseLabeledOutput(output, markerMatchRate)
}

// ParseProjectEvaluation extracts the score and feedback from project
// scoring output of the form "...Score: <value>...Feedback: <text>".
func ParseProjectEvaluation(output string) (float64, string, error) {
	return parseLabeledOutput(output, markerScore)
}

// parseLabeledOutput takes the substring between valueMarker and the
// next Feedback: marker as the numeric value, and everything after the
// Feedback: marker as the feedback, both trimmed.
func parseLabeledOutput(output, valueMarker string) (float64, string, error) {
	_, afterValue, found := strings.Cut(output, valueMarker)
	if !found {
		return 0, "", fmt.Errorf("marker %q not found in output", valueMarker)
	}

	valueStr, feedback, found := strings.Cut(afterValue, markerFeedback)
	if !found {
		return 0, "", fmt.Errorf("marker %q not found in output", markerFeedback)
	}

	valueStr = strings.TrimSpace(valueStr)
	if valueStr == "" {
		return 0, "", fmt.Errorf("no value between %q and %q", valueMarker, markerFeedback)
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid value %q after %q: %w", valueStr, valueMarker, err)
	}

	return value, strings.TrimSpace(feedback), nil
}
