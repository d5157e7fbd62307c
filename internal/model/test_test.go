package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizedQuestionsCarryNoGradingData(t *testing.T) {
	test := &Test{
		Questions: []Question{
			{ID: "q-1", Question: "Q1", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 2, Explanation: "why"},
			{ID: "q-2", Question: "Q2", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 0, Explanation: "why"},
		},
	}

	sanitized := test.SanitizedQuestions()
	require.Len(t, sanitized, 2)

	// Serialize and check the wire form: the sanitized type has no answer
	// fields at all, so they cannot appear regardless of values.
	raw, err := json.Marshal(sanitized)
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "correct_answer")
	assert.NotContains(t, string(raw), "explanation")
	assert.Contains(t, string(raw), `"id":"q-1"`)
}
