package batchtypes

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeCounts(t *testing.T) {
	outcome := &Outcome{
		Results: []Result{
			{Key: "a", Success: true},
			{Key: "b", Success: false, Err: errors.New("failed b")},
			{Key: "c", Success: true},
			{Key: "d", Success: false, Err: errors.New("failed d")},
		},
	}

	assert.Equal(t, 2, outcome.Succeeded())
	assert.Equal(t, 2, outcome.Failed())

	failures := outcome.Failures()
	require.Len(t, failures, 2)
	assert.Equal(t, "b", failures[0].Key)
	assert.Equal(t, "d", failures[1].Key)

	assert.EqualError(t, outcome.FirstErr(), "failed b")
}

func TestOutcomeAllSucceeded(t *testing.T) {
	outcome := &Outcome{
		Results: []Result{{Key: "a", Success: true}},
	}

	assert.Equal(t, 1, outcome.Succeeded())
	assert.Zero(t, outcome.Failed())
	assert.Empty(t, outcome.Failures())
	assert.NoError(t, outcome.FirstErr())
}

func TestOutcomeEmpty(t *testing.T) {
	outcome := &Outcome{}

	assert.Zero(t, outcome.Succeeded())
	assert.Zero(t, outcome.Failed())
	assert.NoError(t, outcome.FirstErr())
}

func TestResultFailureDetail(t *testing.T) {
	ok := Result{Key: "a", Success: true}
	assert.Empty(t, ok.FailureDetail())

	failed := Result{Key: "b", Err: errors.New("no such key")}
	assert.Equal(t, "no such key", failed.FailureDetail())
}

func TestResultMarshalJSON(t *testing.T) {
	failed := Result{
		Container: "test-bucket",
		Key:       "b",
		LocalPath: "/data/b",
		Success:   false,
		Err:       errors.New("no such key"),
	}

	data, err := json.Marshal(failed)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "test-bucket", decoded["container"])
	assert.Equal(t, "b", decoded["key"])
	assert.Equal(t, false, decoded["success"])
	assert.Equal(t, "no such key", decoded["failure_detail"])

	ok := Result{Key: "a", Success: true}
	data, err = json.Marshal(ok)
	require.NoError(t, err)

	decoded = nil
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, true, decoded["success"])
	_, present := decoded["failure_detail"]
	assert.False(t, present)
}
