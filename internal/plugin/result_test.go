package plugin

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		cause any
		want  string
	}{
		{"error with message", errors.New("bad token"), "bad token"},
		{"load error", &LoadError{Specifier: "x", Message: "boom"}, "boom"},
		{"load error without message", &LoadError{Specifier: "x"}, unknownErrorMessage},
		{"error with empty message", errors.New(""), unknownErrorMessage},
		{"plain string", "stack exhausted", "stack exhausted"},
		{"empty string", "", unknownErrorMessage},
		{"nil", nil, unknownErrorMessage},
		{"integer", 42, unknownErrorMessage},
		{"struct", struct{ X int }{1}, unknownErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.cause))
		})
	}
}

func TestResultAccessors(t *testing.T) {
	ok := Success()
	assert.True(t, ok.OK())
	assert.Empty(t, ok.Message())
	assert.Equal(t, "Success", ok.String())

	bad := Failure("bad token")
	assert.False(t, bad.OK())
	assert.Equal(t, "bad token", bad.Message())
	assert.Equal(t, "Failure(bad token)", bad.String())
}

func TestResultMarshalJSON(t *testing.T) {
	data, err := json.Marshal(Success())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Success"}`, string(data))

	data, err = json.Marshal(Failure("bad token"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Failure","field0":"bad token"}`, string(data))
}

func TestResultMarshalJSON_SuccessHasNoMessageField(t *testing.T) {
	data, err := json.Marshal(Success())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	_, present := raw["field0"]
	assert.False(t, present, "Success must not carry field0")
}

func TestResultUnmarshalJSON(t *testing.T) {
	var r Result
	require.NoError(t, json.Unmarshal([]byte(`{"type":"Success"}`), &r))
	assert.True(t, r.OK())

	require.NoError(t, json.Unmarshal([]byte(`{"type":"Failure","field0":"nope"}`), &r))
	assert.False(t, r.OK())
	assert.Equal(t, "nope", r.Message())

	err := json.Unmarshal([]byte(`{"type":"Maybe"}`), &r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown result type")
}

func TestResultRoundTrip(t *testing.T) {
	for _, r := range []Result{Success(), Failure("An unknown error occurred")} {
		data, err := json.Marshal(r)
		require.NoError(t, err)

		var back Result
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, r, back)
	}
}
