package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusJSON(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   string
	}{
		{"http code", HTTPStatus(200), `200`},
		{"server error", HTTPStatus(503), `503`},
		{"network error", NetworkErrorStatus(), `"NETWORK_ERROR"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.status)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))

			var back Status
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.status, back)
		})
	}
}

func TestStatusUnmarshalRejectsObjects(t *testing.T) {
	var s Status
	assert.Error(t, json.Unmarshal([]byte(`{"code":1}`), &s))
}

func TestApiOutcomeOmitsUnusedSide(t *testing.T) {
	failed, err := json.Marshal(ApiOutcome{
		Success: false,
		Status:  NetworkErrorStatus(),
		Error:   "timeout of 30000ms exceeded",
		Query:   "q",
	})
	require.NoError(t, err)
	assert.NotContains(t, string(failed), `"data"`)
	assert.Contains(t, string(failed), `"status":"NETWORK_ERROR"`)

	ok, err := json.Marshal(ApiOutcome{Success: true, Status: HTTPStatus(200), Data: map[string]any{"a": 1}, Query: "q"})
	require.NoError(t, err)
	assert.NotContains(t, string(ok), `"error"`)
}

func TestBatchResultCounts(t *testing.T) {
	b := &BatchResult{}
	assert.Equal(t, 0, b.Total())
	assert.Zero(t, b.SuccessRate())

	for i, success := range []bool{true, false, true, true} {
		b.Records = append(b.Records, ResultRecord{
			RowNumber:   i + 2,
			ApiResponse: ApiOutcome{Success: success},
		})
	}

	assert.Equal(t, 4, b.Total())
	assert.Equal(t, 3, b.Successful())
	assert.Equal(t, 1, b.Failed())
	assert.Equal(t, b.Total(), b.Successful()+b.Failed())
	assert.InDelta(t, 75.0, b.SuccessRate(), 0.001)
}
