package prediction_test

import (
	"errors"
	"testing"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/prediction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"whitespace runs", "  {\n\t\"a\":   1 }\r\n", `{ "a": 1 }`},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, prediction.Normalize(tt.raw))
		})
	}
}

func TestParseResponse_FencedAndIrregularWhitespace(t *testing.T) {
	clean := `{"likelihood":"Moderate","confidenceScore":72,"explanation":"Some risk."}`
	messy := "```json\n{\n  \"likelihood\":   \"Moderate\",\n\t\"confidenceScore\": 72,\n  \"explanation\": \"Some risk.\"\n}\n```"

	want, err := prediction.ParseResponse(clean)
	require.NoError(t, err)
	got, err := prediction.ParseResponse(messy)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseResponse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"prose", "The likelihood of a cyclone is high."},
		{"empty", ""},
		{"truncated", `{"likelihood":"High"`},
		{"trailing data", `{"likelihood":"High","confidenceScore":80,"explanation":"x"} extra`},
		{"two objects", `{"a":1} {"b":2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := prediction.ParseResponse(tt.raw)
			var merr *domain.MalformedResponseError
			require.True(t, errors.As(err, &merr), "got %v", err)
			assert.Equal(t, tt.raw, merr.Raw)
		})
	}
}

func TestParseResponse_Schema(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{"not an object", `[1,2,3]`, "response"},
		{"string value", `"High"`, "response"},
		{"missing likelihood", `{"confidenceScore":80,"explanation":"x"}`, "likelihood"},
		{"null likelihood", `{"likelihood":null,"confidenceScore":80,"explanation":"x"}`, "likelihood"},
		{"severe", `{"likelihood":"Severe","confidenceScore":80,"explanation":"x"}`, "likelihood"},
		{"lowercase", `{"likelihood":"high","confidenceScore":80,"explanation":"x"}`, "likelihood"},
		{"score 59", `{"likelihood":"Low","confidenceScore":59,"explanation":"x"}`, "confidenceScore"},
		{"score 101", `{"likelihood":"Low","confidenceScore":101,"explanation":"x"}`, "confidenceScore"},
		{"score string", `{"likelihood":"Low","confidenceScore":"80","explanation":"x"}`, "confidenceScore"},
		{"score fractional", `{"likelihood":"Low","confidenceScore":80.5,"explanation":"x"}`, "confidenceScore"},
		{"missing score", `{"likelihood":"Low","explanation":"x"}`, "confidenceScore"},
		{"missing explanation", `{"likelihood":"Low","confidenceScore":80}`, "explanation"},
		{"blank explanation", `{"likelihood":"Low","confidenceScore":80,"explanation":"  "}`, "explanation"},
		{"numeric explanation", `{"likelihood":"Low","confidenceScore":80,"explanation":5}`, "explanation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := prediction.ParseResponse(tt.raw)
			var serr *domain.InvalidResponseSchemaError
			require.True(t, errors.As(err, &serr), "got %v", err)
			assert.Equal(t, tt.field, serr.Field)
		})
	}
}

func TestParseResponse_Bounds(t *testing.T) {
	for _, raw := range []string{
		`{"likelihood":"Low","confidenceScore":60,"explanation":"x"}`,
		`{"likelihood":"High","confidenceScore":100,"explanation":"x"}`,
		`{"likelihood":"High","confidenceScore":100.0,"explanation":"x"}`,
	} {
		_, err := prediction.ParseResponse(raw)
		assert.NoError(t, err, raw)
	}
}

func TestParseResponse_ScoreReasons(t *testing.T) {
	tests := []struct {
		name   string
		score  string
		reason string
	}{
		{"overflow", "1e400", "must be between 60 and 100"},
		{"negative overflow", "-1e400", "must be between 60 and 100"},
		{"too large", "1000", "must be between 60 and 100"},
		{"fractional", "75.5", "must be an integer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := prediction.ParseResponse(`{"likelihood":"Low","confidenceScore":` + tt.score + `,"explanation":"x"}`)
			var serr *domain.InvalidResponseSchemaError
			require.True(t, errors.As(err, &serr), "got %v", err)
			assert.Equal(t, "confidenceScore", serr.Field)
			assert.Equal(t, tt.reason, serr.Reason)
		})
	}
}

func TestParseResponse_IgnoresExtraFields(t *testing.T) {
	got, err := prediction.ParseResponse(`{"likelihood":"Low","confidenceScore":61,"explanation":"Calm.","source":"model"}`)
	require.NoError(t, err)
	assert.Equal(t, domain.PredictionResult{Likelihood: domain.LikelihoodLow, ConfidenceScore: 61, Explanation: "Calm."}, got)
}
