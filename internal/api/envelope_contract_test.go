package api

import (
	"encoding/json"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureDir returns testdata/envelope at the repository root. Client test
// suites parse the same files.
func fixtureDir(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get caller info")

	root := filepath.Dir(filepath.Dir(filepath.Dir(filename)))
	return filepath.Join(root, "testdata", "envelope")
}

func readFixture(t *testing.T, name string) map[string]any {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(fixtureDir(t), name))
	require.NoError(t, err, "contract tests require the shared fixtures")

	var fixture map[string]any
	require.NoError(t, json.Unmarshal(raw, &fixture))
	return fixture
}

func toJSONMap(t *testing.T, v any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}

// TestEnvelopeContract checks that the transformer emits exactly the fields
// of each shared fixture.
func TestEnvelopeContract(t *testing.T) {
	tests := []struct {
		fixture string
		status  string
		body    any
	}{
		{
			fixture: "success.json",
			status:  "200",
			body: map[string]any{
				"id":     "43",
				"name":   "Ember Drift",
				"colors": []string{"#3B1F1A", "#7A2E1F", "#C2562B", "#E89A4F", "#F6D7A7"},
			},
		},
		{
			fixture: "success_null_data.json",
			status:  "204",
			body:    nil,
		},
		{
			fixture: "error_simple.json",
			status:  "404",
			body:    &APIError{status: 404, Message: "palette not found"},
		},
		{
			fixture: "error_detailed.json",
			status:  "429",
			body: &APIError{
				status:  429,
				Code:    "RATE_LIMITED",
				Message: "rate limit exceeded",
				Details: map[string]any{"retry_after_seconds": 30},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			expected := readFixture(t, tt.fixture)

			result, err := EnvelopeTransformer(nil, tt.status, tt.body)
			require.NoError(t, err)
			got := toJSONMap(t, result)

			assert.Equal(t, sortedKeys(expected), sortedKeys(got))
			assert.Equal(t, expected, got)
		})
	}
}

// TestEnvelopeContract_LiveResponses checks real handler output against the
// fixture shapes.
func TestEnvelopeContract_LiveResponses(t *testing.T) {
	ts := setupTestServer(t)

	success := toJSONMap(t, json.RawMessage(ts.api.Get("/api/v1/catalog/palettes/42").Body.Bytes()))
	assert.Equal(t, sortedKeys(readFixture(t, "success.json")), sortedKeys(success))

	// Not-found errors carry a code; details are omitted when empty.
	notFound := toJSONMap(t, json.RawMessage(ts.api.Get("/api/v1/catalog/palettes/50000").Body.Bytes()))
	detailed := readFixture(t, "error_detailed.json")
	delete(detailed, "details")
	assert.Equal(t, sortedKeys(detailed), sortedKeys(notFound))
}

// TestEnvelopeContract_VersionFieldName guards the field name: clients look
// for "v" and break silently on anything else.
func TestEnvelopeContract_VersionFieldName(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "200", nil)
	require.NoError(t, err)

	got := toJSONMap(t, result)
	assert.Contains(t, got, "v")
	assert.NotContains(t, got, "version")
	assert.NotContains(t, got, "Version")
}
