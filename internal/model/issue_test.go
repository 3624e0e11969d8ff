package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLine_MarshalJSON(t *testing.T) {
	t.Run("zero value marshals as integer 0", func(t *testing.T) {
		data, err := json.Marshal(Line{})
		require.NoError(t, err)
		assert.Equal(t, "0", string(data))
	})

	t.Run("text marshals as string", func(t *testing.T) {
		data, err := json.Marshal(Line{Text: "42"})
		require.NoError(t, err)
		assert.Equal(t, `"42"`, string(data))
	})
}

func TestLine_UnmarshalJSON(t *testing.T) {
	var l Line

	require.NoError(t, json.Unmarshal([]byte(`"17"`), &l))
	assert.Equal(t, "17", l.Text)

	require.NoError(t, json.Unmarshal([]byte(`0`), &l))
	assert.Empty(t, l.Text)
	assert.Equal(t, 0, l.Number)
}

func TestIssue_JSONShape(t *testing.T) {
	t.Run("module-level finding has no column key", func(t *testing.T) {
		issue := Issue{
			Path: "/src/go.mod",
			Rule: RuleGoVulnerability,
			Msg:  "GO-2023-0001\nsome details",
		}

		data, err := json.Marshal(issue)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))

		assert.Equal(t, "/src/go.mod", decoded["path"])
		assert.Equal(t, "GO-Vulnerability", decoded["rule"])
		assert.Equal(t, float64(0), decoded["line"])
		assert.NotContains(t, decoded, "column")
	})

	t.Run("trace finding keeps line and column as strings", func(t *testing.T) {
		issue := Issue{
			Path:   "/src/pkg/file.go",
			Rule:   RuleGoVulnerability,
			Msg:    "tainted call",
			Line:   Line{Text: "42"},
			Column: "7",
		}

		data, err := json.Marshal(issue)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))

		assert.Equal(t, "42", decoded["line"])
		assert.Equal(t, "7", decoded["column"])
	})
}

func TestScanStatus_String(t *testing.T) {
	assert.Equal(t, "ok", ScanOK.String())
	assert.Equal(t, "timeout", ScanTimeout.String())
	assert.Equal(t, "decode-error", ScanDecodeError.String())
	assert.Equal(t, "failed", ScanFailed.String())
}
