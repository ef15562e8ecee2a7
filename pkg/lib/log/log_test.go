package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"debug", "DEBUG", false},
		{"INFO", "INFO", false},
		{"", "INFO", false},
		{"warning", "WARN", false},
		{"error", "ERROR", false},
		{"verbose", "INFO", true},
	}

	for _, tt := range tests {
		lvl, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, lvl.String())
	}
}

func TestLazyLogger_FollowsDefault(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	var buf bytes.Buffer
	logger := Logger("core/test")

	Setup(&buf, LevelDebug, FormatJSON)
	logger.Debug("可见", "tag", "t1")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "core/test", rec["component"])
	assert.Equal(t, "t1", rec["tag"])

	buf.Reset()
	Setup(&buf, LevelWarn, FormatText)
	logger.Info("不可见")
	assert.Empty(t, buf.String())
}

func TestTruncateTag(t *testing.T) {
	assert.Equal(t, "abc", TruncateTag("abc", 8))
	assert.Equal(t, "abcdefgh", TruncateTag("abcdefghijk", 8))
}
