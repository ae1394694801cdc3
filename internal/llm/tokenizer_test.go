package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 3, EstimateTokens("123456789"))
}

func TestTruncateDiff(t *testing.T) {
	short := "+a\n+b\n"
	got, cut := TruncateDiff(short, 100)
	assert.False(t, cut)
	assert.Equal(t, short, got)

	long := strings.Repeat("+0123456789\n", 10) // 120 bytes
	got, cut = TruncateDiff(long, 10)           // 30 chars
	assert.True(t, cut)
	assert.True(t, strings.HasPrefix(got, "+0123456789\n+0123456789\n... [diff truncated: 24 of 120 bytes shown]"))

	oneLine := strings.Repeat("x", 50)
	got, cut = TruncateDiff(oneLine, 5)
	assert.True(t, cut)
	assert.True(t, strings.HasPrefix(got, strings.Repeat("x", 15)+"\n... [diff truncated"))

	got, cut = TruncateDiff(long, 0)
	assert.False(t, cut)
	assert.Equal(t, long, got)
}
