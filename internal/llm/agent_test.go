package llm

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/code-inspector/internal/core"
	"github.com/sevigo/code-inspector/mocks"
)

func newTestAgent(t *testing.T, gen Generator) *Agent {
	t.Helper()
	pm, err := NewPromptManager()
	require.NoError(t, err)
	return NewAgent(gen, pm, DefaultProvider, discardLogger())
}

func TestPromptsAreDeterministic(t *testing.T) {
	agent := newTestAgent(t, NewFallbackGenerator())
	commits := []core.CommitSummary{
		{Hash: "0123456789abcdef", Author: "Ada", Message: "feat: add widget\n\nlong body", When: time.Unix(0, 0)},
	}

	first, err := agent.PRDescriptionPrompt(commits, "diff --git a/w.go b/w.go")
	require.NoError(t, err)
	second, err := agent.PRDescriptionPrompt(commits, "diff --git a/w.go b/w.go")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Contains(t, first, "- 0123456 feat: add widget (Ada)")
	assert.NotContains(t, first, "long body")
	for _, section := range []string{"## Summary", "## Changes", "## Files", "## Testing", "## Breaking Changes"} {
		assert.Contains(t, first, section)
	}
}

func TestCommitPrompt(t *testing.T) {
	agent := newTestAgent(t, NewFallbackGenerator())

	prompt, err := agent.CommitPrompt("+func main() {}")
	require.NoError(t, err)

	assert.Contains(t, prompt, "<type>(<scope>): <description>")
	assert.Contains(t, prompt, "under 72 characters")
	assert.Contains(t, prompt, "feat, fix, docs, style, refactor, test, chore")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(prompt), "+func main() {}"))
}

func TestPRDescriptionPrompt_NoCommits(t *testing.T) {
	agent := newTestAgent(t, NewFallbackGenerator())

	prompt, err := agent.PRDescriptionPrompt(nil, "")
	require.NoError(t, err)
	assert.Contains(t, prompt, "(no commits)")
}

func TestQualityVerdict(t *testing.T) {
	tests := []struct {
		name         string
		output       string
		wantDecision core.Decision
		wantReason   string
		wantParseErr bool
	}{
		{
			name:         "approve",
			output:       "DECISION: APPROVE\nREASON: All checks passed.",
			wantDecision: core.DecisionApprove,
			wantReason:   "All checks passed.",
		},
		{
			name:         "reject",
			output:       "DECISION: REJECT\nREASON: The PR is too large.",
			wantDecision: core.DecisionReject,
			wantReason:   "The PR is too large.",
		},
		{
			name:         "chatty output rejected by default",
			output:       "I think this is fine.\nDECISION: APPROVE\nREASON: ok",
			wantDecision: core.DecisionReject,
			wantReason:   GenericRejectReason,
			wantParseErr: true,
		},
		{
			name:         "backend failure rejected by default",
			output:       ErrorMarker + "deadline exceeded",
			wantDecision: core.DecisionReject,
			wantReason:   GenericRejectReason,
			wantParseErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			gen := mocks.NewMockGenerator(ctrl)
			gen.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, prompt string) string {
					assert.Contains(t, prompt, "pr_size: passed")
					assert.Contains(t, prompt, "DECISION: [APPROVE/REJECT]")
					return tt.output
				},
			)
			gen.EXPECT().Live().Return(true).AnyTimes()

			agent := newTestAgent(t, gen)
			v, err := agent.QualityVerdict(context.Background(), "checks:\n  pr_size: passed\n")
			require.NoError(t, err)

			assert.Equal(t, tt.wantDecision, v.Decision)
			assert.Equal(t, tt.wantReason, v.Reason)
			assert.Equal(t, tt.output, v.Raw)
			if tt.wantParseErr {
				assert.ErrorIs(t, v.ParseErr, ErrVerdictParse)
			} else {
				assert.NoError(t, v.ParseErr)
			}
		})
	}
}

func TestFallbackAgent(t *testing.T) {
	agent := newTestAgent(t, NewFallbackGenerator())
	ctx := context.Background()

	msg, err := agent.CommitMessage(ctx, "+a")
	require.NoError(t, err)
	assert.Equal(t, FallbackText, msg)

	desc, err := agent.PRDescription(ctx, nil, "+a")
	require.NoError(t, err)
	assert.Equal(t, FallbackText, desc)

	v, err := agent.QualityVerdict(ctx, "report")
	require.NoError(t, err)
	assert.Equal(t, core.DecisionReject, v.Decision)
	assert.ErrorIs(t, v.ParseErr, ErrVerdictParse)
	assert.False(t, agent.Live())
}
