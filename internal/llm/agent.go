package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sevigo/code-inspector/internal/core"
)

// MaxSubjectLength bounds the first line of a generated commit message.
const MaxSubjectLength = 72

var commitTypes = []string{"feat", "fix", "docs", "style", "refactor", "test", "chore"}

// Agent renders the task prompts and hands them to a Generator. It keeps no
// state between calls.
type Agent struct {
	gen      Generator
	prompts  *PromptManager
	provider ModelProvider
	logger   *slog.Logger
}

func NewAgent(gen Generator, prompts *PromptManager, provider ModelProvider, logger *slog.Logger) *Agent {
	if provider == "" {
		provider = DefaultProvider
	}
	return &Agent{gen: gen, prompts: prompts, provider: provider, logger: logger}
}

// Live reports whether a real backend is behind the agent.
func (a *Agent) Live() bool { return a.gen.Live() }

// CommitPrompt renders the commit-message instructions for diff.
func (a *Agent) CommitPrompt(diff string) (string, error) {
	diff = a.fitDiff(diff)
	return a.prompts.Render(CommitMessagePrompt, a.provider, struct {
		Diff             string
		Types            []string
		MaxSubjectLength int
	}{Diff: diff, Types: commitTypes, MaxSubjectLength: MaxSubjectLength})
}

// PRDescriptionPrompt renders the pull request description instructions.
func (a *Agent) PRDescriptionPrompt(commits []core.CommitSummary, diff string) (string, error) {
	diff = a.fitDiff(diff)
	return a.prompts.Render(PRDescriptionPrompt, a.provider, struct {
		Commits []core.CommitSummary
		Diff    string
	}{Commits: commits, Diff: diff})
}

func (a *Agent) fitDiff(diff string) string {
	fitted, cut := TruncateDiff(diff, maxDiffTokens)
	if cut {
		a.logger.Warn("diff too large for the prompt, truncated", "estimated_tokens", EstimateTokens(diff), "limit", maxDiffTokens)
	}
	return fitted
}

// QualityVerdictPrompt renders the approve/reject instructions for report.
func (a *Agent) QualityVerdictPrompt(report string) (string, error) {
	return a.prompts.Render(QualityVerdictPrompt, a.provider, struct {
		Report string
	}{Report: report})
}

// CommitMessage generates a conventional commit message for diff.
func (a *Agent) CommitMessage(ctx context.Context, diff string) (string, error) {
	prompt, err := a.CommitPrompt(diff)
	if err != nil {
		return "", fmt.Errorf("failed to build commit prompt: %w", err)
	}
	return a.generate(ctx, CommitMessagePrompt, prompt), nil
}

// PRDescription generates a Markdown pull request description.
func (a *Agent) PRDescription(ctx context.Context, commits []core.CommitSummary, diff string) (string, error) {
	prompt, err := a.PRDescriptionPrompt(commits, diff)
	if err != nil {
		return "", fmt.Errorf("failed to build PR description prompt: %w", err)
	}
	return a.generate(ctx, PRDescriptionPrompt, prompt), nil
}

// Verdict is the parsed answer to the quality prompt plus the raw text it was
// parsed from. ParseErr is set when the text did not follow the grammar.
type Verdict struct {
	core.Verdict
	Raw      string
	ParseErr error
}

// QualityVerdict asks the backend to approve or reject a quality report.
func (a *Agent) QualityVerdict(ctx context.Context, report string) (Verdict, error) {
	prompt, err := a.QualityVerdictPrompt(report)
	if err != nil {
		return Verdict{}, fmt.Errorf("failed to build quality prompt: %w", err)
	}

	raw := a.generate(ctx, QualityVerdictPrompt, prompt)
	v, parseErr := ParseVerdict(raw)
	if parseErr != nil {
		a.logger.Warn("quality verdict rejected by default", "error", parseErr, "generation_failed", IsGenerationError(raw))
	}
	return Verdict{Verdict: v, Raw: raw, ParseErr: parseErr}, nil
}

func (a *Agent) generate(ctx context.Context, key PromptKey, prompt string) string {
	text := a.gen.Generate(ctx, prompt)
	if IsGenerationError(text) {
		a.logger.Error("generation failed", "prompt", key, "error", text)
	} else {
		a.logger.Debug("generation completed", "prompt", key, "live", a.gen.Live(), "chars", len(text))
	}
	return text
}
