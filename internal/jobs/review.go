// Package jobs defines the review job and the worker pool that runs it.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sevigo/code-inspector/internal/config"
	"github.com/sevigo/code-inspector/internal/core"
	"github.com/sevigo/code-inspector/internal/llm"
	"github.com/sevigo/code-inspector/internal/metrics"
	"github.com/sevigo/code-inspector/internal/quality"
	"github.com/sevigo/code-inspector/internal/storage"
)

// ReviewJob performs one end-to-end quality review of a pull request.
type ReviewJob struct {
	cfg       *config.Config
	newClient core.PullRequestClientFactory
	checker   *quality.Checker
	agent     *llm.Agent
	store     storage.Store
	logger    *slog.Logger
}

// NewReviewJob creates a ReviewJob. A nil store disables persistence.
func NewReviewJob(
	cfg *config.Config,
	newClient core.PullRequestClientFactory,
	checker *quality.Checker,
	agent *llm.Agent,
	store storage.Store,
	logger *slog.Logger,
) *ReviewJob {
	if cfg == nil {
		panic("config cannot be nil")
	}
	if newClient == nil {
		panic("pull request client factory cannot be nil")
	}
	if checker == nil || agent == nil {
		panic("checker and agent cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &ReviewJob{cfg: cfg, newClient: newClient, checker: checker, agent: agent, store: store, logger: logger}
}

var _ core.Job = (*ReviewJob)(nil)

// Run reviews the pull request event refers to. Errors wrap core.ErrConfiguration
// when the GitHub token is missing and core.ErrUpstream when the pull request
// cannot be fetched; nothing is persisted in either case.
func (j *ReviewJob) Run(ctx context.Context, event *core.Event) (*core.ReviewOutcome, error) {
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	token := j.cfg.GitHub.Token
	if token == "" {
		return nil, fmt.Errorf("%w: GitHub token not configured", core.ErrConfiguration)
	}

	if j.cfg.Server.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.cfg.Server.RequestTimeout)
		defer cancel()
	}

	start := time.Now()
	log := j.logger.With("repo", event.RepoFullName, "pr", event.PRNumber, "delivery", event.DeliveryID)
	log.Info("starting review job", "action", event.Action, "live_model", j.agent.Live())

	client := j.newClient(ctx, token)
	pr, err := client.Fetch(ctx, event.RepoFullName, event.PRNumber)
	if err != nil {
		log.Error("failed to fetch pull request", "error", err)
		return nil, fmt.Errorf("%w: failed to fetch pull request: %w", core.ErrUpstream, err)
	}

	report := j.checker.Check(pr)
	reportText, err := report.YAML()
	if err != nil {
		return nil, err
	}

	verdict, err := j.agent.QualityVerdict(ctx, reportText)
	if err != nil {
		return nil, err
	}
	status := core.StatusFromVerdict(verdict.Verdict, verdict.ParseErr)

	comments := report.Comments()
	if verdict.Reason != "" {
		comments = append(comments, "verdict: "+verdict.Reason)
	}

	outcome := &core.ReviewOutcome{
		DeliveryID:  event.DeliveryID,
		PRNumber:    event.PRNumber,
		Repository:  event.RepoFullName,
		Action:      event.Action,
		Status:      status,
		IssuesFound: report.Issues(),
		Comments:    comments,
		CreatedAt:   time.Now().UTC(),
	}

	submission := core.ReviewSubmission{
		Event: j.reviewEvent(status),
		Body:  reviewBody(verdict, report),
	}
	reviewURL, err := client.PostReview(ctx, event.RepoFullName, event.PRNumber, submission)
	if err != nil {
		log.Error("failed to post review", "event", submission.Event, "error", err)
	} else {
		outcome.ReviewURL = reviewURL
	}

	j.persist(ctx, log, outcome)

	metrics.ReviewOutcomes.WithLabelValues(outcome.Status).Inc()
	metrics.ReviewDuration.Observe(time.Since(start).Seconds())
	log.Info("review job completed", "status", outcome.Status, "issues", outcome.IssuesFound, "review_url", outcome.ReviewURL)
	return outcome, nil
}

// persist hands outcome to the store. Failures are logged only; the review has
// already been posted.
func (j *ReviewJob) persist(ctx context.Context, log *slog.Logger, outcome *core.ReviewOutcome) {
	if j.store == nil {
		return
	}
	// a caller that gave up must not prevent the record from being written
	err := j.store.SaveOutcome(context.WithoutCancel(ctx), outcome)
	switch {
	case err == nil:
		log.Debug("review outcome stored", "id", outcome.ID)
	case errors.Is(err, storage.ErrDuplicateOutcome):
		log.Info("review outcome for this delivery already stored")
	default:
		metrics.PersistenceFailures.Inc()
		log.Error("failed to store review outcome", "error", err)
	}
}

func (j *ReviewJob) reviewEvent(status string) core.ReviewEvent {
	switch status {
	case core.StatusApproved:
		if j.cfg.Quality.AutoApprove {
			return core.ReviewEventApprove
		}
		return core.ReviewEventComment
	case core.StatusChangesRequested:
		return core.ReviewEventRequestChanges
	default:
		return core.ReviewEventComment
	}
}

func reviewBody(verdict llm.Verdict, report *quality.Report) string {
	var b strings.Builder
	b.WriteString("## Code Inspector review\n\n")
	fmt.Fprintf(&b, "**Decision:** %s\n\n", verdict.Decision)
	fmt.Fprintf(&b, "**Reason:** %s\n", verdict.Reason)
	if verdict.ParseErr != nil {
		b.WriteString("\n_The model answer could not be parsed; the pull request was rejected by default._\n")
	}

	fmt.Fprintf(&b, "\n**Stats:** %d files, +%d/-%d\n", report.Stats.FilesChanged, report.Stats.Additions, report.Stats.Deletions)
	if findings := report.Comments(); len(findings) > 0 {
		b.WriteString("\n### Findings\n")
		for _, f := range findings {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	return b.String()
}

func validateEvent(event *core.Event) error {
	if event == nil {
		return fmt.Errorf("%w: event cannot be nil", core.ErrInvalidEvent)
	}
	if event.RepoFullName == "" {
		return fmt.Errorf("%w: repository full name cannot be empty", core.ErrInvalidEvent)
	}
	if event.PRNumber <= 0 {
		return fmt.Errorf("%w: pull request number must be positive, got: %d", core.ErrInvalidEvent, event.PRNumber)
	}
	return nil
}
