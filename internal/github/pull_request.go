package github

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v73/github"
	"golang.org/x/sync/errgroup"

	"github.com/sevigo/code-inspector/internal/core"
)

// PullRequestService adapts Client to the review pipeline's collaborator
// contract.
type PullRequestService struct {
	client Client
	logger *slog.Logger
}

var _ core.PullRequestClient = (*PullRequestService)(nil)

func NewPullRequestService(client Client, logger *slog.Logger) *PullRequestService {
	return &PullRequestService{client: client, logger: logger}
}

// NewPullRequestClientFactory returns a factory building token-authenticated
// services, one per review.
func NewPullRequestClientFactory(logger *slog.Logger) core.PullRequestClientFactory {
	return func(ctx context.Context, token string) core.PullRequestClient {
		return NewPullRequestService(NewPATClient(ctx, token, logger), logger)
	}
}

// Fetch loads the pull request metadata, its commits and its diff
// concurrently.
func (s *PullRequestService) Fetch(ctx context.Context, repoFullName string, number int) (*core.PullRequest, error) {
	owner, repo, err := core.SplitRepoFullName(repoFullName)
	if err != nil {
		return nil, err
	}

	var (
		pr      *github.PullRequest
		commits []*github.RepositoryCommit
		diff    string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if pr, err = s.client.GetPullRequest(gctx, owner, repo, number); err != nil {
			return fmt.Errorf("get pull request: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if commits, err = s.client.ListCommits(gctx, owner, repo, number); err != nil {
			return fmt.Errorf("list commits: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if diff, err = s.client.GetPullRequestDiff(gctx, owner, repo, number); err != nil {
			return fmt.Errorf("get diff: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch %s#%d: %w", repoFullName, number, err)
	}

	result := &core.PullRequest{
		RepoFullName: repoFullName,
		Number:       number,
		Title:        pr.GetTitle(),
		Body:         pr.GetBody(),
		HeadSHA:      pr.GetHead().GetSHA(),
		HTMLURL:      pr.GetHTMLURL(),
		Diff:         diff,
	}
	for _, c := range commits {
		result.Commits = append(result.Commits, core.CommitSummary{
			Hash:    c.GetSHA(),
			Author:  c.GetCommit().GetAuthor().GetName(),
			Message: c.GetCommit().GetMessage(),
			When:    c.GetCommit().GetAuthor().GetDate().Time,
		})
	}

	s.logger.Debug("fetched pull request", "repo", repoFullName, "pr", number, "commits", len(result.Commits), "diff_bytes", len(diff))
	return result, nil
}

// PostReview submits the review and returns its HTML URL.
func (s *PullRequestService) PostReview(ctx context.Context, repoFullName string, number int, review core.ReviewSubmission) (string, error) {
	owner, repo, err := core.SplitRepoFullName(repoFullName)
	if err != nil {
		return "", err
	}

	posted, err := s.client.CreateReview(ctx, owner, repo, number, string(review.Event), review.Body)
	if err != nil {
		return "", fmt.Errorf("failed to post review on %s#%d: %w", repoFullName, number, err)
	}
	return posted.GetHTMLURL(), nil
}
