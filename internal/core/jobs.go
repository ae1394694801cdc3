// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the application's logic.
package core

import (
	"context"
)

// JobDispatcher defines the contract for a system that accepts review jobs and
// runs them on a bounded pool of workers. This interface decouples the event
// source (e.g., a webhook handler) from the job execution mechanism.
type JobDispatcher interface {
	// Dispatch hands the event to a worker and waits for its outcome. It
	// returns an error if the job cannot be queued, for example if the queue
	// is full, providing a mechanism for backpressure. Once queued, the job
	// runs to completion even if ctx is cancelled.
	Dispatch(ctx context.Context, event *Event) (*ReviewOutcome, error)
	Stop()
}

// Job represents a single, executable unit of work triggered by an Event.
type Job interface {
	// Run executes the job's logic and returns the outcome it produced.
	Run(ctx context.Context, event *Event) (*ReviewOutcome, error)
}

// PullRequestClient is the hosting-side collaborator of a review: it fetches
// pull request metadata and posts the resulting review.
//
//go:generate mockgen -destination=../../mocks/mock_pull_request_client.go -package=mocks . PullRequestClient
type PullRequestClient interface {
	Fetch(ctx context.Context, repoFullName string, number int) (*PullRequest, error)
	PostReview(ctx context.Context, repoFullName string, number int, review ReviewSubmission) (string, error)
}

// PullRequestClientFactory builds a PullRequestClient authenticated with token.
type PullRequestClientFactory func(ctx context.Context, token string) PullRequestClient
