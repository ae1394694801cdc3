package core

import "errors"

var (
	// ErrConfiguration marks a review that cannot start because a required
	// credential (the GitHub token) is not configured.
	ErrConfiguration = errors.New("configuration error")
	// ErrUpstream marks a failure of an external collaborator the review
	// cannot proceed without, such as fetching pull request metadata.
	ErrUpstream = errors.New("upstream error")
	// ErrInvalidEvent marks a qualifying webhook whose payload lacks the
	// repository or pull request it refers to.
	ErrInvalidEvent = errors.New("invalid event")
)
