// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the application's logic.
package core

import (
	"fmt"
	"strings"

	"github.com/google/go-github/v73/github"
)

// EventKind classifies an inbound webhook notification.
type EventKind int

const (
	// EventOther covers every event that must not trigger a review.
	EventOther EventKind = iota
	EventPullRequestOpened
	EventPullRequestSynchronized
)

func (k EventKind) String() string {
	switch k {
	case EventPullRequestOpened:
		return "pull_request.opened"
	case EventPullRequestSynchronized:
		return "pull_request.synchronize"
	default:
		return "other"
	}
}

// Triggers reports whether events of this kind start a review.
func (k EventKind) Triggers() bool {
	return k == EventPullRequestOpened || k == EventPullRequestSynchronized
}

// Event is one classified inbound webhook notification. It is built once per
// request and discarded after dispatch.
type Event struct {
	Kind       EventKind
	Type       string
	Action     string
	DeliveryID string

	RepoOwner    string
	RepoName     string
	RepoFullName string

	PRNumber int
	HeadSHA  string

	Payload []byte
}

// ClassifyEvent turns a raw GitHub webhook into the application's internal Event.
// It acts as an anti-corruption layer: only pull_request events with the
// "opened" or "synchronize" action are fully decoded and validated, everything
// else comes back as EventOther without touching the payload.
func ClassifyEvent(eventType, deliveryID string, payload []byte) (*Event, error) {
	event := &Event{
		Kind:       EventOther,
		Type:       eventType,
		DeliveryID: deliveryID,
		Payload:    payload,
	}
	if eventType != "pull_request" {
		return event, nil
	}

	raw, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	prEvent, ok := raw.(*github.PullRequestEvent)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected payload type %T", ErrInvalidEvent, raw)
	}

	event.Action = prEvent.GetAction()
	switch event.Action {
	case "opened":
		event.Kind = EventPullRequestOpened
	case "synchronize":
		event.Kind = EventPullRequestSynchronized
	default:
		return event, nil
	}

	fullName := prEvent.GetRepo().GetFullName()
	owner, name, err := SplitRepoFullName(fullName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}

	number := prEvent.GetPullRequest().GetNumber()
	if number <= 0 {
		number = prEvent.GetNumber()
	}
	if number <= 0 {
		return nil, fmt.Errorf("%w: invalid pull request number: %d", ErrInvalidEvent, number)
	}

	event.RepoOwner = owner
	event.RepoName = name
	event.RepoFullName = fullName
	event.PRNumber = number
	event.HeadSHA = prEvent.GetPullRequest().GetHead().GetSHA()
	return event, nil
}

// SplitRepoFullName splits an "owner/name" repository identifier.
func SplitRepoFullName(fullName string) (owner, name string, err error) {
	parts := strings.Split(fullName, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository full name %q", fullName)
	}
	return parts[0], parts[1], nil
}
