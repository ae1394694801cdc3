package core

import "time"

// Decision is the approve/reject half of a quality verdict.
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

// Verdict is the structured result of the quality-analysis prompt.
type Verdict struct {
	Decision Decision
	Reason   string
}

// Review status values recorded in a ReviewOutcome.
const (
	StatusApproved         = "approved"
	StatusChangesRequested = "changes_requested"
	StatusError            = "error"
)

// StatusFromVerdict derives the outcome status. A verdict that failed to parse
// always yields StatusError.
func StatusFromVerdict(v Verdict, parseErr error) string {
	if parseErr != nil {
		return StatusError
	}
	if v.Decision == DecisionApprove {
		return StatusApproved
	}
	return StatusChangesRequested
}

// ReviewOutcome is the persisted record of one completed review. The core never
// mutates it after handing it to the store.
type ReviewOutcome struct {
	ID          string    `json:"id" db:"id"`
	DeliveryID  string    `json:"delivery_id,omitempty" db:"delivery_id"`
	PRNumber    int       `json:"pr_number" db:"pr_number"`
	Repository  string    `json:"repository" db:"repository"`
	Action      string    `json:"action,omitempty" db:"action"`
	Status      string    `json:"status" db:"status"`
	IssuesFound int       `json:"issues_found" db:"issues_found"`
	ReviewURL   string    `json:"review_url" db:"review_url"`
	Comments    []string  `json:"comments" db:"-"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ReviewEvent is the GitHub review event used when posting a review.
type ReviewEvent string

const (
	ReviewEventApprove        ReviewEvent = "APPROVE"
	ReviewEventRequestChanges ReviewEvent = "REQUEST_CHANGES"
	ReviewEventComment        ReviewEvent = "COMMENT"
)

// ReviewSubmission is what the orchestrator posts back to the pull request.
type ReviewSubmission struct {
	Event ReviewEvent
	Body  string
}
