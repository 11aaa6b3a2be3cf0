package hubclient

import "time"

// Label is a repository label.
type Label struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

// Milestone is a repository milestone. ID is the remote's internal
// identifier; Number is the user-visible sequence number.
type Milestone struct {
	ID          int        `json:"id"`
	Number      int        `json:"number"`
	Title       string     `json:"title"`
	State       string     `json:"state"`
	Description string     `json:"description,omitempty"`
	DueOn       *time.Time `json:"due_on,omitempty"`
}

// NewMilestone is the payload for creating a milestone.
type NewMilestone struct {
	Title       string     `json:"title"`
	State       string     `json:"state,omitempty"`
	Description string     `json:"description,omitempty"`
	DueOn       *time.Time `json:"due_on,omitempty"`
}

// Issue is an issue with its label names and optional milestone reference.
// MilestoneID refers to the remote's internal milestone identifier as
// returned by the list API; the saved form carries the milestone number
// instead (see MilestoneNumber).
type Issue struct {
	Number          int      `json:"number"`
	Title           string   `json:"title"`
	Body            string   `json:"body,omitempty"`
	State           string   `json:"state"`
	Labels          []string `json:"labels,omitempty"`
	Assignees       []string `json:"assignees,omitempty"`
	MilestoneID     int      `json:"milestone_id,omitempty"`
	MilestoneNumber int      `json:"milestone_number,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewIssue is the payload for creating an issue.
type NewIssue struct {
	Title           string   `json:"title"`
	Body            string   `json:"body,omitempty"`
	Labels          []string `json:"labels,omitempty"`
	Assignees       []string `json:"assignees,omitempty"`
	MilestoneNumber int      `json:"milestone,omitempty"`
}

// Comment is an issue comment.
type Comment struct {
	ID          int       `json:"id"`
	IssueNumber int       `json:"issue_number"`
	Author      string    `json:"author,omitempty"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

// SubIssue is a parent/child relationship between two issues.
type SubIssue struct {
	ParentNumber int `json:"parent_number"`
	ChildNumber  int `json:"child_number"`
}

// Pull is a pull request.
type Pull struct {
	Number          int      `json:"number"`
	Title           string   `json:"title"`
	Body            string   `json:"body,omitempty"`
	State           string   `json:"state"`
	HeadRef         string   `json:"head_ref"`
	BaseRef         string   `json:"base_ref"`
	Labels          []string `json:"labels,omitempty"`
	MilestoneID     int      `json:"milestone_id,omitempty"`
	MilestoneNumber int      `json:"milestone_number,omitempty"`
}

// NewPull is the payload for creating a pull request.
type NewPull struct {
	Title   string `json:"title"`
	Body    string `json:"body,omitempty"`
	HeadRef string `json:"head"`
	BaseRef string `json:"base"`
}

// Review is a pull request review.
type Review struct {
	ID         int       `json:"id"`
	PullNumber int       `json:"pull_number"`
	Author     string    `json:"author,omitempty"`
	State      string    `json:"state"`
	Body       string    `json:"body,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Release is a published release.
type Release struct {
	ID         int       `json:"id"`
	TagName    string    `json:"tag_name"`
	Name       string    `json:"name,omitempty"`
	Body       string    `json:"body,omitempty"`
	Draft      bool      `json:"draft"`
	Prerelease bool      `json:"prerelease"`
	CreatedAt  time.Time `json:"created_at"`
}
