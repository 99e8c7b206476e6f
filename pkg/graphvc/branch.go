package graphvc

import "time"

// Branch is a named, mutable pointer into one workflow's history.
// Names are unique per workflow. HeadVersionID always references a
// version of the same workflow; the engine's mutators maintain that.
type Branch struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	WorkflowID    string    `json:"workflowId"`
	BaseVersionID string    `json:"baseVersionId"`
	HeadVersionID string    `json:"headVersionId"`
	CreatedAt     time.Time `json:"createdAt"`
	LastActivity  time.Time `json:"lastActivity"`
	Author        string    `json:"author"`
	Description   string    `json:"description,omitempty"`
	IsActive      bool      `json:"isActive"`
}

func (b *Branch) clone() *Branch {
	if b == nil {
		return nil
	}
	out := *b
	return &out
}
