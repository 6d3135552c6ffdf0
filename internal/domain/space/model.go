// Package space models the named groupings conversations can belong to. A
// space may define an instruction that becomes the system prompt for
// conversations assigned to it.
package space

import "time"

// Space is a workspace grouping for conversations.
type Space struct {
	ID       uint   `json:"-"`
	PublicID string `json:"id"`
	Name     string `json:"name"`
	// Instruction is injected as the system prompt for conversations in this
	// space. Optional.
	Instruction string    `json:"instruction,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
