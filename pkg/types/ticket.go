package types

import "time"

// TicketReply is a single message appended to a support ticket thread.
type TicketReply struct {
	Author  string    `json:"author"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// TicketReplies is the jsonb-backed reply thread.
type TicketReplies []TicketReply
