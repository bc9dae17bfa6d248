package relay

import "time"

// Inbound is one user message entering the relay, already stripped of
// transport framing.
type Inbound struct {
	UserID   string
	ChatID   int64
	Username string
	Text     string
	At       time.Time
}

// Reply is the relay's answer to one Inbound, segmented for the transport.
type Reply struct {
	Segments []string // ordered, each within the transport's size cap
	Provider string   // provider that produced the completion
	Model    string
	Searched bool     // whether web search ran for this request
	Sources  []string // search sources that contributed context
}
