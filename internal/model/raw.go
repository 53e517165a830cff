package model

import "time"

// OriginSource identifies the system a raw record was fetched from.
type OriginSource string

const (
	OriginGmail    OriginSource = "gmail"
	OriginCalendar OriginSource = "calendar"
	OriginBilling  OriginSource = "billing"
)

// Origins returns every origin in pipeline order.
func Origins() []OriginSource {
	return []OriginSource{OriginGmail, OriginCalendar, OriginBilling}
}

// RawRecord is a single source-shaped record as returned by an adapter.
type RawRecord interface {
	RecordID() string
	Origin() OriginSource
}

// RawMessage is one email within a thread.
type RawMessage struct {
	ID      string    `json:"id"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Date    time.Time `json:"date"`
	Labels  []string  `json:"labels,omitempty"`
}

// RawThread is the email record unit: a search hit with its messages in
// chronological order.
type RawThread struct {
	ID       string       `json:"id"`
	Subject  string       `json:"subject"`
	From     string       `json:"from"`
	Labels   []string     `json:"labels,omitempty"`
	Date     time.Time    `json:"date"`
	Messages []RawMessage `json:"messages"`
}

func (t RawThread) RecordID() string     { return t.ID }
func (t RawThread) Origin() OriginSource { return OriginGmail }

// First returns the earliest message, or nil for an empty thread.
func (t RawThread) First() *RawMessage {
	if len(t.Messages) == 0 {
		return nil
	}
	return &t.Messages[0]
}

// Last returns the latest message, or nil for an empty thread.
func (t RawThread) Last() *RawMessage {
	if len(t.Messages) == 0 {
		return nil
	}
	return &t.Messages[len(t.Messages)-1]
}

// RawEvent is a calendar event.
type RawEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

func (e RawEvent) RecordID() string     { return e.ID }
func (e RawEvent) Origin() OriginSource { return OriginCalendar }

// RawContact is a billing-system customer.
type RawContact struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

func (c RawContact) RecordID() string     { return c.ID }
func (c RawContact) Origin() OriginSource { return OriginBilling }
