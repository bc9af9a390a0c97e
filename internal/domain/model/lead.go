package model

import "time"

// DefaultLeadSource is the source recorded for submissions that do not
// declare where they came from.
const DefaultLeadSource = "website"

// Lead is the core business entity: a single contact-form submission.
// It is technology-agnostic and immutable once constructed; the opaque
// identifier assigned by the store is returned separately and used only
// for correlation.
type Lead struct {
	Name      string
	Email     string
	Message   string // Optional, may span multiple lines.
	Source    string
	CreatedAt time.Time
}

// NewLead is a factory function that applies the source default.
func NewLead(name, email, message, source string) *Lead {
	if source == "" {
		source = DefaultLeadSource
	}
	return &Lead{
		Name:      name,
		Email:     email,
		Message:   message,
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}
}

// EmailMessage is a single outbound notification. Constructed per send,
// never persisted.
type EmailMessage struct {
	To       string
	Subject  string
	HTMLBody string
}
