package ports

import "context"

// Message is an outgoing email. At least one of Text or HTML is set.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers email. Failures wrap domain.ErrMail.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
