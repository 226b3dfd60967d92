package models

// EmailMessage is one outgoing transactional email.
type EmailMessage struct {
	To          string
	ToName      string
	CC          []string
	BCC         []string
	Subject     string
	Content     string
	HTMLContent string
}
