package model

// ContactRequest is a public contact form submission.
type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"required,email,max=200"`
	Area    string `json:"bereich" binding:"max=200"`
	Subject string `json:"subject" binding:"max=300"`
	Message string `json:"message" binding:"required,max=10000"`
}

// ContactResult reports how many recipients received the relayed message.
type ContactResult struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	EmailSent       bool   `json:"email_sent"`
	RecipientsCount int    `json:"recipients_count"`
}
