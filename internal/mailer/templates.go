package mailer

import (
	"bytes"
	"embed"
	htmltmpl "html/template"
	texttmpl "text/template"

	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
)

//go:embed templates/*
var templateFS embed.FS

var (
	textTemplates = texttmpl.Must(texttmpl.ParseFS(templateFS, "templates/*.txt"))
	htmlTemplates = htmltmpl.Must(htmltmpl.ParseFS(templateFS, "templates/*.gohtml"))
)

// CodeData feeds the verification code template.
type CodeData struct {
	Code         string
	CourseName   string
	ValidMinutes int
}

// CodeMessage renders the verification code mail for one recipient.
func CodeMessage(to string, data CodeData) (*Message, error) {
	msg := &Message{To: []string{to}, Subject: "Dein Verifizierungscode für die LVA-Bewertung"}
	return msg, render(msg, "code", data)
}

// ContactMessage renders a relayed contact form submission for one recipient.
// Replies go straight to the submitter.
func ContactMessage(to string, form *model.ContactRequest) (*Message, error) {
	subject := form.Subject
	if subject == "" {
		subject = "Neue Nachricht"
	}
	if form.Area != "" {
		subject = "[" + form.Area + "] " + subject
	}
	msg := &Message{To: []string{to}, ReplyTo: form.Email, Subject: subject}
	return msg, render(msg, "contact", form)
}

func render(msg *Message, name string, data interface{}) error {
	var text bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return err
	}
	var html bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, name+".gohtml", data); err != nil {
		return err
	}
	msg.Text = text.String()
	msg.HTML = html.String()
	return nil
}
