package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates renders the email bodies. Links point at the frontend.
type Templates struct {
	frontendURL string
	t           *template.Template
}

func NewTemplates(frontendURL string) (*Templates, error) {
	t, err := template.New("mail").Funcs(template.FuncMap{
		"year": func() int { return time.Now().Year() },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return &Templates{frontendURL: frontendURL, t: t}, nil
}

// MentorshipURL is the dashboard page linked from mentorship emails.
func (t *Templates) MentorshipURL() string {
	return t.frontendURL + "/mentorship"
}

// VerificationURL is the page that confirms token.
func (t *Templates) VerificationURL(token string) string {
	return t.frontendURL + "/verify-email/" + token
}

func (t *Templates) render(name, to, subject string, data any) (Mail, error) {
	var buf bytes.Buffer
	if err := t.t.ExecuteTemplate(&buf, name, data); err != nil {
		return Mail{}, fmt.Errorf("render %s: %w", name, err)
	}
	return Mail{To: to, Subject: subject, HTML: buf.String()}, nil
}

func (t *Templates) Verification(to, name, token string) (Mail, error) {
	return t.render("verification.html", to, "🎓 Verify Your Email - Alumni Network", map[string]any{
		"Name": name,
		"Link": t.VerificationURL(token),
	})
}

// RequestData describes a new request for the mentor's email.
type RequestData struct {
	MentorName  string
	MenteeName  string
	MenteeEmail string
	Goals       string
	Message     string
	MatchScore  int
}

func (t *Templates) MentorshipRequest(to string, d RequestData) (Mail, error) {
	return t.render("mentorship_request.html", to, "New Mentorship Request from "+d.MenteeName, map[string]any{
		"D":    d,
		"Link": t.MentorshipURL(),
	})
}

func (t *Templates) MentorshipAccepted(to, menteeName, mentorName, mentorEmail string) (Mail, error) {
	return t.render("mentorship_accepted.html", to, mentorName+" Accepted Your Mentorship Request!", map[string]any{
		"MenteeName":  menteeName,
		"MentorName":  mentorName,
		"MentorEmail": mentorEmail,
		"Link":        t.MentorshipURL(),
	})
}

func (t *Templates) MentorshipRejected(to, menteeName, mentorName, reason string) (Mail, error) {
	return t.render("mentorship_rejected.html", to, "Update on Your Mentorship Request", map[string]any{
		"MenteeName": menteeName,
		"MentorName": mentorName,
		"Reason":     reason,
		"Link":       t.frontendURL + "/mentors",
	})
}

func (t *Templates) MentorshipCompleted(to, menteeName, mentorName string) (Mail, error) {
	return t.render("mentorship_completed.html", to, "Your Mentorship with "+mentorName+" Is Complete", map[string]any{
		"MenteeName": menteeName,
		"MentorName": mentorName,
		"Link":       t.MentorshipURL(),
	})
}
