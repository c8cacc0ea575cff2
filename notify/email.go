// Package notify delivers completed article records to the operator.
package notify

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"

	"github.com/acollier/newswatch"
)

// emailTemplate renders one article as an HTML alert. Scrape failures
// get a manual-handling request instead of the article body.
const emailTemplate = `<html>
<body style="font-family: Arial, sans-serif; color: #222;">
	<h2>{{.Title}}</h2>
	<p>
		{{if .Source}}<b>{{.Source}}</b>{{end}}
		{{if .Authors}} &mdash; {{range $i, $a := .Authors}}{{if $i}}, {{end}}{{$a}}{{end}}{{end}}
		{{if .PublishedDate}} ({{.PublishedDate}}){{end}}
	</p>
	<p><a href="{{.URL}}">{{.URL}}</a></p>
	<p><i>Matched keyword: {{.Keyword}}</i></p>
	{{if .ScrapeError}}
	<p><b>The article content could not be retrieved automatically
	({{.ScrapeError}}). Please handle this article manually.</b></p>
	{{else}}
	<hr>
	<p>{{.Body}}</p>
	{{end}}
</body>
</html>`

// EmailNotifier sends one email per article over SMTP with STARTTLS.
type EmailNotifier struct {
	host     string
	port     int
	from     string
	password string
	to       string
	tmpl     *template.Template
}

// NewEmailNotifier creates a notifier for the given SMTP account.
func NewEmailNotifier(host string, port int, from, password, to string) (*EmailNotifier, error) {
	tmpl, err := template.New("alert").Parse(emailTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email template: %w", err)
	}

	return &EmailNotifier{
		host:     host,
		port:     port,
		from:     from,
		password: password,
		to:       to,
		tmpl:     tmpl,
	}, nil
}

// emailData is the template payload: the record plus its content
// pre-formatted as HTML paragraphs.
type emailData struct {
	newswatch.Record
	Body template.HTML
}

// Notify renders and sends the alert email for one article.
func (n *EmailNotifier) Notify(ctx context.Context, rec newswatch.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body strings.Builder
	data := emailData{Record: rec, Body: FormatHTML(rec.Content)}
	if err := n.tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email for %s: %w", rec.URL, err)
	}

	subject := "NEWS ALERT: " + rec.Title
	msg := strings.Join([]string{
		"From: " + n.from,
		"To: " + n.to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		body.String(),
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	auth := smtp.PlainAuth("", n.from, n.password, n.host)
	if err := smtp.SendMail(addr, auth, n.from, []string{n.to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email for %s: %w", rec.URL, err)
	}

	return nil
}

// FormatHTML converts newline-separated paragraphs to <br><br> breaks,
// escaping the text itself.
func FormatHTML(text string) template.HTML {
	var paragraphs []string
	for _, p := range strings.Split(strings.TrimSpace(text), "\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, template.HTMLEscapeString(p))
		}
	}

	return template.HTML(strings.Join(paragraphs, "<br><br>"))
}

// LogNotifier writes alerts to the log instead of sending them.
// Useful for dry runs and as a fallback when email is unconfigured.
type LogNotifier struct{}

// Notify logs the article that would have been mailed.
func (LogNotifier) Notify(_ context.Context, rec newswatch.Record) error {
	if rec.ScrapeError != "" {
		log.Printf("INFO: ALERT %q (%s) keyword=%q -- content unavailable (%s), handle manually",
			rec.Title, rec.URL, rec.Keyword, rec.ScrapeError)
		return nil
	}

	log.Printf("INFO: ALERT %q (%s) source=%q keyword=%q authors=%v published=%q",
		rec.Title, rec.URL, rec.Source, rec.Keyword, rec.Authors, rec.PublishedDate)
	return nil
}
