package mail

import (
	"html/template"
	"strings"
)

const (
	SubjectVerify         = "Verify Your Email – Unsaid Feelings"
	SubjectAccountDeleted = "Account Deleted – Unsaid Feelings"
	SubjectForgotPassword = "Reset Your Password – Unsaid Feelings"
	SubjectRequestReset   = "Reset your password – Unsaid Feelings"
	SubjectTest           = "Test email – Unsaid Feelings"
)

var (
	verifyTmpl = template.Must(template.New("verify").Parse(
		`<h2>Hello {{.Username}},</h2>
<p>Click below to verify your email:</p>
<a href="{{.Link}}">Verify Email</a>`))

	deletedTmpl = template.Must(template.New("deleted").Parse(
		`<p>Hi {{.Username}},</p>
<p>Your account has been deleted. We hope you found peace here.</p>`))

	forgotTmpl = template.Must(template.New("forgot").Parse(
		`<h3>Password Reset</h3>
<p>Click below to reset your password:</p>
<a href="{{.Link}}">Reset Password</a>
<p>This link expires in 15 minutes.</p>`))

	resetTmpl = template.Must(template.New("reset").Parse(
		`<p>You requested a password reset. Click below to reset it:</p><a href="{{.Link}}">{{.Link}}</a>`))

	testTmpl = template.Must(template.New("test").Parse(
		`<h3>This is a test email from your project</h3>`))
)

type templateData struct {
	Username string
	Link     string
}

func VerificationBody(username, link string) (string, error) {
	return execute(verifyTmpl, templateData{Username: username, Link: link})
}

func AccountDeletedBody(username string) (string, error) {
	return execute(deletedTmpl, templateData{Username: username})
}

func ForgotPasswordBody(link string) (string, error) {
	return execute(forgotTmpl, templateData{Link: link})
}

func RequestResetBody(link string) (string, error) {
	return execute(resetTmpl, templateData{Link: link})
}

func TestBody() (string, error) {
	return execute(testTmpl, nil)
}

func execute(t *template.Template, data any) (string, error) {
	var b strings.Builder

	if err := t.Execute(&b, data); err != nil {
		return "", err
	}

	return b.String(), nil
}
