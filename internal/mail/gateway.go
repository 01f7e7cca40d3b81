package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Result is the outcome of a single send. Send never returns a bare error.
type Result struct {
	Success bool
	Err     error
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Gateway struct {
	dialer   sender
	from     string
	fromName string
}

func New(host string, port int, username, password, fromName string) *Gateway {
	return &Gateway{
		dialer:   gomail.NewDialer(host, port, username, password),
		from:     username,
		fromName: fromName,
	}
}

// Account is the mailbox messages are sent from.
func (g *Gateway) Account() string {
	return g.from
}

func (g *Gateway) Send(ctx context.Context, to, subject, htmlBody string) (res Result) {
	const op = "mail.Gateway.Send"

	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: fmt.Errorf("%s: panic: %v", op, r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		return Result{Err: fmt.Errorf("%s: %w", op, err)}
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", g.from, g.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := g.dialer.DialAndSend(msg); err != nil {
		return Result{Err: fmt.Errorf("%s: %w", op, err)}
	}

	return Result{Success: true}
}
