// Package mail renders transactional emails and delivers them over SMTP.
package mail

import (
	"context"
	"fmt"

	"github.com/mailgun/raymond/v2"
)

// Message is the unit placed on the email task queue.
type Message struct {
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
}

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var (
	verifyTpl = raymond.MustParse(`<h1>Verify your email</h1>
<p>Hi {{name}}, please click <a href="{{{link}}}">this link</a> to verify your email.</p>`)

	resetTpl = raymond.MustParse(`<h1>Reset Password</h1>
<p>Please click <a href="{{{link}}}">this link</a> to reset your password.</p>`)

	welcomeTpl = raymond.MustParse(`<h1>Welcome to {{app}}</h1>`)
)

func VerificationEmail(to, name, link string) (Message, error) {
	body, err := verifyTpl.Exec(map[string]string{"name": name, "link": link})
	if err != nil {
		return Message{}, fmt.Errorf("render verification email: %w", err)
	}
	return Message{Recipients: []string{to}, Subject: "Verify your email", Body: body}, nil
}

func PasswordResetEmail(to, link string) (Message, error) {
	body, err := resetTpl.Exec(map[string]string{"link": link})
	if err != nil {
		return Message{}, fmt.Errorf("render reset email: %w", err)
	}
	return Message{Recipients: []string{to}, Subject: "Reset password", Body: body}, nil
}

func WelcomeEmail(to []string, app string) (Message, error) {
	body, err := welcomeTpl.Exec(map[string]string{"app": app})
	if err != nil {
		return Message{}, fmt.Errorf("render welcome email: %w", err)
	}
	return Message{Recipients: to, Subject: "Hello", Body: body}, nil
}
