package api

import (
	"context"

	"github.com/tikezone/platform/pkg/observability"
	"github.com/tikezone/platform/pkg/users"
)

type sendOTPRequest struct {
	Email string `json:"email"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type verifyOTPResponse struct {
	Verified bool        `json:"verified"`
	Token    string      `json:"token"`
	User     *users.User `json:"user"`
}

type upgradeResponse struct {
	OK   bool        `json:"ok"`
	User *users.User `json:"user"`
}

// agentView is the agent profile merged with the derived liveness flag
type agentView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Status   string `json:"status"`
	IsOnline bool   `json:"isOnline"`
}

type agentResponse struct {
	Agent *agentView `json:"agent"`
}

// CodeSender delivers an issued login code through an external channel.
// Delivery transport (email send) is outside this service.
type CodeSender interface {
	SendCode(ctx context.Context, email, code string) error
}

// LogSender is a development CodeSender that logs codes instead of
// delivering them.
type LogSender struct {
	Logger *observability.Logger
}

// SendCode logs the issued code
func (s *LogSender) SendCode(_ context.Context, email, code string) error {
	s.Logger.WithFields(map[string]interface{}{
		"email": email,
		"code":  code,
	}).Info("login code issued")
	return nil
}
