package auth

import "time"

// Strategy issues and verifies bearer tokens for back-office accounts.
type Strategy interface {
	IssueToken(adminID int64) (string, error)
	ParseToken(token string) (int64, error)
	Name() string
}

type Options struct {
	TTL   time.Duration
	Scope string
}
