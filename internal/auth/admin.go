// Package auth decides who may manage the driver registry.
//
// There is exactly one admin, identified by Telegram username.
package auth

import (
	"errors"
	"strings"
)

var ErrUnauthorized = errors.New("auth: unauthorized")

// AdminGate compares a sender's Telegram username to the configured admin.
type AdminGate struct {
	handle string
}

// NewAdminGate accepts the handle with or without a leading "@".
func NewAdminGate(handle string) AdminGate {
	return AdminGate{handle: strings.TrimPrefix(strings.TrimSpace(handle), "@")}
}

// IsAdmin is an exact, case-sensitive match. An unset admin handle or an
// empty username never matches.
func (g AdminGate) IsAdmin(username string) bool {
	return g.handle != "" && username == g.handle
}

func (g AdminGate) Authorize(username string) error {
	if !g.IsAdmin(username) {
		return ErrUnauthorized
	}
	return nil
}

func (g AdminGate) Handle() string {
	return g.handle
}
