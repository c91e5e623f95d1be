package models

import (
	"fmt"
	"strings"
)

// Role selects which preset tracker catalog a user sees.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdult   Role = "adult"
	RoleSenior  Role = "senior"
)

// ParseRole normalises a role tag and rejects unknown values.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleStudent, RoleAdult, RoleSenior:
		return r, nil
	default:
		return "", fmt.Errorf("invalid role: %q (must be student, adult, or senior)", s)
	}
}
