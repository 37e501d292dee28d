package service

import (
	"errors"
	"fmt"

	"pinax-social-backend/internal/repository"
	"pinax-social-backend/internal/validation"
)

// Base categories; the HTTP layer maps these to status codes.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = validation.ErrInvalid
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username, email or password", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", ErrUnauthorized)

	ErrExpired       = fmt.Errorf("%w: key or token has expired", ErrInvalidInput)
	ErrAlreadyUsed   = fmt.Errorf("%w: token already used", ErrInvalidInput)
	ErrSelfAction    = fmt.Errorf("%w: cannot do this to yourself", ErrInvalidInput)
	ErrEmailNotReady = fmt.Errorf("%w: email address is not verified", ErrInvalidInput)
	ErrPrimaryEmail  = fmt.Errorf("%w: cannot remove the primary email address", ErrInvalidInput)

	ErrAlreadyFriends    = fmt.Errorf("%w: already friends", ErrConflict)
	ErrInvitationPending = fmt.Errorf("%w: an invitation is already pending", ErrConflict)
	ErrInvitationClosed  = fmt.Errorf("%w: invitation is no longer pending", ErrConflict)
	ErrAlreadyMember     = fmt.Errorf("%w: already a member", ErrConflict)
	ErrAlreadyFollowing  = fmt.Errorf("%w: already following", ErrConflict)

	ErrNotMember         = fmt.Errorf("%w: not a member", ErrForbidden)
	ErrLastMember        = fmt.Errorf("%w: the last member cannot leave; delete the group instead", ErrInvalidInput)
	ErrGroupNotEmpty     = fmt.Errorf("%w: other members remain", ErrConflict)
	ErrInvalidTransition = fmt.Errorf("%w: transition not allowed", ErrInvalidInput)
	ErrRequiredPlugin    = fmt.Errorf("%w: required plugins cannot be hidden", ErrInvalidInput)
	ErrPluginRemoved     = fmt.Errorf("%w: removed entries cannot be toggled", ErrConflict)
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// notFound turns a repository miss into ErrNotFound naming what was missing;
// other errors pass through.
func notFound(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return err
}

// conflict turns a unique violation into ErrConflict
func conflict(err error, what string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("%w: %s already exists", ErrConflict, what)
	}
	return err
}
