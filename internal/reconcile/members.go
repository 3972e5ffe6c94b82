// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/similigh/trello2gh/internal/mapping"
	"github.com/similigh/trello2gh/internal/trello"
)

// ErrUserNotFound is returned by a UserLookup when the login does not exist.
var ErrUserNotFound = errors.New("github user not found")

// UserLookup resolves a GitHub login. Implementations must return
// ErrUserNotFound (possibly wrapped) for unknown users.
type UserLookup interface {
	LookupUser(ctx context.Context, login string) (string, error)
}

// ResolvedMember is a user mapping entry after its GitHub side was looked up.
type ResolvedMember struct {
	TrelloName string
	Login      string
	Requested  string
}

// Valid reports whether the GitHub side resolved.
func (m ResolvedMember) Valid() bool {
	return m.Login != ""
}

// Members holds every resolved user mapping, in mapping order.
type Members []ResolvedMember

// ResolveMembers looks up each mapped GitHub user in turn. Unknown users
// become unresolved entries; any other lookup failure is returned as is.
func ResolveMembers(ctx context.Context, users []mapping.UserMapping, lookup UserLookup) (Members, error) {
	out := make(Members, 0, len(users))
	for _, u := range users {
		login, err := lookup.LookupUser(ctx, u.GitHub)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				out = append(out, ResolvedMember{TrelloName: u.Trello, Requested: u.GitHub})
				continue
			}
			return nil, err
		}
		out = append(out, ResolvedMember{TrelloName: u.Trello, Login: login, Requested: u.GitHub})
	}
	return out, nil
}

// Problems describes every user mapping whose GitHub user does not exist.
func (ms Members) Problems() []string {
	var out []string
	for _, m := range ms {
		if !m.Valid() {
			out = append(out, fmt.Sprintf("user %q maps to GitHub user %q, which does not exist", m.TrelloName, m.Requested))
		}
	}
	return out
}

// MapMemberID resolves a Trello member id to a GitHub login. The member's
// id, username and full name are tried in that order against the Trello
// side of each mapping; the first match decides.
func (ms Members) MapMemberID(board *trello.Board, memberID string) (string, bool) {
	candidates := []string{memberID}
	if member, ok := board.Member(memberID); ok {
		candidates = append(candidates, member.Username, member.FullName)
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		for _, m := range ms {
			if m.TrelloName == candidate {
				return m.Login, m.Valid()
			}
		}
	}
	return "", false
}

// MapMemberIDs maps each id and drops the ones that do not resolve.
// The dropped ids are returned separately.
func (ms Members) MapMemberIDs(board *trello.Board, memberIDs []string) (logins []string, unresolved []string) {
	for _, id := range memberIDs {
		if login, ok := ms.MapMemberID(board, id); ok {
			logins = append(logins, login)
		} else {
			unresolved = append(unresolved, id)
		}
	}
	return logins, unresolved
}
