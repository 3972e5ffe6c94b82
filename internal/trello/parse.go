// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package trello

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SchemaError lists every structural problem found in a board export.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid board export (%d problems):\n  - %s", len(e.Problems), strings.Join(e.Problems, "\n  - "))
}

// rawAction mirrors the subset of a Trello action the migrator reads.
type rawAction struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Date            time.Time `json:"date"`
	IDMemberCreator string    `json:"idMemberCreator"`
	MemberCreator   struct {
		Username string `json:"username"`
	} `json:"memberCreator"`
	Data struct {
		Text string `json:"text"`
		Card struct {
			ID string `json:"id"`
		} `json:"card"`
	} `json:"data"`
}

// UnmarshalJSON keeps comment payloads and discards everything else.
func (a *Action) UnmarshalJSON(data []byte) error {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	if head.Type != string(ActionComment) {
		*a = Action{Kind: ActionOther}
		return nil
	}

	var raw rawAction
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("comment action: %w", err)
	}
	*a = Action{
		Kind: ActionComment,
		Comment: &Comment{
			ID:             raw.ID,
			AuthorMemberID: raw.IDMemberCreator,
			AuthorUsername: raw.MemberCreator.Username,
			CardID:         raw.Data.Card.ID,
			Text:           raw.Data.Text,
			Date:           raw.Date,
		},
	}
	return nil
}

// Parse decodes and validates a board export.
func Parse(data []byte) (*Board, error) {
	var board Board
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, &SchemaError{Problems: []string{fmt.Sprintf("malformed JSON: %v", err)}}
	}

	if problems := board.validate(); len(problems) > 0 {
		return nil, &SchemaError{Problems: problems}
	}
	return &board, nil
}

// validate collects every structural problem instead of stopping at the first.
func (b *Board) validate() []string {
	var problems []string

	lists := make(map[string]bool, len(b.Lists))
	for i, l := range b.Lists {
		if l.ID == "" {
			problems = append(problems, fmt.Sprintf("lists[%d]: missing id", i))
			continue
		}
		lists[l.ID] = true
	}

	for i, m := range b.Members {
		if m.ID == "" {
			problems = append(problems, fmt.Sprintf("members[%d]: missing id", i))
		}
	}

	for i, l := range b.Labels {
		if l.ID == "" {
			problems = append(problems, fmt.Sprintf("labels[%d]: missing id", i))
		}
	}

	for i, c := range b.Cards {
		if c.ID == "" {
			problems = append(problems, fmt.Sprintf("cards[%d]: missing id", i))
		}
		if c.ListID == "" {
			problems = append(problems, fmt.Sprintf("cards[%d] (%q): missing idList", i, c.Name))
		} else if !lists[c.ListID] {
			problems = append(problems, fmt.Sprintf("cards[%d] (%q): idList %s matches no list", i, c.Name, c.ListID))
		}
	}

	for i, cl := range b.Checklists {
		if cl.ID == "" {
			problems = append(problems, fmt.Sprintf("checklists[%d]: missing id", i))
		}
		for j, item := range cl.Items {
			if item.State != StateComplete && item.State != StateIncomplete {
				problems = append(problems, fmt.Sprintf("checklists[%d].checkItems[%d]: invalid state %q", i, j, item.State))
			}
		}
	}

	for i, a := range b.Actions {
		if a.Kind == ActionComment && (a.Comment == nil || a.Comment.CardID == "") {
			problems = append(problems, fmt.Sprintf("actions[%d]: comment without card id", i))
		}
	}

	return problems
}
