package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Gobusters/ectolinq"
)

// UpdatePolicy selects how an Update payload is derived from an edit.
type UpdatePolicy int

const (
	// FullReplace sends every editable field as it stands after the edit.
	FullReplace UpdatePolicy = iota
	// ChangedOnly sends only the fields that differ from the loaded record.
	ChangedOnly
)

func (p UpdatePolicy) String() string {
	switch p {
	case FullReplace:
		return "full-replace"
	case ChangedOnly:
		return "changed-only"
	default:
		return fmt.Sprintf("UpdatePolicy(%d)", int(p))
	}
}

func ParseUpdatePolicy(s string) (UpdatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full-replace", "full":
		return FullReplace, nil
	case "changed-only", "changed":
		return ChangedOnly, nil
	default:
		return FullReplace, fmt.Errorf("unknown update policy %q", s)
	}
}

// UniqueIDs collapses duplicate keys, keeping first-seen order. nil and
// empty inputs are returned as given.
func UniqueIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return ids
	}
	seen := make(map[int64]struct{}, len(ids))
	return ectolinq.Filter(ids, func(id int64) bool {
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
		return true
	})
}

// SameIDSet compares key sets ignoring order and duplicates.
func SameIDSet(a, b []int64) bool {
	ua, ub := UniqueIDs(a), UniqueIDs(b)
	if len(ua) != len(ub) {
		return false
	}
	for _, id := range ua {
		if !ectolinq.Contains(ub, id) {
			return false
		}
	}
	return true
}

func diffValue[T comparable](before, after T) Optional[T] {
	if before == after {
		return Optional[T]{}
	}
	return Some(after)
}

func diffPtr[T comparable](before, after *T) Optional[T] {
	switch {
	case before == nil && after == nil:
		return Optional[T]{}
	case before != nil && after != nil && *before == *after:
		return Optional[T]{}
	default:
		return FromPtr(after)
	}
}

func diffIDs(before, after []int64) Optional[[]int64] {
	if after == nil || SameIDSet(before, after) {
		return Optional[[]int64]{}
	}
	return Some(UniqueIDs(after))
}

// FlexBool decodes booleans sent either as JSON bools or as 0/1 integers.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true", "1":
		*b = true
	case "false", "0", "null":
		*b = false
	default:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid boolean %s", data)
		}
		*b = s == "true" || s == "1"
	}
	return nil
}
