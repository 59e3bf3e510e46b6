package forms

import (
	"strconv"
	"strings"

	"github.com/Gobusters/ectolinq"

	"github.com/gumanista/hate-2-action/pkg/models"
)

// Option is one entry of a select input, bound to the key type of the entity it
// refers to.
type Option[K comparable] struct {
	Value    K
	Label    string
	Selected bool
}

// Options builds select entries from a parent list.
func Options[T any, K comparable](items []T, key func(T) K, label func(T) string, selected func(K) bool) []Option[K] {
	return ectolinq.Map(items, func(item T) Option[K] {
		k := key(item)
		return Option[K]{
			Value:    k,
			Label:    label(item),
			Selected: selected != nil && selected(k),
		}
	})
}

// parseOptionalID reads a single-select value. Blank means no parent.
func parseOptionalID(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

// parseIDs reads a multi-select value as a set of keys in first-seen order.
// The result is never nil.
func parseIDs(raw []string) []int64 {
	ids := make([]int64, 0, len(raw))
	for _, r := range raw {
		if id := parseOptionalID(r); id != nil {
			ids = append(ids, *id)
		}
	}
	return models.UniqueIDs(ids)
}

func formatID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func formatIDs(ids []int64) []string {
	return ectolinq.Map(ids, func(id int64) string {
		return strconv.FormatInt(id, 10)
	})
}

// selectedIn reports whether id is among the submitted raw values.
func selectedIn(raw []string) func(int64) bool {
	ids := parseIDs(raw)
	return func(id int64) bool {
		return ectolinq.Contains(ids, id)
	}
}

// selectedIs reports whether id equals the submitted single-select value.
func selectedIs(raw string) func(int64) bool {
	want := parseOptionalID(raw)
	return func(id int64) bool {
		return want != nil && *want == id
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nonEmpty maps "" to nil for optional fields that are either set or absent.
func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// keepNull keeps a field null when it was null before and the user left it
// empty; otherwise the typed text is sent as is.
func keepNull(original *string, typed string) *string {
	if original == nil && typed == "" {
		return nil
	}
	return &typed
}
