package rule

import (
	"fmt"
	"strings"

	"github.com/albatrocity/radio-room-server-sub000/pkg/room"
	"github.com/albatrocity/radio-room-server-sub000/pkg/signal"
)

// QualifierComparator is how a qualifier compares an attribute with its
// determiner.
type QualifierComparator string

const (
	QualifierEquals   QualifierComparator = "equals"
	QualifierIncludes QualifierComparator = "includes"
)

// Source attributes readable by qualifiers.
const (
	AttrEmoji    = "emoji"
	AttrUserID   = "userId"
	AttrUsername = "username"
	AttrContent  = "content"
	AttrMentions = "mentions"
)

var attributesByKind = map[signal.Kind]map[string]bool{
	signal.KindReaction: {AttrEmoji: true, AttrUserID: true, AttrUsername: true},
	signal.KindMessage:  {AttrContent: true, AttrUserID: true, AttrUsername: true, AttrMentions: true},
}

// Qualifier is a serialisable predicate over one source item, e.g.
// {sourceAttribute: emoji, comparator: equals, determiner: ":-1:"}.
type Qualifier struct {
	SourceAttribute string              `yaml:"sourceAttribute" json:"sourceAttribute"`
	Comparator      QualifierComparator `yaml:"comparator" json:"comparator"`
	Determiner      string              `yaml:"determiner" json:"determiner"`
}

// Validate checks the qualifier against the attributes available for
// events of the given kind.
func (q Qualifier) Validate(on signal.Kind) error {
	if q.SourceAttribute == "" {
		return fmt.Errorf("qualifier sourceAttribute is required")
	}
	if !attributesByKind[on][q.SourceAttribute] {
		return fmt.Errorf("qualifier sourceAttribute %q is not available on %s rules", q.SourceAttribute, on)
	}
	if q.Comparator != QualifierEquals && q.Comparator != QualifierIncludes {
		return fmt.Errorf("qualifier comparator %q is unknown", q.Comparator)
	}
	if q.Determiner == "" {
		return fmt.Errorf("qualifier determiner is required")
	}
	return nil
}

// Matches reports whether the item is eligible. Items of an unexpected
// type, or lacking the attribute, are not eligible.
func (q Qualifier) Matches(item Item) bool {
	values, ok := attribute(item, q.SourceAttribute)
	if !ok {
		return false
	}
	for _, v := range values {
		if q.compare(v) {
			return true
		}
	}
	return false
}

// includes is case-insensitive; equals is exact.
func (q Qualifier) compare(value string) bool {
	switch q.Comparator {
	case QualifierEquals:
		return value == q.Determiner
	case QualifierIncludes:
		return strings.Contains(strings.ToLower(value), strings.ToLower(q.Determiner))
	}
	return false
}

// CountEligible returns how many items satisfy the qualifier.
func (q Qualifier) CountEligible(items []Item) int {
	n := 0
	for _, item := range items {
		if q.Matches(item) {
			n++
		}
	}
	return n
}

func attribute(item Item, name string) ([]string, bool) {
	switch v := item.(type) {
	case room.Reaction:
		switch name {
		case AttrEmoji:
			return []string{v.Emoji}, true
		case AttrUserID:
			return []string{v.UserID}, true
		case AttrUsername:
			return []string{v.Username}, true
		}
	case room.ChatMessage:
		switch name {
		case AttrContent:
			return []string{v.Content}, true
		case AttrUserID:
			return []string{v.UserID}, true
		case AttrUsername:
			return []string{v.Username}, true
		case AttrMentions:
			return v.Mentions, true
		}
	}
	return nil, false
}
