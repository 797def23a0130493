package rule

import (
	"testing"

	"github.com/albatrocity/radio-room-server-sub000/pkg/room"
	"github.com/albatrocity/radio-room-server-sub000/pkg/signal"
)

func TestQualifier_Matches(t *testing.T) {
	reaction := room.Reaction{Emoji: ":-1:", UserID: "u1", Username: "Ada"}
	message := room.ChatMessage{Content: "Please SKIP this", UserID: "u2", Username: "Bob", Mentions: []string{"dj-carl"}}

	tests := []struct {
		name      string
		qualifier Qualifier
		item      Item
		expected  bool
	}{
		{"emoji equals", Qualifier{AttrEmoji, QualifierEquals, ":-1:"}, reaction, true},
		{"emoji differs", Qualifier{AttrEmoji, QualifierEquals, ":+1:"}, reaction, false},
		{"reaction user", Qualifier{AttrUserID, QualifierEquals, "u1"}, reaction, true},
		{"reaction username includes", Qualifier{AttrUsername, QualifierIncludes, "ad"}, reaction, true},
		{"content includes ignores case", Qualifier{AttrContent, QualifierIncludes, "skip"}, message, true},
		{"content equals is exact", Qualifier{AttrContent, QualifierEquals, "please skip this"}, message, false},
		{"mentions equals", Qualifier{AttrMentions, QualifierEquals, "dj-carl"}, message, true},
		{"mentions includes", Qualifier{AttrMentions, QualifierIncludes, "carl"}, message, true},
		{"mentions missing", Qualifier{AttrMentions, QualifierEquals, "nobody"}, message, false},
		{"message attribute on reaction", Qualifier{AttrContent, QualifierIncludes, "x"}, reaction, false},
		{"unknown attribute", Qualifier{"color", QualifierEquals, "red"}, reaction, false},
		{"unknown comparator", Qualifier{AttrEmoji, "startsWith", ":"}, reaction, false},
		{"unexpected item type", Qualifier{AttrUserID, QualifierEquals, "u1"}, room.User{UserID: "u1"}, false},
		{"nil item", Qualifier{AttrUserID, QualifierEquals, "u1"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.qualifier.Matches(tt.item); got != tt.expected {
				t.Errorf("Matches() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestQualifier_CountEligible(t *testing.T) {
	q := Qualifier{AttrEmoji, QualifierEquals, ":-1:"}
	items := []Item{
		room.Reaction{Emoji: ":-1:"},
		room.Reaction{Emoji: ":+1:"},
		room.Reaction{Emoji: ":-1:"},
		"garbage",
	}

	if got := q.CountEligible(items); got != 2 {
		t.Errorf("CountEligible() = %d, expected 2", got)
	}
	if got := q.CountEligible(nil); got != 0 {
		t.Errorf("CountEligible(nil) = %d, expected 0", got)
	}
}

func TestQualifier_Validate(t *testing.T) {
	tests := []struct {
		name      string
		on        signal.Kind
		qualifier Qualifier
		expectErr bool
	}{
		{"reaction emoji", signal.KindReaction, Qualifier{AttrEmoji, QualifierEquals, ":-1:"}, false},
		{"message content", signal.KindMessage, Qualifier{AttrContent, QualifierIncludes, "skip"}, false},
		{"message mentions", signal.KindMessage, Qualifier{AttrMentions, QualifierEquals, "u1"}, false},
		{"emoji on message rule", signal.KindMessage, Qualifier{AttrEmoji, QualifierEquals, ":-1:"}, true},
		{"content on reaction rule", signal.KindReaction, Qualifier{AttrContent, QualifierEquals, "x"}, true},
		{"missing attribute", signal.KindReaction, Qualifier{"", QualifierEquals, "x"}, true},
		{"bad comparator", signal.KindReaction, Qualifier{AttrEmoji, "like", "x"}, true},
		{"empty determiner", signal.KindReaction, Qualifier{AttrEmoji, QualifierEquals, ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.qualifier.Validate(tt.on)
			if (err != nil) != tt.expectErr {
				t.Errorf("Validate() error = %v, expectErr %v", err, tt.expectErr)
			}
		})
	}
}
