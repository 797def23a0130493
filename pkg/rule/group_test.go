package rule

import (
	"testing"

	"github.com/albatrocity/radio-room-server-sub000/pkg/room"
)

func TestResolveGroup(t *testing.T) {
	state := testState()
	track := &room.Ref{Kind: room.KindTrack, Identifier: "t2"}

	tests := []struct {
		group    Group
		ref      *room.Ref
		expected int
	}{
		{GroupListeners, nil, 2},
		{GroupParticipants, nil, 3},
		{GroupAllUsers, nil, 4},
		{GroupAllMessages, nil, 2},
		{GroupReactions, track, 3},
		{GroupReactions, &room.Ref{Kind: room.KindTrack, Identifier: "t1"}, 0},
		{GroupReactions, nil, 0},
		{Group("everyone"), nil, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.group), func(t *testing.T) {
			if got := len(ResolveGroup(state, tt.group, tt.ref)); got != tt.expected {
				t.Errorf("len(ResolveGroup(%s)) = %d, expected %d", tt.group, got, tt.expected)
			}
		})
	}
}

func TestResolveGroup_EmptyRoom(t *testing.T) {
	for _, g := range []Group{GroupListeners, GroupParticipants, GroupAllUsers, GroupAllMessages, GroupReactions} {
		if got := ResolveGroup(&room.State{}, g, &room.Ref{Kind: room.KindTrack, Identifier: "t1"}); len(got) != 0 {
			t.Errorf("ResolveGroup(%s) on empty room returned %d items", g, len(got))
		}
		if got := ResolveGroup(nil, g, nil); len(got) != 0 {
			t.Errorf("ResolveGroup(%s) on nil room returned %d items", g, len(got))
		}
	}
}
