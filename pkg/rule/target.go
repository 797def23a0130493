package rule

import (
	"github.com/albatrocity/radio-room-server-sub000/pkg/room"
	"github.com/albatrocity/radio-room-server-sub000/pkg/signal"
)

// ResolveRef replaces a symbolic reference with the concrete identifier it
// names in the snapshot. Tracks resolve against the playlist and messages
// against the message window; "latest" means the last entry. The second
// return is false when nothing in the snapshot matches.
func ResolveRef(state *room.State, ref room.Ref) (room.Ref, bool) {
	switch ref.Kind {
	case room.KindTrack:
		if ref.IsLatest() {
			item, ok := state.NowPlaying()
			return room.Ref{Kind: room.KindTrack, Identifier: item.TrackID}, ok
		}
		item, ok := state.FindTrack(ref.Identifier)
		return room.Ref{Kind: room.KindTrack, Identifier: item.TrackID}, ok
	case room.KindMessage:
		if ref.IsLatest() {
			msg, ok := state.LatestMessage()
			return room.Ref{Kind: room.KindMessage, Identifier: msg.Key()}, ok
		}
		msg, ok := state.FindMessage(ref.Identifier)
		return room.Ref{Kind: room.KindMessage, Identifier: msg.Key()}, ok
	}
	return room.Ref{}, false
}

// Capture returns a copy of the rule with its target, and for reaction rules
// its subject, resolved to concrete identifiers. A rule without a target
// captures with no target. The second return is false when the rule does
// not apply to this snapshot.
//
// Message rule subjects are kept as declared: their source collection is the
// whole message window, so the subject does not select anything.
func Capture(r TriggerRule, state *room.State) (CapturedRule, bool) {
	captured := CapturedRule{TriggerRule: r}

	if r.On == signal.KindReaction {
		subject, ok := ResolveRef(state, r.Subject)
		if !ok {
			return CapturedRule{}, false
		}
		captured.Subject = subject
	}

	if r.Target != nil {
		target, ok := ResolveRef(state, *r.Target)
		if !ok {
			return CapturedRule{}, false
		}
		captured.Target = &target
	}

	return captured, true
}
