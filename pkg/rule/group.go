package rule

import "github.com/albatrocity/radio-room-server-sub000/pkg/room"

// Item is one member of a source collection or comparison group: a
// room.User, room.ChatMessage or room.Reaction.
type Item interface{}

// Group names a comparison group used as a percent denominator.
type Group string

const (
	GroupListeners    Group = "listeners"
	GroupParticipants Group = "participants"
	GroupAllUsers     Group = "allUsers"
	GroupAllMessages  Group = "allMessages"
	GroupReactions    Group = "reactions"
)

// Valid reports whether g is a known group.
func (g Group) Valid() bool {
	switch g {
	case GroupListeners, GroupParticipants, GroupAllUsers, GroupAllMessages, GroupReactions:
		return true
	}
	return false
}

// ResolveGroup returns the members of a comparison group in the given
// snapshot. ref selects the subject for GroupReactions and is ignored
// otherwise. Unknown groups and empty rooms yield an empty collection.
func ResolveGroup(state *room.State, group Group, ref *room.Ref) []Item {
	switch group {
	case GroupListeners:
		return usersToItems(state.Listeners())
	case GroupParticipants:
		return usersToItems(state.Participants())
	case GroupAllUsers:
		return usersToItems(state.AllUsers())
	case GroupAllMessages:
		return messagesToItems(state.AllMessages())
	case GroupReactions:
		if ref == nil {
			return nil
		}
		return reactionsToItems(state.ReactionsOn(ref.Kind, ref.Identifier))
	}
	return nil
}

func usersToItems(users []room.User) []Item {
	items := make([]Item, 0, len(users))
	for _, u := range users {
		items = append(items, u)
	}
	return items
}

func messagesToItems(messages []room.ChatMessage) []Item {
	items := make([]Item, 0, len(messages))
	for _, m := range messages {
		items = append(items, m)
	}
	return items
}

func reactionsToItems(reactions []room.Reaction) []Item {
	items := make([]Item, 0, len(reactions))
	for _, r := range reactions {
		items = append(items, r)
	}
	return items
}
