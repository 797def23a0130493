package room

import "time"

// SubjectKind identifies what a reference points at.
type SubjectKind string

const (
	KindTrack   SubjectKind = "track"
	KindMessage SubjectKind = "message"
)

// Latest is the symbolic identifier for the most recent track or message.
const Latest = "latest"

// PresenceStatus is a user's connection state within a room.
type PresenceStatus string

const (
	StatusListening     PresenceStatus = "listening"
	StatusParticipating PresenceStatus = "participating"
	StatusOffline       PresenceStatus = "offline"
)

// Ref points at a track or message, either concretely or via Latest.
// Messages without an ID are identified by their RFC 3339 timestamp; any
// fractional precision names the same message.
type Ref struct {
	Kind       SubjectKind `json:"kind" yaml:"kind"`
	Identifier string      `json:"identifier" yaml:"identifier"`
}

// IsLatest reports whether the reference is symbolic.
func (r Ref) IsLatest() bool {
	return r.Identifier == Latest
}

// Matches reports whether r and other name the same item.
func (r Ref) Matches(other Ref) bool {
	if r.Kind != other.Kind {
		return false
	}
	if r.Identifier == other.Identifier {
		return true
	}
	return r.Kind == KindMessage && sameInstant(r.Identifier, other.Identifier)
}

func sameInstant(a, b string) bool {
	ta, err := time.Parse(time.RFC3339Nano, a)
	if err != nil {
		return false
	}
	tb, err := time.Parse(time.RFC3339Nano, b)
	if err != nil {
		return false
	}
	return ta.Equal(tb)
}

// User is a room member as seen by the host at snapshot time.
type User struct {
	UserID   string         `json:"userId"`
	Username string         `json:"username,omitempty"`
	Status   PresenceStatus `json:"status"`
	IsDJ     bool           `json:"isDj,omitempty"`
	IsAdmin  bool           `json:"isAdmin,omitempty"`
}

// Connected reports whether the user currently holds a session in the room.
func (u User) Connected() bool {
	return u.Status != StatusOffline && u.Status != ""
}

// PlaylistItem is one played (or queued) track.
type PlaylistItem struct {
	TrackID  string    `json:"trackId"`
	Title    string    `json:"title,omitempty"`
	Artist   string    `json:"artist,omitempty"`
	Album    string    `json:"album,omitempty"`
	AddedBy  string    `json:"addedBy,omitempty"`
	PlayedAt time.Time `json:"playedAt,omitempty"`
}

// Reaction is an emoji reaction placed by a user on a track or message.
type Reaction struct {
	Emoji    string `json:"emoji"`
	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`
	ReactTo  Ref    `json:"reactTo"`
}

// ChatMessage is one message in the room's retained window.
type ChatMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Mentions  []string  `json:"mentions,omitempty"`
}

// Key returns the identifier used to reference the message. Hosts that do
// not assign IDs get the timestamp instead.
func (m ChatMessage) Key() string {
	if m.ID != "" {
		return m.ID
	}
	return m.Timestamp.UTC().Format(time.RFC3339Nano)
}

// HasKey reports whether key references the message. Timestamp keys are
// compared as instants.
func (m ChatMessage) HasKey(key string) bool {
	if m.ID != "" {
		return m.ID == key
	}
	return m.Key() == key || sameInstant(m.Key(), key)
}

// State is a read-only snapshot of a room supplied by the host for one
// evaluation. The engine never mutates it.
type State struct {
	RoomID    string                                `json:"roomId"`
	Users     []User                                `json:"users"`
	Playlist  []PlaylistItem                        `json:"playlist"`
	Queue     []PlaylistItem                        `json:"queue,omitempty"`
	Reactions map[SubjectKind]map[string][]Reaction `json:"reactions,omitempty"`
	Messages  []ChatMessage                         `json:"messages"`
}

// Listeners returns users whose presence is listening.
func (s *State) Listeners() []User {
	if s == nil {
		return nil
	}
	var out []User
	for _, u := range s.Users {
		if u.Status == StatusListening {
			out = append(out, u)
		}
	}
	return out
}

// Participants returns every connected user.
func (s *State) Participants() []User {
	if s == nil {
		return nil
	}
	var out []User
	for _, u := range s.Users {
		if u.Connected() {
			out = append(out, u)
		}
	}
	return out
}

// AllUsers returns every user in the snapshot regardless of presence.
func (s *State) AllUsers() []User {
	if s == nil {
		return nil
	}
	return s.Users
}

// AllMessages returns the retained message window.
func (s *State) AllMessages() []ChatMessage {
	if s == nil {
		return nil
	}
	return s.Messages
}

// ReactionsOn returns reactions placed on the given subject. Missing
// entries yield an empty slice.
func (s *State) ReactionsOn(kind SubjectKind, id string) []Reaction {
	if s == nil || s.Reactions == nil {
		return nil
	}
	byID, ok := s.Reactions[kind]
	if !ok {
		return nil
	}
	if reactions, ok := byID[id]; ok || kind != KindMessage {
		return reactions
	}
	for key, reactions := range byID {
		if sameInstant(key, id) {
			return reactions
		}
	}
	return nil
}

// NowPlaying returns the most recently played track.
func (s *State) NowPlaying() (PlaylistItem, bool) {
	if s == nil || len(s.Playlist) == 0 {
		return PlaylistItem{}, false
	}
	return s.Playlist[len(s.Playlist)-1], true
}

// FindTrack looks a track up in the playlist by ID. The latest play wins
// when a track appears more than once.
func (s *State) FindTrack(trackID string) (PlaylistItem, bool) {
	if s == nil {
		return PlaylistItem{}, false
	}
	for i := len(s.Playlist) - 1; i >= 0; i-- {
		if s.Playlist[i].TrackID == trackID {
			return s.Playlist[i], true
		}
	}
	return PlaylistItem{}, false
}

// LatestMessage returns the newest message in the window.
func (s *State) LatestMessage() (ChatMessage, bool) {
	if s == nil || len(s.Messages) == 0 {
		return ChatMessage{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// FindMessage looks a message up by its key.
func (s *State) FindMessage(key string) (ChatMessage, bool) {
	if s == nil {
		return ChatMessage{}, false
	}
	for _, m := range s.Messages {
		if m.HasKey(key) {
			return m, true
		}
	}
	return ChatMessage{}, false
}

// FindUser looks a user up by ID.
func (s *State) FindUser(userID string) (User, bool) {
	if s == nil {
		return User{}, false
	}
	for _, u := range s.Users {
		if u.UserID == userID {
			return u, true
		}
	}
	return User{}, false
}
