package transcript

import (
	"encoding/json"
	"log"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// WelcomeText seeds every fresh transcript.
const WelcomeText = "Hi! I'm the portfolio assistant. How can I help you today?"

// ApologyText replaces the assistant reply when a turn fails, so the visitor
// sees the failure inside the conversation instead of an error state.
const ApologyText = "Sorry, I ran into an error. Please try again later."

type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Storage is the persistence collaborator. Implementations are best-effort:
// a missing backend degrades the transcript to in-memory-only.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Store holds one session's ordered, append-only transcript.
type Store struct {
	storage Storage
	key     string
	msgs    []Message
}

// Open restores the transcript persisted under key. A missing, empty or
// corrupt value yields a fresh single welcome message, which is not persisted
// until the first real turn so an untouched session leaves no record.
func Open(storage Storage, key string) *Store {
	s := &Store{storage: storage, key: key}

	if raw, ok := storage.Get(key); ok && raw != "" {
		var msgs []Message
		if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
			log.Printf("⚠️ discarding corrupt transcript for %s: %v", key, err)
		} else if len(msgs) > 0 {
			s.msgs = msgs
			return s
		}
	}

	s.msgs = []Message{welcome()}
	return s
}

func welcome() Message {
	return Message{Role: RoleAssistant, Content: WelcomeText, Timestamp: time.Now()}
}

// Messages returns a copy of the transcript in display order.
func (s *Store) Messages() []Message {
	out := make([]Message, len(s.msgs))
	copy(out, s.msgs)
	return out
}

// Turn appends a completed user/assistant exchange and persists the full
// transcript.
func (s *Store) Turn(user, assistant string) {
	now := time.Now()
	s.msgs = append(s.msgs,
		Message{Role: RoleUser, Content: user, Timestamp: now},
		Message{Role: RoleAssistant, Content: assistant, Timestamp: now},
	)
	s.persist()
}

// FailedTurn records a turn whose completion failed as an apologetic
// assistant message. Persisted like any other turn.
func (s *Store) FailedTurn(user string) {
	s.Turn(user, ApologyText)
}

// Clear replaces the transcript with a fresh welcome message and persists it.
func (s *Store) Clear() {
	s.msgs = []Message{welcome()}
	s.persist()
}

func (s *Store) persist() {
	raw, err := json.Marshal(s.msgs)
	if err != nil {
		log.Printf("⚠️ failed to encode transcript for %s: %v", s.key, err)
		return
	}
	s.storage.Set(s.key, string(raw))
}
