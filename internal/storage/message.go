package storage

import (
	"sync"
	"time"
)

// BoardMessage is the chat message that currently shows a player's game status.
type BoardMessage struct {
	ChatID    int64
	MessageID int
	Key       string // question the message shows
	SentAt    time.Time
}

// MessageStorage remembers the status message per chat so it can be edited in place.
type MessageStorage struct {
	mu       sync.RWMutex
	messages map[int64]BoardMessage
}

func NewMessageStorage() *MessageStorage {
	return &MessageStorage{
		messages: make(map[int64]BoardMessage),
	}
}

func (s *MessageStorage) Get(chatID int64) (BoardMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[chatID]
	return msg, ok
}

func (s *MessageStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, chatID)
}

// UpsertAndGetPrev records a new status message and returns the one it replaces.
func (s *MessageStorage) UpsertAndGetPrev(chatID int64, messageID int, key string) (prev BoardMessage, hadPrev bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, hadPrev = s.messages[chatID]

	s.messages[chatID] = BoardMessage{
		ChatID:    chatID,
		MessageID: messageID,
		Key:       key,
		SentAt:    time.Now(),
	}

	return prev, hadPrev
}
