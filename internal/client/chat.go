// ABOUTME: Chat room endpoints consumed by the polling synchronizer
// ABOUTME: Rooms, membership and the message list

package client

import (
	"context"
	"time"
)

// ChatService handles /chat/rooms/
type ChatService service

// Room is a chat room
type Room struct {
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	Members   []RoomMember `json:"members,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// RoomMember is a user's membership in a room
type RoomMember struct {
	ID       int        `json:"id"`
	User     User       `json:"user"`
	JoinedAt time.Time  `json:"joined_at"`
	LastRead *time.Time `json:"last_read"`
}

// Message is a confirmed chat message
type Message struct {
	ID        int       `json:"id"`
	ChatRoom  int       `json:"chat_room"`
	Sender    User      `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Username  string    `json:"username,omitempty"`
}

// Author returns the display name of the sender
func (m *Message) Author() string {
	if m.Username != "" {
		return m.Username
	}
	return m.Sender.Username
}

// Rooms calls GET /chat/rooms/
func (s *ChatService) Rooms(ctx context.Context) ([]Room, error) {
	return getList[Room](ctx, s.c, "/chat/rooms/", nil)
}

// CreateRoom calls POST /chat/rooms/
func (s *ChatService) CreateRoom(ctx context.Context, name string) (*Room, error) {
	var r Room
	if err := s.c.post(ctx, "/chat/rooms/", map[string]string{"name": name}, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Room calls GET /chat/rooms/{id}/
func (s *ChatService) Room(ctx context.Context, id int) (*Room, error) {
	var r Room
	if err := s.c.get(ctx, idPath("/chat/rooms/%d/", id), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Messages calls GET /chat/rooms/{id}/messages/
func (s *ChatService) Messages(ctx context.Context, roomID int) ([]Message, error) {
	return getList[Message](ctx, s.c, idPath("/chat/rooms/%d/messages/", roomID), nil)
}

// Send calls POST /chat/rooms/{id}/messages/ and returns the stored message.
func (s *ChatService) Send(ctx context.Context, roomID int, content string) (*Message, error) {
	var m Message
	if err := s.c.post(ctx, idPath("/chat/rooms/%d/messages/", roomID), map[string]string{"content": content}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Join calls POST /chat/rooms/{id}/join/
func (s *ChatService) Join(ctx context.Context, roomID int) error {
	return s.c.post(ctx, idPath("/chat/rooms/%d/join/", roomID), nil, nil)
}

// Leave calls POST /chat/rooms/{id}/leave/
func (s *ChatService) Leave(ctx context.Context, roomID int) error {
	return s.c.post(ctx, idPath("/chat/rooms/%d/leave/", roomID), nil, nil)
}
