// ABOUTME: Chat commands: rooms, history, send, join, leave and a live tail
// ABOUTME: tail polls the room with the same synchronizer the console uses

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/chat"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
)

var chatLimit int

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat rooms",
}

var chatRoomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List chat rooms",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runChatRooms)
	},
}

var chatMessagesCmd = &cobra.Command{
	Use:   "messages ROOM_ID",
	Short: "Show recent messages in a room",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runChatMessages(ctx, e, args[0], w)
		})
	},
}

var chatSendCmd = &cobra.Command{
	Use:   "send ROOM_ID MESSAGE...",
	Short: "Post a message",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runChatSend(ctx, e, args[0], strings.Join(args[1:], " "), w)
		})
	},
}

var chatJoinCmd = &cobra.Command{
	Use:   "join ROOM_ID",
	Short: "Join a room",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runChatMembership(ctx, e, args[0], true, w)
		})
	},
}

var chatLeaveCmd = &cobra.Command{
	Use:   "leave ROOM_ID",
	Short: "Leave a room",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runChatMembership(ctx, e, args[0], false, w)
		})
	},
}

var chatTailCmd = &cobra.Command{
	Use:   "tail ROOM_ID",
	Short: "Follow a room until interrupted",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runChatTail(ctx, e, args[0], w)
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.AddCommand(chatRoomsCmd, chatMessagesCmd, chatSendCmd, chatJoinCmd, chatLeaveCmd, chatTailCmd)

	chatMessagesCmd.Flags().IntVarP(&chatLimit, "limit", "n", 20, "Show at most this many messages (0 for all)")
}

func runChatRooms(ctx context.Context, e *env, w io.Writer) int {
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	rooms, err := e.client.Chat.Rooms(ctx)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, rooms, func() {
		rows := make([][]string, 0, len(rooms))
		for _, r := range rooms {
			rows = append(rows, []string{strconv.Itoa(r.ID), r.Name, strconv.Itoa(len(r.Members))})
		}
		printTable(w, []string{"ID", "Name", "Members"}, rows)
	})
	return exitOK
}

func formatMessage(m client.Message) string {
	return fmt.Sprintf("[%s] %s: %s", m.Timestamp.Local().Format("15:04"), m.Author(), m.Content)
}

func runChatMessages(ctx context.Context, e *env, arg string, w io.Writer) int {
	id, err := parseID(arg)
	if err != nil {
		return e.fail(w, err)
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	msgs, err := e.client.Chat.Messages(ctx, id)
	if err != nil {
		return e.fail(w, err)
	}
	if chatLimit > 0 && len(msgs) > chatLimit {
		msgs = msgs[len(msgs)-chatLimit:]
	}
	emit(w, msgs, func() {
		if len(msgs) == 0 {
			fmt.Fprintln(w, "No messages yet.")
			return
		}
		for _, m := range msgs {
			fmt.Fprintln(w, formatMessage(m))
		}
	})
	return exitOK
}

func runChatSend(ctx context.Context, e *env, arg, text string, w io.Writer) int {
	id, err := parseID(arg)
	if err != nil {
		return e.fail(w, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return e.fail(w, errors.New("message is empty"))
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	msg, err := e.client.Chat.Send(ctx, id, text)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, msg, func() {
		fmt.Fprintf(w, "Sent message #%d\n", msg.ID)
	})
	return exitOK
}

func runChatMembership(ctx context.Context, e *env, arg string, join bool, w io.Writer) int {
	id, err := parseID(arg)
	if err != nil {
		return e.fail(w, err)
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	if join {
		err = e.client.Chat.Join(ctx, id)
	} else {
		err = e.client.Chat.Leave(ctx, id)
	}
	if err != nil {
		return e.fail(w, err)
	}
	verb := "Left"
	if join {
		verb = "Joined"
	}
	fmt.Fprintf(w, "%s room #%d\n", verb, id)
	return exitOK
}

// runChatTail prints confirmed messages as they arrive. It returns when ctx
// is cancelled or the backend rejects the session.
func runChatTail(ctx context.Context, e *env, arg string, w io.Writer) int {
	id, err := parseID(arg)
	if err != nil {
		return e.fail(w, err)
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}

	room := chat.NewRoom(e.client.Chat, id, e.sess.Username(), chat.WithInterval(e.cfg.PollInterval))
	room.Start(ctx)
	defer room.Stop()

	lastID := 0
	var lastErr error
	for {
		select {
		case <-ctx.Done():
			return exitOK
		case <-room.Updates():
		}
		view := room.Snapshot()
		if view.Err != nil && !errors.Is(view.Err, lastErr) {
			if errors.Is(view.Err, chat.ErrReauthenticate) {
				return e.fail(w, client.ErrUnauthorized)
			}
			fmt.Fprintf(w, "! %v\n", view.Err)
		}
		lastErr = view.Err
		for _, m := range view.Messages {
			if m.Pending || m.ID <= lastID {
				continue
			}
			lastID = m.ID
			if IsJSONOutput() {
				printJSON(w, m)
				continue
			}
			fmt.Fprintf(w, "[%s] %s: %s\n", m.Timestamp.Local().Format("15:04"), m.Author, m.Content)
		}
	}
}
