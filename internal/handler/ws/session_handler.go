package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"eduportal-backend/internal/domain"
	"eduportal-backend/internal/identity"
	"eduportal-backend/internal/service/chat"
	"eduportal-backend/internal/service/notify"
	"eduportal-backend/pkg/logger"
	"eduportal-backend/pkg/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4096
	sendBufferSize = 256
)

// Client command types
const (
	CommandSelectConversation  = "select_conversation"
	CommandClearSelection      = "clear_selection"
	CommandDismissNotification = "dismiss_notification"
	CommandMarkRead            = "mark_read"
)

// Server event types
const (
	EventConversations = "conversations"
	EventMessages      = "messages"
	EventNotifications = "notifications"
	EventError         = "error"
)

// Command is a client-to-server frame
type Command struct {
	Type           string   `json:"type"`
	ConversationID string   `json:"conversation_id,omitempty"`
	NotificationID string   `json:"notification_id,omitempty"`
	MessageIDs     []string `json:"message_ids,omitempty"`
}

// Event is a server-to-client frame
type Event struct {
	Type           string                 `json:"type"`
	ConversationID string                 `json:"conversation_id,omitempty"`
	Conversations  []*domain.Conversation `json:"conversations,omitempty"`
	Messages       []*domain.Message      `json:"messages,omitempty"`
	Notifications  []*domain.Notification `json:"notifications,omitempty"`
	Error          string                 `json:"error,omitempty"`
	Timestamp      time.Time              `json:"timestamp"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is enforced by the CORS middleware in front
	},
}

// Presence records which users currently hold a live session
type Presence interface {
	SetUserOnline(ctx context.Context, userID uuid.UUID) error
	SetUserOffline(ctx context.Context, userID uuid.UUID) error
	RefreshPresence(ctx context.Context, userID uuid.UUID) error
}

// SessionHandler upgrades authenticated clients to a WebSocket session that
// carries live messages and notification banners
type SessionHandler struct {
	chatService *chat.Service
	presence    Presence
}

// NewSessionHandler creates a new WebSocket session handler
func NewSessionHandler(chatService *chat.Service, presence Presence) *SessionHandler {
	return &SessionHandler{
		chatService: chatService,
		presence:    presence,
	}
}

// session is one user's live connection. It owns a message listener for the
// selected conversation plus the notification fan-out over all conversations.
type session struct {
	conn        *websocket.Conn
	send        chan []byte
	chatService *chat.Service
	presence    Presence

	ctx    context.Context
	cancel context.CancelFunc
	userID string
	// userUUID is zero when the ID is not a UUID; presence is skipped then
	userUUID uuid.UUID

	accumulator *notify.Accumulator
	fanout      *notify.Fanout

	mu                  sync.Mutex
	selected            string
	unsubscribeMessages func()
}

// ServeWS handles GET /v1/ws
func (h *SessionHandler) ServeWS(c *gin.Context) {
	user, ok := identity.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}

	// The request context dies with the HTTP handler, so the session runs on
	// its own context carrying the same identity
	ctx, cancel := context.WithCancel(identity.WithUser(context.Background(), user))

	s := &session{
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		chatService: h.chatService,
		presence:    h.presence,
		ctx:         ctx,
		cancel:      cancel,
		userID:      user.ID,
	}
	if id, err := uuid.Parse(user.ID); err == nil {
		s.userUUID = id
	}

	s.accumulator = notify.NewAccumulator(func(notifications []*domain.Notification) {
		s.sendEvent(&Event{
			Type:          EventNotifications,
			Notifications: notifications,
			Timestamp:     time.Now().UTC(),
		})
	})
	s.fanout = notify.NewFanout(h.chatService, s.accumulator, user.ID)

	metrics.ChatWebSocketConnections.Inc()

	go s.writePump()
	go s.readPump()
	go s.start()
}

// start sends the initial conversation list and wires the fan-out
func (s *session) start() {
	if s.presence != nil && s.userUUID != uuid.Nil {
		if err := s.presence.SetUserOnline(s.ctx, s.userUUID); err != nil {
			logger.Warn("Failed to mark user online",
				zap.String("user_id", s.userID),
				zap.Error(err))
		}
	}

	output, err := s.chatService.GetConversations(s.ctx)
	if err != nil {
		logger.Error("Failed to load conversations for session",
			zap.String("user_id", s.userID),
			zap.Error(err))
		s.sendEvent(&Event{
			Type:      EventError,
			Error:     "failed to load conversations",
			Timestamp: time.Now().UTC(),
		})
		return
	}

	s.sendEvent(&Event{
		Type:          EventConversations,
		Conversations: output.Conversations,
		Timestamp:     time.Now().UTC(),
	})

	if err := s.fanout.WatchConversations(s.ctx, output.Conversations); err != nil {
		logger.Error("Failed to watch conversations",
			zap.String("user_id", s.userID),
			zap.Error(err))
	}
}

func (s *session) handleCommand(cmd *Command) {
	switch cmd.Type {
	case CommandSelectConversation:
		s.selectConversation(cmd.ConversationID)
	case CommandClearSelection:
		s.clearSelection()
	case CommandDismissNotification:
		s.accumulator.Remove(cmd.NotificationID)
	case CommandMarkRead:
		err := s.chatService.MarkMessagesAsRead(s.ctx, &chat.MarkMessagesAsReadInput{
			ConversationID: cmd.ConversationID,
			MessageIDs:     cmd.MessageIDs,
		})
		if err != nil {
			logger.Warn("Failed to mark messages as read",
				zap.String("user_id", s.userID),
				zap.String("conversation_id", cmd.ConversationID),
				zap.Error(err))
		}
	default:
		s.sendEvent(&Event{
			Type:      EventError,
			Error:     "unknown command type",
			Timestamp: time.Now().UTC(),
		})
	}
}

// selectConversation swaps the live message listener onto a new conversation.
// At most one message listener exists per session.
func (s *session) selectConversation(conversationID string) {
	if conversationID == "" {
		s.sendEvent(&Event{
			Type:      EventError,
			Error:     "conversation_id required",
			Timestamp: time.Now().UTC(),
		})
		return
	}

	s.mu.Lock()
	if s.unsubscribeMessages != nil {
		s.unsubscribeMessages()
		s.unsubscribeMessages = nil
	}
	s.selected = conversationID
	s.mu.Unlock()

	s.fanout.SetSelected(conversationID)

	unsubscribe, err := s.chatService.SubscribeToMessages(s.ctx, conversationID, func(messages []*domain.Message) {
		s.sendEvent(&Event{
			Type:           EventMessages,
			ConversationID: conversationID,
			Messages:       messages,
			Timestamp:      time.Now().UTC(),
		})
	})
	if err != nil {
		logger.Warn("Failed to subscribe to messages",
			zap.String("user_id", s.userID),
			zap.String("conversation_id", conversationID),
			zap.Error(err))
		s.sendEvent(&Event{
			Type:           EventError,
			ConversationID: conversationID,
			Error:          "failed to subscribe to conversation",
			Timestamp:      time.Now().UTC(),
		})
		return
	}

	s.mu.Lock()
	// A concurrent select may have replaced us while subscribing
	if s.selected != conversationID {
		s.mu.Unlock()
		unsubscribe()
		return
	}
	s.unsubscribeMessages = unsubscribe
	s.mu.Unlock()
}

func (s *session) clearSelection() {
	s.mu.Lock()
	if s.unsubscribeMessages != nil {
		s.unsubscribeMessages()
		s.unsubscribeMessages = nil
	}
	s.selected = ""
	s.mu.Unlock()

	s.fanout.SetSelected("")
}

// close tears down every listener exactly once
func (s *session) close() {
	if s.presence != nil && s.userUUID != uuid.Nil {
		// Session context is about to be canceled; use a short-lived one
		offCtx, offCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.presence.SetUserOffline(offCtx, s.userUUID); err != nil {
			logger.Warn("Failed to mark user offline",
				zap.String("user_id", s.userID),
				zap.Error(err))
		}
		offCancel()
	}

	s.cancel()
	s.fanout.Close()

	s.mu.Lock()
	if s.unsubscribeMessages != nil {
		s.unsubscribeMessages()
		s.unsubscribeMessages = nil
	}
	s.mu.Unlock()
}

func (s *session) sendEvent(event *Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", zap.Error(err))
		return
	}

	select {
	case s.send <- payload:
	default:
		metrics.ChatWebSocketMessageDroppedTotal.WithLabelValues("slow_client").Inc()
	}
}

func (s *session) readPump() {
	defer func() {
		s.close()
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket read error",
					zap.String("user_id", s.userID),
					zap.Error(err))
			}
			break
		}

		var cmd Command
		if err := json.Unmarshal(payload, &cmd); err != nil {
			s.sendEvent(&Event{
				Type:      EventError,
				Error:     "invalid command format",
				Timestamp: time.Now().UTC(),
			})
			continue
		}

		s.handleCommand(&cmd)
	}
}

func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
		metrics.ChatWebSocketConnections.Dec()
	}()

	for {
		select {
		case payload, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

			// The ping interval doubles as the presence heartbeat
			if s.presence != nil && s.userUUID != uuid.Nil {
				if err := s.presence.RefreshPresence(s.ctx, s.userUUID); err != nil {
					logger.Debug("Failed to refresh presence",
						zap.String("user_id", s.userID),
						zap.Error(err))
				}
			}
		}
	}
}
