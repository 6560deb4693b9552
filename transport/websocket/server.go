package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/healthmate-app/gomoku-backend/internal/entity"
)

type roomService interface {
	Create(ctx context.Context, callerID string) (*entity.Room, error)
	Join(ctx context.Context, roomCode, callerID string) (*entity.Room, error)
	Leave(ctx context.Context, roomID, callerID string) error
}

type gameplayService interface {
	MakeMove(ctx context.Context, roomID string, row, col int, player string) (*entity.GameState, error)
	GetRoom(ctx context.Context, roomID string) (*entity.Room, error)
}

type identityService interface {
	ResolveCaller(ctx context.Context, sessionID string) (*entity.Player, error)
}

type roomNotifier interface {
	Subscribe(ctx context.Context, roomID string) (<-chan *entity.Room, error)
}

type handlerFunc func(ctx context.Context, sess *session, msg *Message) error

type Server struct {
	logger *slog.Logger

	upgrader websocket.Upgrader

	rooms    roomService
	gameplay gameplayService
	identity identityService
	notifier roomNotifier

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, rooms roomService, gameplay gameplayService, identity identityService, notifier roomNotifier) *Server {
	server := &Server{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		rooms:    rooms,
		gameplay: gameplay,
		identity: identity,
		notifier: notifier,
		handlers: make(map[string]handlerFunc),
	}

	server.handlers["connect"] = server.handleConnect
	server.handlers["room:create"] = server.handleCreateRoom
	server.handlers["room:join"] = server.handleJoinRoom
	server.handlers["room:leave"] = server.handleLeaveRoom
	server.handlers["game:move"] = server.handleMove

	return server
}

// Start - starts the WebSocket server and shuts it down when ctx ends.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.handleConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down websocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// session holds per-connection state: the resolved caller and the
// subscription to the room the caller is currently watching.
type session struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	playerID string

	watchMu       sync.Mutex
	stopWatch     context.CancelFunc
	watchedRoomID string
}

func (that *Server) handleConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleConnection")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	sess := &session{conn: conn}

	defer func() {
		sess.stopWatching()

		if err := conn.Close(); err != nil {
			log.Error("failed to close connection", "error", err)
		}
	}()

	log.Info("websocket connection established")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("connection closed unexpectedly", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			that.sendError(sess, message.Action, fmt.Errorf("unknown action %q", message.Action))
			continue
		}

		if err = handler(ctx, sess, &message); err != nil {
			log.Info("request rejected", "action", message.Action, "error", err)
			that.sendError(sess, message.Action, err)
		}
	}
}

func (that *Server) sendMessage(sess *session, action string, payload ResponsePayload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	response := Message{
		Action:  action,
		Payload: payloadJSON,
	}

	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()

	if err = sess.conn.WriteJSON(response); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// sendError - every precondition violation is an ordinary reply, shown
// inline near the board by the client, never a dropped connection.
func (that *Server) sendError(sess *session, action string, cause error) {
	if err := that.sendMessage(sess, action, ResponsePayload{Error: cause.Error()}); err != nil {
		that.logger.Error("failed to send error response", "action", action, "error", err)
	}
}

// watchRoom - forwards notifier updates for roomID to the client until the
// session watches another room or the connection ends.
func (that *Server) watchRoom(ctx context.Context, sess *session, roomID string) {
	log := that.logger.With("method", "watchRoom", "roomID", roomID)

	sess.watchMu.Lock()
	defer sess.watchMu.Unlock()

	if sess.watchedRoomID == roomID {
		return
	}

	if sess.stopWatch != nil {
		sess.stopWatch()
	}

	watchCtx, cancel := context.WithCancel(ctx)
	sess.stopWatch = cancel
	sess.watchedRoomID = roomID

	updates, err := that.notifier.Subscribe(watchCtx, roomID)
	if err != nil {
		log.Error("failed to subscribe to room updates", "error", err)
		cancel()
		sess.stopWatch = nil
		sess.watchedRoomID = ""
		return
	}

	go func() {
		for room := range updates {
			if err := that.sendMessage(sess, "room:update", ResponsePayload{Room: room}); err != nil {
				log.Error("failed to push room update", "error", err)
				return
			}
		}
	}()
}

func (that *session) stopWatching() {
	that.watchMu.Lock()
	defer that.watchMu.Unlock()

	if that.stopWatch != nil {
		that.stopWatch()
		that.stopWatch = nil
		that.watchedRoomID = ""
	}
}
