package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/healthmate-app/gomoku-backend/internal/apperror"
	"github.com/healthmate-app/gomoku-backend/internal/entity"
)

func (that *Server) handleConnect(ctx context.Context, sess *session, msg *Message) error {
	var payload RequestPayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	player, err := that.identity.ResolveCaller(ctx, payload.PlayerID)
	if err != nil {
		return err
	}

	sess.playerID = player.ID

	if payload.PlayerID == player.ID {
		that.logger.Info("player connected", "playerID", player.ID)
	} else {
		that.logger.Info("registered new player", "playerID", player.ID)
	}

	// reconnecting players resume watching their current room
	if player.RoomID != "" {
		that.watchRoom(ctx, sess, player.RoomID)
	}

	return that.sendMessage(sess, msg.Action, ResponsePayload{Player: player})
}

func (that *Server) handleCreateRoom(ctx context.Context, sess *session, msg *Message) error {
	if sess.playerID == "" {
		return apperror.ErrAuth
	}

	room, err := that.rooms.Create(ctx, sess.playerID)
	if err != nil {
		return err
	}

	that.watchRoom(ctx, sess, room.ID)

	return that.sendMessage(sess, msg.Action, ResponsePayload{Room: room})
}

func (that *Server) handleJoinRoom(ctx context.Context, sess *session, msg *Message) error {
	if sess.playerID == "" {
		return apperror.ErrAuth
	}

	var payload RequestPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, err := that.rooms.Join(ctx, payload.RoomCode, sess.playerID)
	if err != nil {
		return err
	}

	that.watchRoom(ctx, sess, room.ID)

	return that.sendMessage(sess, msg.Action, ResponsePayload{Room: room})
}

func (that *Server) handleLeaveRoom(ctx context.Context, sess *session, msg *Message) error {
	if sess.playerID == "" {
		return apperror.ErrAuth
	}

	var payload RequestPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if err := that.rooms.Leave(ctx, payload.RoomID, sess.playerID); err != nil {
		return err
	}

	sess.stopWatching()

	return that.sendMessage(sess, msg.Action, ResponsePayload{})
}

func (that *Server) handleMove(ctx context.Context, sess *session, msg *Message) error {
	if sess.playerID == "" {
		return apperror.ErrAuth
	}

	var payload RequestPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	// a caller may only move as the side it actually occupies
	room, err := that.gameplay.GetRoom(ctx, payload.RoomID)
	if err != nil {
		return err
	}

	player, err := callerRole(room.HostID, room.GuestID, sess.playerID)
	if err != nil {
		return err
	}

	game, err := that.gameplay.MakeMove(ctx, payload.RoomID, payload.Row, payload.Col, player)
	if err != nil {
		return err
	}

	return that.sendMessage(sess, msg.Action, ResponsePayload{Game: game})
}

func callerRole(hostID, guestID, callerID string) (string, error) {
	switch callerID {
	case hostID:
		return entity.PlayerHost, nil
	case guestID:
		return entity.PlayerGuest, nil
	default:
		return "", apperror.ErrNotInRoom
	}
}
