package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/healthmate-app/gomoku-backend/internal/apperror"
	"github.com/healthmate-app/gomoku-backend/internal/entity"
	"github.com/healthmate-app/gomoku-backend/internal/pkg"
	"github.com/healthmate-app/gomoku-backend/internal/repository"
)

// IdentityService - resolves the calling session to a Player record,
// minting a fresh session when the caller presents none.
type IdentityService interface {
	ResolveCaller(ctx context.Context, sessionID string) (*entity.Player, error)
}

type identityService struct {
	playerRepo repository.PlayerRepository
}

func NewIdentityService(playerRepo repository.PlayerRepository) IdentityService {
	return &identityService{
		playerRepo: playerRepo,
	}
}

func (that *identityService) ResolveCaller(ctx context.Context, sessionID string) (*entity.Player, error) {
	if sessionID == "" {
		player, err := that.createPlayer(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperror.ErrAuth, err)
		}

		return player, nil
	}

	player, err := that.playerRepo.GetByID(ctx, sessionID)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		player = &entity.Player{ID: sessionID}
		if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
			return nil, fmt.Errorf("failed to create player: %w", err)
		}

		return player, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	return player, nil
}

func (that *identityService) createPlayer(ctx context.Context) (*entity.Player, error) {
	sessionID, err := pkg.GenerateSessionID()
	if err != nil {
		return nil, err
	}

	player := &entity.Player{ID: sessionID}
	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}
