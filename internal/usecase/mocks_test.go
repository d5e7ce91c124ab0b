package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

type mockPlayerRepo struct {
	mock.Mock
}

func newMockPlayerRepo() *mockPlayerRepo {
	return &mockPlayerRepo{}
}

func (that *mockPlayerRepo) CreateOrUpdate(ctx context.Context, player *entity.Player) error {
	return that.Called(ctx, player).Error(0)
}

func (that *mockPlayerRepo) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	args := that.Called(ctx, id)

	player, _ := args.Get(0).(*entity.Player)

	return player, args.Error(1)
}

type mockGameRepo struct {
	mock.Mock
}

func newMockGameRepo() *mockGameRepo {
	return &mockGameRepo{}
}

func (that *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	return that.Called(ctx, game).Error(0)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)

	game, _ := args.Get(0).(*entity.Game)

	return game, args.Error(1)
}

func (that *mockGameRepo) DeleteByID(ctx context.Context, id string) error {
	return that.Called(ctx, id).Error(0)
}

func (that *mockGameRepo) PushWaitingPublic(ctx context.Context, id string) error {
	return that.Called(ctx, id).Error(0)
}

func (that *mockGameRepo) PopWaitingPublic(ctx context.Context) (string, error) {
	args := that.Called(ctx)
	return args.String(0), args.Error(1)
}
