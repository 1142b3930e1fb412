package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/set-night/influnest/internal/domain"
	"github.com/set-night/influnest/internal/repository"
)

type UserService struct {
	queries *repository.Queries
}

func NewUserService(queries *repository.Queries) *UserService {
	return &UserService{queries: queries}
}

// FindOrCreate loads the user for telegramID, creating it on first contact.
// The bool result reports whether the user was created.
func (s *UserService) FindOrCreate(ctx context.Context, telegramID int64, firstName, username string, isAdmin bool) (*domain.User, bool, error) {
	row, err := s.queries.GetUserByTelegramID(ctx, telegramID)
	if err == nil {
		user := rowToUser(row)
		if user.FirstName != firstName || user.Username != username {
			if err := s.UpdateInfo(ctx, user.ID, firstName, username); err == nil {
				user.FirstName = firstName
				user.Username = username
			}
		}
		return user, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("get user: %w", err)
	}

	row, err = s.queries.CreateUser(ctx, repository.CreateUserParams{
		TelegramID: telegramID,
		FirstName:  firstName,
		Username:   username,
		IsAdmin:    isAdmin,
	})
	if err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}

	return rowToUser(row), true, nil
}

func (s *UserService) UpdateInfo(ctx context.Context, userID int64, firstName, username string) error {
	return s.queries.UpdateUserInfo(ctx, repository.UpdateUserInfoParams{
		ID:        userID,
		FirstName: firstName,
		Username:  username,
	})
}

// SetWalletAddress stores or clears (nil) the linked wallet address.
func (s *UserService) SetWalletAddress(ctx context.Context, userID int64, address *string) error {
	return s.queries.SetWalletAddress(ctx, repository.SetWalletAddressParams{
		ID:            userID,
		WalletAddress: address,
	})
}

func (s *UserService) CountConnectedWallets(ctx context.Context) (int64, error) {
	return s.queries.CountConnectedWallets(ctx)
}

// rowToUser converts a repository row to a domain.User.
func rowToUser(row repository.User) *domain.User {
	return &domain.User{
		ID:                row.ID,
		TelegramID:        row.TelegramID,
		IsAdmin:           row.IsAdmin,
		FirstName:         row.FirstName,
		Username:          row.Username,
		WalletAddress:     row.WalletAddress,
		WalletConnectedAt: pgTimestamptzToTimePtr(row.WalletConnectedAt),
		CreatedAt:         pgTimestamptzToTime(row.CreatedAt),
		UpdatedAt:         pgTimestamptzToTime(row.UpdatedAt),
	}
}
