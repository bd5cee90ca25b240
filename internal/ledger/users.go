package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/financery/internal/models"
	"github.com/mmynk/financery/internal/storage"
)

// CreateUser registers a user with a zero balance.
func (s *Service) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	name, email, err := validateUser(name, email)
	if err != nil {
		return nil, failed("CreateUser", err)
	}

	user := models.NewUser(name, email)
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, failed("CreateUser", duplicateErr(err, email))
	}

	slog.Info("User created", "user_id", user.ID)
	return user, nil
}

// GetUser returns one user.
func (s *Service) GetUser(ctx context.Context, userID string) (*models.User, error) {
	if err := validateID("user", userID); err != nil {
		return nil, failed("GetUser", err)
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, failed("GetUser", lookupErr(err, "user", userID))
	}
	return user, nil
}

// ListUsers returns every user.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, failed("ListUsers", err)
	}
	return users, nil
}

// UpdateUser changes a user's name and email. The balance is left alone.
func (s *Service) UpdateUser(ctx context.Context, userID, name, email string) (*models.User, error) {
	if err := validateID("user", userID); err != nil {
		return nil, failed("UpdateUser", err)
	}
	name, email, err := validateUser(name, email)
	if err != nil {
		return nil, failed("UpdateUser", err)
	}

	var user *models.User
	err = s.store.InTx(ctx, func(tx storage.Store) error {
		var err error
		if user, err = tx.GetUser(ctx, userID); err != nil {
			return lookupErr(err, "user", userID)
		}
		user.Name = name
		user.Email = email
		return duplicateErr(tx.UpdateUser(ctx, user), email)
	})
	if err != nil {
		return nil, failed("UpdateUser", err)
	}
	return user, nil
}

// DeleteUser removes the user with its bills, transactions and tags, and
// drops its cached transaction list.
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	if err := validateID("user", userID); err != nil {
		return failed("DeleteUser", err)
	}
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return failed("DeleteUser", lookupErr(err, "user", userID))
	}

	s.cache.Invalidate(userID)
	slog.Info("User deleted", "user_id", userID)
	return nil
}

func validateUser(name, email string) (string, string, error) {
	name, err := validateName("name", name)
	if err != nil {
		return "", "", err
	}
	email, err = validateName("email", email)
	if err != nil {
		return "", "", err
	}
	return name, email, nil
}

func duplicateErr(err error, email string) error {
	if errors.Is(err, storage.ErrDuplicate) {
		return fmt.Errorf("%w: user with email %s", ErrAlreadyExists, email)
	}
	return err
}
