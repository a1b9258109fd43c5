// services/users.go
package services

import (
	"context"

	"earn-chain/store"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

type UserService struct {
	store *store.Store
	clock clockwork.Clock
}

func NewUserService(st *store.Store, clock clockwork.Clock) *UserService {
	return &UserService{store: st, clock: clock}
}

// Register creates the user on first sight. Registering twice is not an error.
func (s *UserService) Register(ctx context.Context, userID int64) (bool, error) {
	if userID <= 0 {
		return false, invalid("userId must be a positive integer")
	}

	created, err := s.store.InsertUserIfAbsent(ctx, userID, s.clock.Now().Unix())
	if err != nil {
		return false, err
	}
	if created {
		logrus.WithField("user_id", userID).Info("👤 New user registered")
	}
	return created, nil
}
