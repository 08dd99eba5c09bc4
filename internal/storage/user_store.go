package storage

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const userKeyPrefix = "user:"

// User is the identity projection the matchmaker needs. Account management
// lives elsewhere; this store is only a lookup boundary.
type User struct {
	ID          string
	DisplayName string
}

// UserStore reads user identities from redis hashes.
type UserStore struct {
	client *redis.Client
}

// NewUserStore creates a user store.
func NewUserStore(client *redis.Client) *UserStore {
	return &UserStore{client: client}
}

// GetByID returns a user, or nil when unknown.
func (us *UserStore) GetByID(ctx context.Context, id string) (*User, error) {
	data, err := us.client.HGetAll(ctx, userKeyPrefix+id).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &User{ID: id, DisplayName: data["display_name"]}, nil
}

// Put stores a user. Used by provisioning and tests.
func (us *UserStore) Put(ctx context.Context, u *User) error {
	return us.client.HSet(ctx, userKeyPrefix+u.ID, map[string]any{
		"display_name": u.DisplayName,
	}).Err()
}
