package service

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// userCache memoizes user lookups for one request. Create one per call and
// drop it when the call returns.
type userCache struct {
	store storage.Reader
	users map[string]*models.User
}

func newUserCache(store storage.Reader) *userCache {
	return &userCache{store: store, users: make(map[string]*models.User)}
}

// load fetches the given users in one batch, skipping those already cached.
func (c *userCache) load(ctx context.Context, ids []string) error {
	var missing []string
	for _, id := range ids {
		if _, ok := c.users[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	found, err := c.store.GetUsersByIDs(ctx, missing)
	if err != nil {
		return err
	}
	for id, u := range found {
		c.users[id] = u
	}
	return nil
}

// get returns the user, looking it up on a miss.
func (c *userCache) get(ctx context.Context, id string) (*models.User, error) {
	if u, ok := c.users[id]; ok {
		return u, nil
	}
	u, err := c.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	c.users[id] = u
	return u, nil
}

// name returns the display name of a loaded user, or "" when unknown.
func (c *userCache) name(id string) string {
	if u, ok := c.users[id]; ok {
		return u.Name
	}
	return ""
}
