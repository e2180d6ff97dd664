package identity

import (
	"encoding/json"
	"errors"
	"fmt"
)

// UserKey is the key the current user is stored under
const UserKey = "user"

// ErrNoUser is returned when no user is logged in
var ErrNoUser = errors.New("no user logged in")

// KeyValue is the persisted key-value storage backing the identity store
type KeyValue interface {
	// Get returns the value for key and whether it was present
	Get(key string) (string, bool, error)

	// Set stores value under key
	Set(key, value string) error

	// Remove deletes key; removing a missing key is not an error
	Remove(key string) error
}

// User is the logged in employee
type User struct {
	Type  string `json:"type"`
	Email string `json:"email"`
}

// CurrentUser reads the logged in user from kv
func CurrentUser(kv KeyValue) (User, error) {
	raw, ok, err := kv.Get(UserKey)
	if err != nil {
		return User{}, fmt.Errorf("reading user: %w", err)
	}
	if !ok {
		return User{}, ErrNoUser
	}

	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return User{}, fmt.Errorf("unmarshaling user: %w", err)
	}
	return user, nil
}

// SaveUser stores user as the logged in user
func SaveUser(kv KeyValue, user User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshaling user: %w", err)
	}
	if err := kv.Set(UserKey, string(data)); err != nil {
		return fmt.Errorf("saving user: %w", err)
	}
	return nil
}

// ClearUser logs the current user out
func ClearUser(kv KeyValue) error {
	if err := kv.Remove(UserKey); err != nil {
		return fmt.Errorf("removing user: %w", err)
	}
	return nil
}
