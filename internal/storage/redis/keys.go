package redis

import (
	"fmt"

	"github.com/kinetikids/motionhub/internal/model"
)

// Key prefix for all hub data
const keyPrefix = "motionhub"

// profileKey returns the Redis key for a Profile
func profileKey(id model.UserID) string {
	return fmt.Sprintf("%s:profile:%s", keyPrefix, id)
}

// profileIndexKey returns the Redis key for the SET of all profile ids
func profileIndexKey() string {
	return fmt.Sprintf("%s:idx:profiles", keyPrefix)
}

// profileChannel returns the pub/sub channel carrying profile snapshots
func profileChannel(id model.UserID) string {
	return fmt.Sprintf("%s:watch:profile:%s", keyPrefix, id)
}

// credentialsKey returns the Redis key for a Credentials record
func credentialsKey(id model.UserID) string {
	return fmt.Sprintf("%s:credentials:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}
