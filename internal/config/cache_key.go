package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key for a user's login session JTI.
func (r *CacheKeyStruct) UserSessionKey(userID string) string {
	return fmt.Sprintf("login:%s", userID)
}

// RateLimitKey returns the cache key for a fixed-window rate-limit counter.
func (r *CacheKeyStruct) RateLimitKey(scope, userID string) string {
	return fmt.Sprintf("ratelimit:%s:%s", scope, userID)
}

// ProctorChannel returns the Redis PubSub channel for live proctor events of a test.
func (r *CacheKeyStruct) ProctorChannel(testID string) string {
	return fmt.Sprintf("test:%s:proctor", testID)
}

var CacheKey = NewCacheKeyStruct()
