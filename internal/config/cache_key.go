package config

import (
	"fmt"
	"strings"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// CodeRequestKey returns the throttle counter key for code requests by an email address
func (r *CacheKeyStruct) CodeRequestKey(email string) string {
	return fmt.Sprintf("codes:request:%s", strings.ToLower(email))
}

// RevokedTokenKey returns the denylist key for a revoked token ID
func (r *CacheKeyStruct) RevokedTokenKey(jti string) string {
	return fmt.Sprintf("auth:revoked:%s", jti)
}

// ActivityChannel returns the Redis PubSub channel carrying new activity log entries
func (r *CacheKeyStruct) ActivityChannel() string {
	return "activity:feed"
}

var CacheKey = NewCacheKeyStruct()
