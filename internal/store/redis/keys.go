package redis

const (
	// KeyPrefix namespaces every key written by sip.
	KeyPrefix = "sip:kv:"
)

// Key returns the Redis key holding the value of a KV key.
func Key(key string) string {
	return KeyPrefix + key
}
