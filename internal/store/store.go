package store

import "context"

// Keys used inside an identity's namespace.
const ProfileKey = "profile"

// SnapshotKey returns the store key for a document URL's snapshot.
func SnapshotKey(url string) string {
	return "snap:" + url
}

// Store is a per-identity key-value store. Operations are atomic at the
// single-key level only: profile and snapshot entries are independent and
// every Put fully replaces the key's prior value.
type Store interface {
	// Get returns the value for key in the identity's namespace.
	// ok is false when the key is absent.
	Get(ctx context.Context, identity, key string) (value []byte, ok bool, err error)

	// Put writes the value for key in the identity's namespace,
	// replacing any prior value.
	Put(ctx context.Context, identity, key string, value []byte) error
}
