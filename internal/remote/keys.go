package remote

const (
	// keyPrefixBookmark is the prefix for individual bookmark records.
	keyPrefixBookmark = "linkhaven:bookmark:"
	// keyPrefixOwner is the prefix for per-owner keys.
	keyPrefixOwner = "linkhaven:owner:"
)

// BookmarkKey returns the Redis key holding one bookmark record.
func BookmarkKey(id string) string {
	return keyPrefixBookmark + id
}

// OwnerSetKey returns the Redis key of the set of an owner's
// bookmark ids.
func OwnerSetKey(owner string) string {
	return keyPrefixOwner + owner + ":bookmarks"
}

// PrivateHashKey returns the Redis key holding the owner's shared
// private-partition password hash.
func PrivateHashKey(owner string) string {
	return keyPrefixOwner + owner + ":private_hash"
}
