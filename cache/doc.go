// Package cache persists resolved answers keyed by normalized query.
//
// Keys are namespaced by the corpus fingerprint, so a corpus or artifact
// change strands old entries instead of serving stale answers. Entries
// carry an explicit expiry and are checked on read: an expired entry is
// deleted and reported as a miss even if the store's own TTL machinery
// has not reclaimed it yet.
package cache
