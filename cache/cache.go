package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long a cached answer stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// AnswerCache stores resolved answers keyed by corpus fingerprint and
// normalized query. A Get miss is reported through the bool, not the
// error.
type AnswerCache interface {
	Get(ctx context.Context, fingerprint, query string) (Record, bool, error)
	Set(ctx context.Context, fingerprint, query string, record Record) error
	Delete(ctx context.Context, fingerprint, query string) error
	Close() error
}

// makeKey builds the namespaced store key for a query.
func makeKey(fingerprint, query string) []byte {
	buf := make([]byte, 0, len(answerPrefix)+1+len(fingerprint)+1+len(query))
	buf = append(buf, answerPrefix...)
	buf = append(buf, ':')
	buf = append(buf, fingerprint...)
	buf = append(buf, ':')
	buf = append(buf, query...)
	return buf
}

const answerPrefix = "ansrec"
