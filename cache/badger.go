package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// BadgerCache is an AnswerCache backed by BadgerDB. Entries get a store
// TTL on write; reads additionally check the record's own expiry and
// delete anything past it.
type BadgerCache struct {
	db     *badger.DB
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

var _ AnswerCache = (*BadgerCache)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Option configures a BadgerCache.
type Option func(*BadgerCache) error

// WithTTL sets the answer lifetime.
// Default is DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *BadgerCache) error {
		if ttl <= 0 {
			return errors.New("ttl must be positive")
		}
		c.ttl = ttl
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *BadgerCache) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithClock overrides the time source. Used in tests to force expiry.
func WithClock(now func() time.Time) Option {
	return func(c *BadgerCache) error {
		if now == nil {
			now = time.Now
		}
		c.now = now
		return nil
	}
}

// OpenBadgerCache opens a cache store at the specified path.
// Creates the directory if it doesn't exist. An empty path opens an
// in-memory store.
func OpenBadgerCache(filePath string, opts ...Option) (*BadgerCache, error) {
	var badgerOpts badger.Options

	if filePath == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		badgerOpts = badger.DefaultOptions(filePath)
	}

	badgerOpts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	badgerOpts.Compression = options.None

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}

	c := &BadgerCache{
		db:     db,
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(c); optErr != nil {
			db.Close()
			return nil, optErr
		}
	}
	return c, nil
}

// Get looks up a cached answer. Expired records are deleted and reported
// as a miss.
func (c *BadgerCache) Get(ctx context.Context, fingerprint, query string) (Record, bool, error) {
	if fingerprint == "" || query == "" {
		return Record{}, false, ErrEmptyKey
	}
	if c.db.IsClosed() {
		return Record{}, false, ErrClosed
	}

	key := makeKey(fingerprint, query)

	var record Record
	found := false
	err := c.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			rec, err := UnmarshalRecord(val)
			if err != nil {
				return err
			}
			record = rec
			found = true
			return nil
		})
	})
	if err != nil {
		return Record{}, false, err
	}
	if !found {
		return Record{}, false, nil
	}

	if record.Expired(c.now()) {
		if err := c.Delete(ctx, fingerprint, query); err != nil {
			c.logger.Warn("failed to delete expired cache record", "err", err)
		}
		return Record{}, false, nil
	}
	return record, true, nil
}

// Set stores an answer under the fingerprint namespace. The record's
// expiry is stamped from the store TTL.
func (c *BadgerCache) Set(ctx context.Context, fingerprint, query string, record Record) error {
	if fingerprint == "" || query == "" {
		return ErrEmptyKey
	}
	if c.db.IsClosed() {
		return ErrClosed
	}

	record.ExpiresAt = c.now().Add(c.ttl).UTC()
	key := makeKey(fingerprint, query)
	value := MarshalRecord(record)

	return c.db.Update(func(tx *badger.Txn) error {
		entry := badger.NewEntry(key, value).WithTTL(c.ttl)
		return tx.SetEntry(entry)
	})
}

// Delete removes a cached answer. Deleting an absent key is not an error.
func (c *BadgerCache) Delete(ctx context.Context, fingerprint, query string) error {
	if fingerprint == "" || query == "" {
		return ErrEmptyKey
	}
	if c.db.IsClosed() {
		return ErrClosed
	}

	key := makeKey(fingerprint, query)
	return c.db.Update(func(tx *badger.Txn) error {
		return tx.Delete(key)
	})
}

// Close closes the underlying store.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}
