package history

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/boltdb/bolt"
)

var (
	sessionsBucket = []byte("sessions")
	entriesBucket  = []byte("entries")
)

// BoltStore keeps history in a bolt file. Entries are JSON values keyed by
// their big-endian id, so a cursor walks them in insertion order.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (creating if needed) the bolt file at path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{sessionsBucket, entriesBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) StartSession(ctx context.Context) (int64, error) {
	var id uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionsBucket)
		var err error
		if id, err = b.NextSequence(); err != nil {
			return err
		}
		started, err := time.Now().MarshalText()
		if err != nil {
			return err
		}
		return b.Put(itob(id), started)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create session: %w", err)
	}
	return int64(id), nil
}

func (s *BoltStore) Record(ctx context.Context, e *Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(entriesBucket)
		id, err := b.NextSequence()
		if err != nil {
			return err
		}
		e.ID = int64(id)
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		return b.Put(itob(id), data)
	})
	if err != nil {
		return fmt.Errorf("failed to record history entry: %w", err)
	}
	return nil
}

func (s *BoltStore) List(ctx context.Context, f Filter) ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(entriesBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if f.Limit > 0 && len(entries) >= f.Limit {
				break
			}
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("corrupt history entry %d: %w", btoi(k), err)
			}
			if f.match(&e) {
				entries = append(entries, e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	slices.Reverse(entries)
	return entries, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func btoi(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}
