package uistate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var flagsBucket = []byte("ui_flags")

// BoltRepository persists flags in a single bbolt bucket keyed by
// "<session>/<key>".
type BoltRepository struct {
	db     *bolt.DB
	events *broadcaster
	clock  func() time.Time
}

var _ Repository = (*BoltRepository)(nil)

// OpenBolt opens (or creates) the bbolt file at path and returns a
// repository over it. Close releases the file lock.
func OpenBolt(path string) (*BoltRepository, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	repo, err := NewBoltRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// NewBoltRepository ensures the flags bucket exists on db.
func NewBoltRepository(db *bolt.DB) (*BoltRepository, error) {
	if db == nil {
		return nil, errors.New("uistate: bolt repository requires a database")
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(flagsBucket)
		return err
	}); err != nil {
		return nil, err
	}
	return &BoltRepository{db: db, events: newBroadcaster(), clock: time.Now}, nil
}

// Close closes the underlying database.
func (r *BoltRepository) Close() error {
	return r.db.Close()
}

type boltRecord struct {
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func boltKey(session uuid.UUID, key string) []byte {
	return []byte(session.String() + "/" + key)
}

func boltPrefix(session uuid.UUID) []byte {
	return []byte(session.String() + "/")
}

func decodeBolt(session uuid.UUID, key string, raw []byte) (Flag, error) {
	var rec boltRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Flag{}, err
	}
	return Flag{SessionID: session, Key: key, Value: rec.Value, UpdatedAt: rec.UpdatedAt}, nil
}

func (r *BoltRepository) Get(_ context.Context, session uuid.UUID, key string) (Flag, error) {
	var flag Flag
	err := r.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(flagsBucket).Get(boltKey(session, key))
		if raw == nil {
			return ErrFlagNotFound
		}
		var err error
		flag, err = decodeBolt(session, key, raw)
		return err
	})
	return flag, err
}

func (r *BoltRepository) List(_ context.Context, session uuid.UUID) ([]Flag, error) {
	out := []Flag{}
	prefix := boltPrefix(session)
	err := r.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(flagsBucket).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			flag, err := decodeBolt(session, string(k[len(prefix):]), v)
			if err != nil {
				return err
			}
			out = append(out, flag)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Set stores flag. Writing an unchanged value emits no event.
func (r *BoltRepository) Set(_ context.Context, flag Flag) (Flag, error) {
	if err := validFlag(flag); err != nil {
		return Flag{}, err
	}
	flag.UpdatedAt = r.clock().UTC()

	var (
		changeType ChangeType
		stored     = flag
	)
	err := r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(flagsBucket)
		key := boltKey(flag.SessionID, flag.Key)
		if raw := bucket.Get(key); raw != nil {
			previous, err := decodeBolt(flag.SessionID, flag.Key, raw)
			if err != nil {
				return err
			}
			if previous.Value == flag.Value {
				stored = previous
				return nil
			}
			changeType = ChangeUpdated
		} else {
			changeType = ChangeCreated
		}
		payload, err := json.Marshal(boltRecord{Value: flag.Value, UpdatedAt: flag.UpdatedAt})
		if err != nil {
			return err
		}
		return bucket.Put(key, payload)
	})
	if err != nil {
		return Flag{}, err
	}
	if changeType != "" {
		r.events.publish(newChangeEvent(changeType, stored))
	}
	return stored, nil
}

func (r *BoltRepository) Delete(_ context.Context, session uuid.UUID, key string) error {
	var flag Flag
	err := r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(flagsBucket)
		k := boltKey(session, key)
		raw := bucket.Get(k)
		if raw == nil {
			return ErrFlagNotFound
		}
		var err error
		if flag, err = decodeBolt(session, key, raw); err != nil {
			return err
		}
		return bucket.Delete(k)
	})
	if err != nil {
		return err
	}
	r.events.publish(newChangeEvent(ChangeDeleted, flag))
	return nil
}

func (r *BoltRepository) Clear(ctx context.Context, session uuid.UUID) error {
	flags, err := r.List(ctx, session)
	if err != nil {
		return err
	}
	if len(flags) == 0 {
		return nil
	}
	err = r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(flagsBucket)
		for _, flag := range flags {
			if err := bucket.Delete(boltKey(session, flag.Key)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, flag := range flags {
		r.events.publish(newChangeEvent(ChangeDeleted, flag))
	}
	return nil
}

func (r *BoltRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.events.subscribe(ctx)
}
