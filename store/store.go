// Package store persists recorded instruction trees in a bbolt database.
//
// Each entry holds the record stream of a tree (see ggwriter.Encode) under
// a name, plus metadata describing it:
//
//	db, err := store.Open("drawings.db", nil)
//	if err != nil { ... }
//	defer db.Close()
//	meta, err := db.Put(ctx, "logo", root)
//	...
//	root, err = db.Get(ctx, "logo")
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggwriter"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

const (
	bucketStreams = "streams"
	bucketMeta    = "meta"
)

// ErrNotFound is returned when no entry has the requested name.
var ErrNotFound = errors.New("store: no such recording")

// ErrEmptyName is returned by Put for an empty name.
var ErrEmptyName = errors.New("store: empty name")

// Meta describes a stored recording.
type Meta struct {
	ID      uuid.UUID  `json:"id"`
	Name    string     `json:"name"`
	Nodes   int        `json:"nodes"`
	Bounds  [4]float64 `json:"bounds"` // x, y, width, height
	Size    int        `json:"size"`
	Version int        `json:"version"`
	Created time.Time  `json:"created"`
}

// Rect returns the stored bounds as a rectangle.
func (m Meta) Rect() gg.Rect {
	return gg.Rect{
		Min: gg.Pt(m.Bounds[0], m.Bounds[1]),
		Max: gg.Pt(m.Bounds[0]+m.Bounds[2], m.Bounds[1]+m.Bounds[3]),
	}
}

// Options configures Open.
type Options struct {
	// Timeout bounds the wait for the database file lock. Zero waits
	// forever.
	Timeout time.Duration
	// ReadOnly opens the database without write access.
	ReadOnly bool
}

// Store is a database of named recordings. It is safe for concurrent use.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

var initDB = map[string]func(*bolt.Tx) error{
	"initialize stream bucket": func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketStreams))
		return err
	},
	"initialize metadata bucket": func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketMeta))
		return err
	},
}

// Open opens or creates the database at path. A nil opts uses defaults.
func Open(path string, opts *Options) (*Store, error) {
	if opts == nil {
		opts = &Options{}
	}
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: opts.Timeout, ReadOnly: opts.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if !opts.ReadOnly {
		err = db.Update(func(tx *bolt.Tx) error {
			for name, fn := range initDB {
				if err := fn(tx); err != nil {
					return fmt.Errorf("failed to %s: %w", name, err)
				}
			}
			return nil
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %w", err)
		}
	}
	ggwriter.Logger().Info("store: opened", "path", path, "readonly", opts.ReadOnly)
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.db.Path()
}

// Put encodes n and stores it under name, replacing any previous entry.
func (s *Store) Put(ctx context.Context, name string, n ggwriter.Node) (Meta, error) {
	if err := ctx.Err(); err != nil {
		return Meta{}, err
	}
	if name == "" {
		return Meta{}, ErrEmptyName
	}
	data, err := ggwriter.Marshal(n)
	if err != nil {
		return Meta{}, fmt.Errorf("store: put %s: %w", name, err)
	}
	b := n.Bounds()
	meta := Meta{
		ID:      uuid.New(),
		Name:    name,
		Nodes:   countNodes(n),
		Bounds:  [4]float64{b.Min.X, b.Min.Y, b.Width(), b.Height()},
		Size:    len(data),
		Version: ggwriter.StreamVersion,
		Created: s.now().UTC(),
	}
	mdata, err := json.Marshal(meta)
	if err != nil {
		return Meta{}, fmt.Errorf("store: put %s: %w", name, err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(bucketStreams)).Put([]byte(name), data); err != nil {
			return err
		}
		return tx.Bucket([]byte(bucketMeta)).Put([]byte(name), mdata)
	})
	if err != nil {
		return Meta{}, fmt.Errorf("store: put %s: %w", name, err)
	}
	ggwriter.Logger().Info("store: put", "name", name, "id", meta.ID, "nodes", meta.Nodes, "bytes", meta.Size)
	return meta, nil
}

// Get decodes the entry stored under name into a new root configured with
// opts.
func (s *Store) Get(ctx context.Context, name string, opts ...ggwriter.Option) (*ggwriter.Writer, error) {
	data, err := s.Stream(ctx, name)
	if err != nil {
		return nil, err
	}
	root, err := ggwriter.Unmarshal(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("store: get %s: %w", name, err)
	}
	ggwriter.Logger().Debug("store: get", "name", name, "bytes", len(data))
	return root, nil
}

// Stream returns the raw record stream stored under name.
func (s *Store) Stream(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketStreams)).Get([]byte(name))
		if v == nil {
			return ErrNotFound
		}
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: get %s: %w", name, err)
	}
	return data, nil
}

// Meta returns the metadata of the entry stored under name.
func (s *Store) Meta(ctx context.Context, name string) (Meta, error) {
	if err := ctx.Err(); err != nil {
		return Meta{}, err
	}
	var meta Meta
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketMeta)).Get([]byte(name))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &meta)
	})
	if err != nil {
		return Meta{}, fmt.Errorf("store: meta %s: %w", name, err)
	}
	return meta, nil
}

// List returns the metadata of every entry, sorted by name.
func (s *Store) List(ctx context.Context) ([]Meta, error) {
	var out []Meta
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketMeta)).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var m Meta
			if err := json.Unmarshal(v, &m); err != nil {
				return fmt.Errorf("entry %s: %w", k, err)
			}
			out = append(out, m)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	return out, nil
}

// Delete removes the entry stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		streams := tx.Bucket([]byte(bucketStreams))
		if streams.Get([]byte(name)) == nil {
			return ErrNotFound
		}
		if err := streams.Delete([]byte(name)); err != nil {
			return err
		}
		return tx.Bucket([]byte(bucketMeta)).Delete([]byte(name))
	})
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", name, err)
	}
	ggwriter.Logger().Info("store: deleted", "name", name)
	return nil
}

func countNodes(n ggwriter.Node) int {
	c := 1
	for _, ch := range n.Children() {
		c += countNodes(ch)
	}
	return c
}
