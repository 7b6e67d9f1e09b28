package index

import (
	"encoding/json"
	"errors"

	bolt "go.etcd.io/bbolt"

	"inkwell/internal/domain/content"
)

var ErrNotFound = errors.New("index: not found")

type Sort string

const (
	SortCreated  Sort = "created"
	SortModified Sort = "modified"
)

type ListOptions struct {
	Sort Sort
	Page int // 1-based
	Size int
}

func (o *ListOptions) normalize() {
	if o.Sort == "" {
		o.Sort = SortCreated
	}
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Size < 1 {
		o.Size = 20
	}
}

// GetMeta loads one page's metadata by slug.
func (s *Store) GetMeta(slug string) (content.PageMeta, error) {
	var m content.PageMeta
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bMeta)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(slug))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &m)
	})
	return m, err
}

// SlugForSaveAs resolves a custom output path back to a slug.
func (s *Store) SlugForSaveAs(path string) (string, error) {
	var slug string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bSaveAs)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(path))
		if v == nil {
			return ErrNotFound
		}
		slug = string(v)
		return nil
	})
	return slug, err
}

// List returns pages ordered newest-first by the chosen timestamp.
func (s *Store) List(opt ListOptions) ([]content.PageMeta, error) {
	opt.normalize()

	idxName := bIdxCreated
	if opt.Sort == SortModified {
		idxName = bIdxModified
	}

	var out []content.PageMeta
	err := s.db.View(func(tx *bolt.Tx) error {
		idx := tx.Bucket(idxName)
		metaB := tx.Bucket(bMeta)
		if idx == nil || metaB == nil {
			return nil
		}
		return collectPage(idx.Cursor(), metaB, opt, &out)
	})
	return out, err
}

func (s *Store) ListByTag(tag string, opt ListOptions) ([]content.PageMeta, error) {
	return s.listBySub(bIdxTag, tag, opt)
}

func (s *Store) ListByCategory(cat string, opt ListOptions) ([]content.PageMeta, error) {
	return s.listBySub(bIdxCat, cat, opt)
}

func (s *Store) ListByAuthor(author string, opt ListOptions) ([]content.PageMeta, error) {
	return s.listBySub(bIdxAuthor, author, opt)
}

func (s *Store) listBySub(parent []byte, key string, opt ListOptions) ([]content.PageMeta, error) {
	opt.normalize()

	var out []content.PageMeta
	err := s.db.View(func(tx *bolt.Tx) error {
		p := tx.Bucket(parent)
		metaB := tx.Bucket(bMeta)
		if p == nil || metaB == nil {
			return nil
		}
		sub := p.Bucket([]byte(key))
		if sub == nil {
			return nil
		}
		return collectPage(sub.Cursor(), metaB, opt, &out)
	})
	return out, err
}

// Tags returns every distinct tag with its page count.
func (s *Store) Tags() (map[string]int, error) {
	return s.countSub(bIdxTag)
}

// Categories returns every distinct category with its page count.
func (s *Store) Categories() (map[string]int, error) {
	return s.countSub(bIdxCat)
}

// Authors returns every distinct author with their page count.
func (s *Store) Authors() (map[string]int, error) {
	return s.countSub(bIdxAuthor)
}

func (s *Store) countSub(parent []byte) (map[string]int, error) {
	out := make(map[string]int)
	err := s.db.View(func(tx *bolt.Tx) error {
		p := tx.Bucket(parent)
		if p == nil {
			return nil
		}
		return p.ForEachBucket(func(k []byte) error {
			sub := p.Bucket(k)
			if sub == nil {
				return nil
			}
			out[string(k)] = sub.Stats().KeyN
			return nil
		})
	})
	return out, err
}

// collectPage walks composite time+slug keys in order and loads the metadata
// records for the requested page window.
func collectPage(c *bolt.Cursor, metaB *bolt.Bucket, opt ListOptions, out *[]content.PageMeta) error {
	skip := (opt.Page - 1) * opt.Size
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		if skip > 0 {
			skip--
			continue
		}
		if len(*out) >= opt.Size {
			break
		}
		slug := slugFromTimeSlugKey(k)
		if slug == "" {
			continue
		}
		v := metaB.Get([]byte(slug))
		if v == nil {
			continue
		}
		var m content.PageMeta
		if err := json.Unmarshal(v, &m); err != nil {
			return err
		}
		*out = append(*out, m)
	}
	return nil
}
