package index

import (
	"encoding/json"
	"strings"

	bolt "go.etcd.io/bbolt"

	"inkwell/internal/domain/content"
)

type RebuildOptions struct {
	IncludeDraft bool
}

// Rebuild replaces the whole index with the given pages in one transaction.
func (s *Store) Rebuild(pages []content.Page, opt RebuildOptions) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		_ = tx.DeleteBucket(bMeta)
		_ = tx.DeleteBucket(bSaveAs)
		_ = tx.DeleteBucket(bIdxTag)
		_ = tx.DeleteBucket(bIdxCat)
		_ = tx.DeleteBucket(bIdxAuthor)
		_ = tx.DeleteBucket(bIdxCreated)
		_ = tx.DeleteBucket(bIdxModified)

		metaB, _ := tx.CreateBucket(bMeta)
		saveAsB, _ := tx.CreateBucket(bSaveAs)
		idxTagB, _ := tx.CreateBucket(bIdxTag)
		idxCatB, _ := tx.CreateBucket(bIdxCat)
		idxAuthorB, _ := tx.CreateBucket(bIdxAuthor)
		idxCreatedB, _ := tx.CreateBucket(bIdxCreated)
		idxModifiedB, _ := tx.CreateBucket(bIdxModified)

		for _, p := range pages {
			m := p.Meta
			if m.Draft() && !opt.IncludeDraft {
				continue
			}
			if strings.TrimSpace(m.Slug) == "" {
				continue
			}
			mb, err := json.Marshal(m)
			if err != nil {
				return err
			}
			if err := metaB.Put([]byte(m.Slug), mb); err != nil {
				return err
			}

			mKey := makeTimeSlugKey(m.Modified.UnixNano(), m.Slug)
			if err := idxModifiedB.Put(mKey, []byte{1}); err != nil {
				return err
			}
			cKey := makeTimeSlugKey(m.Date.UnixNano(), m.Slug)
			if err := idxCreatedB.Put(cKey, []byte{1}); err != nil {
				return err
			}

			for _, tag := range m.Tags {
				if tag == "" {
					continue
				}
				sb, err := idxTagB.CreateBucketIfNotExists([]byte(tag))
				if err != nil {
					return err
				}
				if err := sb.Put(cKey, []byte{1}); err != nil {
					return err
				}
			}

			if cat := strings.TrimSpace(m.Category); cat != "" {
				sb, err := idxCatB.CreateBucketIfNotExists([]byte(cat))
				if err != nil {
					return err
				}
				if err := sb.Put(cKey, []byte{1}); err != nil {
					return err
				}
			}

			for _, author := range authorsOf(m) {
				sb, err := idxAuthorB.CreateBucketIfNotExists([]byte(author))
				if err != nil {
					return err
				}
				if err := sb.Put(cKey, []byte{1}); err != nil {
					return err
				}
			}

			if sa := strings.TrimSpace(m.SaveAs); sa != "" {
				if err := saveAsB.Put([]byte(sa), []byte(m.Slug)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// authorsOf collects the distinct author names of a page, singular and
// plural fields combined.
func authorsOf(m content.PageMeta) []string {
	seen := make(map[string]struct{}, len(m.Authors)+1)
	var out []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	add(m.Author)
	for _, a := range m.Authors {
		add(a)
	}
	return out
}
