package domain

import (
	"encoding/json"
	"slices"
)

// LikeSet is a persistent set of identity ids. Operations return a new set and
// leave the receiver untouched, so sets can be shared between snapshots.
// Insertion order is kept for stable output.
type LikeSet struct {
	ids []string
}

func NewLikeSet(ids ...string) LikeSet {
	var s LikeSet
	for _, id := range ids {
		if !s.Has(id) {
			s.ids = append(s.ids, id)
		}
	}
	return s
}

func (s LikeSet) Has(id string) bool { return slices.Contains(s.ids, id) }

func (s LikeSet) Len() int { return len(s.ids) }

func (s LikeSet) IDs() []string { return slices.Clone(s.ids) }

// Toggle removes id if present, otherwise adds it.
func (s LikeSet) Toggle(id string) (LikeSet, bool) {
	if i := slices.Index(s.ids, id); i >= 0 {
		return LikeSet{ids: slices.Delete(slices.Clone(s.ids), i, i+1)}, false
	}
	out := make([]string, len(s.ids), len(s.ids)+1)
	copy(out, s.ids)
	return LikeSet{ids: append(out, id)}, true
}

func (s LikeSet) MarshalJSON() ([]byte, error) {
	if s.ids == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.ids)
}

func (s *LikeSet) UnmarshalJSON(b []byte) error {
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}
	*s = NewLikeSet(ids...)
	return nil
}
