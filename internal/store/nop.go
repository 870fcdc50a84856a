package store

import "github.com/andrada/kijobs/internal/model"

// NopStore is used in check mode. Every posting appears new and nothing is
// persisted.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) IsNew(id string) bool                         { return true }
func (s *NopStore) Record(p model.Posting, keywords []string)    {}
func (s *NopStore) Prune(current map[string]struct{}) int        { return 0 }
func (s *NopStore) Save() error                                  { return nil }
func (s *NopStore) Len() int                                     { return 0 }
