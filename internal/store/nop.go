package store

import "github.com/amishk599/jobwatch/internal/model"

// NopStore is a no-op store used by the check command. It never records
// anything, so every posting appears new on each cycle.
type NopStore struct{}

var _ model.SeenStore = (*NopStore)(nil)

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Load() (model.SeenSet, error) { return model.NewSeenSet(), nil }
func (s *NopStore) Save(model.SeenSet) error     { return nil }
