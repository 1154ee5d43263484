package store

import (
	"context"

	"github.com/amishk599/autoapply/internal/model"
)

// NopStore is a no-op store used in dry-run mode. Applications are counted by
// the session but never persisted.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Append(_ context.Context, _ model.ApplicationRecord) error { return nil }
