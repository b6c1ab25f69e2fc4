package repository

import (
	"context"
	"sync"
)

// snapshotSubscription cancels the context driving a Snapshots iterator.
type snapshotSubscription struct {
	cancel context.CancelFunc
	once   sync.Once
}

func (s *snapshotSubscription) Cancel() {
	s.once.Do(s.cancel)
}
