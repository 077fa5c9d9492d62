package store

import "log/slog"

// Tiers orchestrates the ordered stores. Reads fall through tier by tier
// and backfill the faster tiers; writes go to every tier best-effort, with
// individual failures logged and swallowed because the fastest tier remains
// authoritative for the current process lifetime.
type Tiers struct {
	stores []Store
	logger *slog.Logger
}

// NewTiers wires the stores in fastest-to-slowest order. The last store is
// treated as the cold tier: it is skipped by Get and consulted only by
// Restore.
func NewTiers(logger *slog.Logger, stores ...Store) *Tiers {
	return &Tiers{stores: stores, logger: logger}
}

// Get reads key from the warm tiers (all but the last). accept may be nil;
// when set, a present value failing accept is treated as a miss in that
// tier. The first accepted value backfills every faster tier.
func (t *Tiers) Get(key string, accept func([]byte) bool) ([]byte, bool) {
	return t.lookup(key, t.warmStores(), accept)
}

// Restore reads key from every tier including the cold one. This is the
// cold-start path.
func (t *Tiers) Restore(key string, accept func([]byte) bool) ([]byte, bool) {
	return t.lookup(key, t.stores, accept)
}

// Set writes key to every tier. The fastest tier's error is returned;
// slower-tier failures (quota, storage disabled) are logged and swallowed.
func (t *Tiers) Set(key string, value []byte) error {
	for i, s := range t.stores {
		err := s.Set(key, value)
		if err == nil {
			continue
		}
		if i == 0 {
			return err
		}
		t.logger.Warn("tier write failed", "tier", s.Name(), "key", key, "error", err)
	}
	return nil
}

// Delete removes key from every tier best-effort.
func (t *Tiers) Delete(key string) {
	for _, s := range t.stores {
		if err := s.Delete(key); err != nil {
			t.logger.Warn("tier delete failed", "tier", s.Name(), "key", key, "error", err)
		}
	}
}

// Move relocates the record under from to the key to, tier by tier, then
// removes the source. Best-effort per tier.
func (t *Tiers) Move(from, to string) {
	for _, s := range t.stores {
		value, ok, err := s.Get(from)
		if err != nil {
			t.logger.Warn("tier read failed during move", "tier", s.Name(), "key", from, "error", err)
			continue
		}
		if !ok {
			continue
		}
		if err := s.Set(to, value); err != nil {
			t.logger.Warn("tier write failed during move", "tier", s.Name(), "key", to, "error", err)
			continue
		}
		if err := s.Delete(from); err != nil {
			t.logger.Warn("tier delete failed during move", "tier", s.Name(), "key", from, "error", err)
		}
	}
}

// Close closes every tier, slowest first.
func (t *Tiers) Close() {
	for i := len(t.stores) - 1; i >= 0; i-- {
		if err := t.stores[i].Close(); err != nil {
			t.logger.Warn("tier close failed", "tier", t.stores[i].Name(), "error", err)
		}
	}
}

func (t *Tiers) warmStores() []Store {
	if len(t.stores) <= 1 {
		return t.stores
	}
	return t.stores[:len(t.stores)-1]
}

func (t *Tiers) lookup(key string, stores []Store, accept func([]byte) bool) ([]byte, bool) {
	for i, s := range stores {
		value, ok, err := s.Get(key)
		if err != nil {
			t.logger.Warn("tier read failed", "tier", s.Name(), "key", key, "error", err)
			continue
		}
		if !ok {
			continue
		}
		if accept != nil && !accept(value) {
			continue
		}
		// Refresh the faster tiers from the hit; they are caches of it now.
		for j := 0; j < i; j++ {
			if err := t.stores[j].Set(key, value); err != nil {
				t.logger.Warn("tier backfill failed", "tier", t.stores[j].Name(), "key", key, "error", err)
			}
		}
		return value, true
	}
	return nil, false
}
