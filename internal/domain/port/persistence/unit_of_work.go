package persistence

import (
	"context"
	"slices"
)

// ChangeSet collects the writes of one compound operation so they can be committed together.
// Staging the same key twice keeps only the last value.
type ChangeSet struct {
	writes []Write
	index  map[string]int
}

// NewChangeSet creates an empty change set
func NewChangeSet() *ChangeSet {
	return &ChangeSet{index: make(map[string]int)}
}

// Put stages an overwrite of key
func (c *ChangeSet) Put(key string, value []byte) {
	c.stage(Write{Key: key, Value: value})
}

// Delete stages the removal of key
func (c *ChangeSet) Delete(key string) {
	c.stage(Write{Key: key, Delete: true})
}

func (c *ChangeSet) stage(w Write) {
	if i, ok := c.index[w.Key]; ok {
		c.writes[i] = w
		return
	}
	c.index[w.Key] = len(c.writes)
	c.writes = append(c.writes, w)
}

// Lookup returns the staged write for key, if any
func (c *ChangeSet) Lookup(key string) (Write, bool) {
	i, ok := c.index[key]
	if !ok {
		return Write{}, false
	}
	return c.writes[i], true
}

// Writes returns the staged writes in staging order
func (c *ChangeSet) Writes() []Write {
	return slices.Clone(c.writes)
}

// Keys returns the staged keys in staging order
func (c *ChangeSet) Keys() []string {
	keys := make([]string, len(c.writes))
	for i, w := range c.writes {
		keys[i] = w.Key
	}
	return keys
}

// Len returns the number of staged keys
func (c *ChangeSet) Len() int {
	return len(c.writes)
}

// UnitOfWork commits change sets to the store so that a compound operation is never half applied
type UnitOfWork interface {
	// Commit makes every write in cs durable, or reports a CommitError
	Commit(ctx context.Context, cs *ChangeSet) error

	// Recover completes a commit interrupted by a crash or a store failure
	Recover(ctx context.Context) error
}
