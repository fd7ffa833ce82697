package cache

import "go.uber.org/zap"

// runScheduledNotification is the periodic timer's callback (spec.md
// §4.4): under the write lock, atomically swap the change log for fresh
// empty collections. If both are empty, nothing is published. Otherwise
// the lock is released before publishing, so mutations made during
// delivery land in the next event rather than blocking on it.
func (c *Cache[K, V]) runScheduledNotification() {
	c.mu.Lock()
	if c.changes.isEmpty() {
		c.mu.Unlock()
		c.logger.Debug("notification tick skipped: no changes", zap.String("cache", c.name))
		return
	}
	updated, removed := c.changes.swap()
	c.mu.Unlock()

	event := ChangeEvent[K, V]{
		ID:           newEventID(),
		CacheName:    c.name,
		UpdatedItems: updated,
		RemovedItems: removed,
	}

	c.logger.Info("publishing change notification",
		zap.String("cache", c.name),
		zap.Int("updated", len(updated)),
		zap.Int("removed", len(removed)),
	)

	c.bus.publish(event)
	publishNotification(Notification{
		Name:      EventCacheDidChange,
		CacheName: c.name,
		Payload:   event,
	})
}
