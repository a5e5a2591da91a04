// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package formgate

import "time"

// SetClock replaces the registry's time source.
func (registry *Registry[T]) SetClock(now func() time.Time) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.now = now
}
