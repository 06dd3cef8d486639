package service

import "time"

// Test hooks for the package clock. Compiled only into test binaries.

// SetNow overrides the service clock so due dates are deterministic.
func (s *LibraryService) SetNow(now func() time.Time) { s.now = now }

// SetNow overrides the service clock so overdue counts are deterministic.
func (s *StatsService) SetNow(now func() time.Time) { s.now = now }
