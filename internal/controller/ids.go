package controller

import (
	"time"
)

// IDSource hands out student ids. Ids are strictly increasing.
type IDSource interface {
	Next() int64
}

// ClockIDSource derives ids from the millisecond clock, bumping past the last
// id when the clock has not advanced.
type ClockIDSource struct {
	now  func() time.Time
	last int64
}

func NewClockIDSource() *ClockIDSource {
	return &ClockIDSource{now: time.Now}
}

func (s *ClockIDSource) Next() int64 {
	id := s.now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}
