/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package changestream

import "fmt"

// CursorState tracks what the last poll of a shard told us.
type CursorState int

const (
	// CursorActive has not returned an empty page since the last sweep reset.
	CursorActive CursorState = iota
	// CursorEmptyObserved returned an empty page since the last sweep reset.
	CursorEmptyObserved
	// CursorClosed returned no continuation; the shard will never produce more records.
	CursorClosed
)

func (s CursorState) String() string {
	switch s {
	case CursorActive:
		return "Active"
	case CursorEmptyObserved:
		return "EmptyObserved"
	case CursorClosed:
		return "Closed"
	}
	return fmt.Sprintf("CursorState(%d)", int(s))
}

// Cursor is the read position in one shard.
type Cursor struct {
	ShardID string
	Token   string
	State   CursorState
	Polls   int
}

// CursorSet is a FIFO work queue of shard cursors. A cursor is popped before it is polled
// and requeued only when the poll returned a continuation token, so the set shrinks by
// exactly one each time a shard closes.
type CursorSet struct {
	queue  []*Cursor
	closed int
}

// NewCursorSet creates a set holding cursors in order.
func NewCursorSet(cursors ...*Cursor) *CursorSet {
	s := &CursorSet{}
	for _, c := range cursors {
		s.Push(c)
	}
	return s
}

// Push appends c to the tail of the queue.
func (s *CursorSet) Push(c *Cursor) {
	s.queue = append(s.queue, c)
}

// Pop removes and returns the head cursor.
func (s *CursorSet) Pop() (*Cursor, bool) {
	if len(s.queue) == 0 {
		return nil, false
	}
	c := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	return c, true
}

// Requeue records the outcome of polling c. Without a continuation the cursor is closed
// and dropped; otherwise it moves to the tail with the new token, marked empty-observed
// when the poll returned no records.
func (s *CursorSet) Requeue(c *Cursor, next *string, records int) {
	c.Polls++
	if next == nil {
		c.State = CursorClosed
		s.closed++
		return
	}
	c.Token = *next
	if records == 0 {
		c.State = CursorEmptyObserved
	} else {
		c.State = CursorActive
	}
	s.Push(c)
}

// ResetSweep marks every queued cursor active again. Call it whenever the consumer has
// drained everything polled so far.
func (s *CursorSet) ResetSweep() {
	for _, c := range s.queue {
		if c.State == CursorEmptyObserved {
			c.State = CursorActive
		}
	}
}

// Swept reports whether every queued cursor has returned an empty page since the last
// ResetSweep. It is true for an empty set.
func (s *CursorSet) Swept() bool {
	for _, c := range s.queue {
		if c.State != CursorEmptyObserved {
			return false
		}
	}
	return true
}

// Len returns the number of queued cursors.
func (s *CursorSet) Len() int {
	return len(s.queue)
}

// Closed returns how many shards have been dropped as closed.
func (s *CursorSet) Closed() int {
	return s.closed
}

// ShardIDs returns the shard ids of the queued cursors in queue order.
func (s *CursorSet) ShardIDs() []string {
	ids := make([]string, len(s.queue))
	for i, c := range s.queue {
		ids[i] = c.ShardID
	}
	return ids
}
