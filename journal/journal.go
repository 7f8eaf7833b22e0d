// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package journal records undo entries for in-memory changes, to support
// nested snapshot and revert.
package journal

import (
	"errors"
	"sort"
)

// ErrInvalidRevision is returned when reverting to a revision that is not
// reachable in the current epoch.
var ErrInvalidRevision = errors.New("invalid revision")

// Entry is an undo record of a single change.
type Entry interface {
	// Revert undoes the change.
	Revert()
}

// EntryFunc is a func that implements Entry.
type EntryFunc func()

// Revert calls f.
func (f EntryFunc) Revert() { f() }

// revision marks a journal position.
type revision struct {
	id       int
	position int
}

// Journal maintains undo entries in a stack.
// A revision id is handed out by Snapshot and never reused. Reverting to a
// revision discards the revisions taken after it, and Seal discards all.
//
// Journal is not safe for concurrent use.
type Journal struct {
	entries   []Entry
	revisions []revision // ascending by id and position
	nextID    int
}

// New creates an empty journal.
func New() *Journal {
	return &Journal{}
}

// Append pushes an entry on stack.
func (j *Journal) Append(e Entry) {
	j.entries = append(j.entries, e)
}

// Len returns count of entries in the current epoch.
func (j *Journal) Len() int {
	return len(j.entries)
}

// Snapshot marks the current position and returns its revision id.
func (j *Journal) Snapshot() int {
	id := j.nextID
	j.nextID++
	j.revisions = append(j.revisions, revision{id, len(j.entries)})
	return id
}

// RevertTo reverts entries above the revision in reverse order, and
// truncates the stack. The revision stays valid, while revisions taken
// after it are discarded.
func (j *Journal) RevertTo(id int) error {
	idx := sort.Search(len(j.revisions), func(i int) bool {
		return j.revisions[i].id >= id
	})
	if idx == len(j.revisions) || j.revisions[idx].id != id {
		return ErrInvalidRevision
	}
	pos := j.revisions[idx].position
	for i := len(j.entries) - 1; i >= pos; i-- {
		j.entries[i].Revert()
		j.entries[i] = nil
	}
	j.entries = j.entries[:pos]
	j.revisions = j.revisions[:idx+1]
	return nil
}

// Seal drops all entries and revisions, and starts a new epoch. Changes
// before Seal can't be reverted any more.
func (j *Journal) Seal() {
	clear(j.entries)
	j.entries = j.entries[:0]
	j.revisions = j.revisions[:0]
}
