// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package journal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/worldstate/journal"
)

type setEntry struct {
	m    map[string]string
	key  string
	prev *string
}

func (e *setEntry) Revert() {
	if e.prev == nil {
		delete(e.m, e.key)
	} else {
		e.m[e.key] = *e.prev
	}
}

// journaledMap is a map whose sets can be reverted.
type journaledMap struct {
	m map[string]string
	j *journal.Journal
}

func (jm *journaledMap) set(k, v string) {
	e := &setEntry{m: jm.m, key: k}
	if prev, ok := jm.m[k]; ok {
		e.prev = &prev
	}
	jm.j.Append(e)
	jm.m[k] = v
}

func TestJournal(t *testing.T) {
	assert := assert.New(t)
	jm := &journaledMap{map[string]string{"foo": "bar"}, journal.New()}

	var revs []int
	tests := []struct {
		f      func()
		setKey string
		setVal string
		want   map[string]string
	}{
		{func() {}, "", "", map[string]string{"foo": "bar"}},
		{func() {}, "foo", "baz", map[string]string{"foo": "baz"}},
		{func() {}, "foo", "baz1", map[string]string{"foo": "baz1"}},
		{func() {}, "a", "b", map[string]string{"foo": "baz1", "a": "b"}},
		{func() { assert.NoError(jm.j.RevertTo(revs[3])) }, "", "", map[string]string{"foo": "baz1"}},
		{func() { assert.NoError(jm.j.RevertTo(revs[0])) }, "", "", map[string]string{"foo": "bar"}},
	}

	for i, test := range tests {
		test.f()
		revs = append(revs, jm.j.Snapshot())
		assert.Equal(i, revs[i], "ids increase")
		if test.setKey != "" {
			jm.set(test.setKey, test.setVal)
		}
		assert.Equal(test.want, jm.m)
	}
}

func TestNestedRevert(t *testing.T) {
	jm := &journaledMap{map[string]string{}, journal.New()}

	s0 := jm.j.Snapshot()
	jm.set("a", "1")
	s1 := jm.j.Snapshot()
	jm.set("a", "2")
	s2 := jm.j.Snapshot()
	jm.set("b", "3")

	assert.NoError(t, jm.j.RevertTo(s2))
	assert.Equal(t, map[string]string{"a": "2"}, jm.m)

	// the reverted revision stays valid
	assert.NoError(t, jm.j.RevertTo(s2))
	assert.Equal(t, map[string]string{"a": "2"}, jm.m)

	assert.NoError(t, jm.j.RevertTo(s1))
	assert.Equal(t, map[string]string{"a": "1"}, jm.m)

	// s2 was taken after s1
	assert.ErrorIs(t, jm.j.RevertTo(s2), journal.ErrInvalidRevision)

	assert.NoError(t, jm.j.RevertTo(s0))
	assert.Empty(t, jm.m)
	assert.Equal(t, 0, jm.j.Len())
}

func TestDiscardedRevisionOnRegrownStack(t *testing.T) {
	jm := &journaledMap{map[string]string{}, journal.New()}

	outer := jm.j.Snapshot()
	jm.set("a", "1")
	inner := jm.j.Snapshot()
	assert.NoError(t, jm.j.RevertTo(outer))

	// the stack grows past the position inner marked
	jm.set("a", "2")
	jm.set("a", "3")

	assert.ErrorIs(t, jm.j.RevertTo(inner), journal.ErrInvalidRevision)
	assert.Equal(t, map[string]string{"a": "3"}, jm.m)

	next := jm.j.Snapshot()
	assert.Greater(t, next, inner)
	assert.NoError(t, jm.j.RevertTo(outer))
	assert.Empty(t, jm.m)
}

func TestSeal(t *testing.T) {
	jm := &journaledMap{map[string]string{}, journal.New()}

	jm.set("a", "1")
	before := jm.j.Snapshot()
	jm.set("a", "2")
	jm.j.Seal()

	assert.Equal(t, 0, jm.j.Len())
	assert.ErrorIs(t, jm.j.RevertTo(before), journal.ErrInvalidRevision)
	assert.Equal(t, "2", jm.m["a"])

	after := jm.j.Snapshot()
	assert.Greater(t, after, before)
	jm.set("a", "3")
	assert.NoError(t, jm.j.RevertTo(after))
	assert.Equal(t, "2", jm.m["a"])

	assert.ErrorIs(t, jm.j.RevertTo(-1), journal.ErrInvalidRevision)
	assert.ErrorIs(t, jm.j.RevertTo(after+1), journal.ErrInvalidRevision)
}

func TestEntryFunc(t *testing.T) {
	j := journal.New()
	rev := j.Snapshot()
	reverted := []int{}
	for i := 0; i < 3; i++ {
		i := i
		j.Append(journal.EntryFunc(func() { reverted = append(reverted, i) }))
	}
	assert.NoError(t, j.RevertTo(rev))
	assert.Equal(t, []int{2, 1, 0}, reverted)
}
