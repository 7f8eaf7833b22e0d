// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats(t *testing.T) {
	var cs Stats

	steps := []struct {
		hits, misses int
		changed      bool
		hit, miss    int64
	}{
		{0, 0, false, 0, 0},
		{1, 1, true, 1, 1},
		// rate unchanged
		{0, 0, false, 1, 1},
		{2, 2, false, 3, 3},
		{1, 0, true, 4, 3},
	}
	for i, s := range steps {
		for j := 0; j < s.hits; j++ {
			cs.Hit()
		}
		for j := 0; j < s.misses; j++ {
			cs.Miss()
		}
		changed, hit, miss := cs.Stats()
		assert.Equal(t, s.changed, changed, "step %d", i)
		assert.Equal(t, s.hit, hit, "step %d", i)
		assert.Equal(t, s.miss, miss, "step %d", i)
	}
	assert.Equal(t, int64(5), cs.Hit())
	assert.Equal(t, int64(4), cs.Miss())
}

func TestHitRate(t *testing.T) {
	for _, tt := range []struct {
		hit, miss int64
		want      string
	}{
		{0, 0, "n/a"},
		{3, 1, "0.750"},
		{0, 5, "0.000"},
		{2, 1, "0.667"},
	} {
		assert.Equal(t, tt.want, HitRate(tt.hit, tt.miss))
	}
}
