// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/vechain/worldstate/metrics"

var (
	metricStateAccess    = metrics.LazyCounterVec("state_access_count", []string{"type", "source"})
	metricCommitCount    = metrics.LazyCounter("state_commit_count")
	metricCommitDuration = metrics.LazyHistogram("state_commit_duration_ms", metrics.DurationBuckets)
	metricOpenStates     = metrics.LazyGauge("state_open_count")

	accountTrieLabels  = metrics.Labels{"type": "account", "source": "trie"}
	accountCacheLabels = metrics.Labels{"type": "account", "source": "cache"}
	storageTrieLabels  = metrics.Labels{"type": "storage", "source": "trie"}
	storageCacheLabels = metrics.Labels{"type": "storage", "source": "cache"}
	codeStoreLabels    = metrics.Labels{"type": "code", "source": "store"}
)
