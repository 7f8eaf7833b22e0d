// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the world state: the accounts trie, per-account
// storage tries and contract code.
// It follows the flow as bellow:
//
//	         o
//	         |
//	[ State: Snapshot / RevertToSnapshot ]
//	         |
//	  [ journal ] --undo--> [ cached objects ]
//	         |
//	[ IntermediateRoot: flush dirty objects into tries ]
//	         |
//	[ Commit: tries and code -> muxdb batch ]
//
// Accounts and storage slots are keyed by the keccak256 hash of the address
// and the leaf key, the same layout as Ethereum's secure trie.
package state
