// Copyright 2014 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package trie

import (
	"fmt"

	"github.com/vechain/worldstate/world"
)

// MissingNodeError is returned by the trie functions (Get, Update, Delete)
// in the case where a trie node is not present in the local database. It contains
// information necessary for retrieving the missing node.
type MissingNodeError struct {
	NodeHash world.Bytes32 // hash of the missing node
	Path     []byte        // hex-encoded path to the missing node
	Err      error         // the underlying error, may be nil
}

func (err *MissingNodeError) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("missing trie node %v (path %x): %v", err.NodeHash, err.Path, err.Err)
	}
	return fmt.Sprintf("missing trie node %v (path %x)", err.NodeHash, err.Path)
}

func (err *MissingNodeError) Unwrap() error {
	return err.Err
}
