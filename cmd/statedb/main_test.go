// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/worldstate/world"
)

func runApp(t *testing.T, args ...string) string {
	app := newApp()
	var buf bytes.Buffer
	app.Writer = &buf
	require.NoError(t, app.Run(append([]string{"statedb", "--verbosity", "0"}, args...)))
	return buf.String()
}

func lineValue(out, prefix string) string {
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix))
		}
	}
	return ""
}

func TestCommands(t *testing.T) {
	dataDir := t.TempDir()
	allocPath := filepath.Join(t.TempDir(), "alloc.yaml")
	require.NoError(t, os.WriteFile(allocPath, []byte(testAlloc), 0600))

	const (
		user     = "0xbafe3b6f2a19658df3cb5efca158c93272ff5c0b"
		contract = "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"
		bob      = "0x0000000000000000000000000000000000000b0b"
		slot     = "0x0000000000000000000000000000000000000000000000000000000000000001"
	)

	root := strings.TrimSpace(runApp(t, "init", "--data-dir", dataDir, "--alloc", allocPath))
	require.Len(t, root, 66)

	out := runApp(t, "inspect", "--data-dir", dataDir, "--root", root,
		"--addr", user, "--addr", contract, "--slot", slot, "--strategy", "chunked")
	assert.Contains(t, out, "balance:   1000\n")
	assert.Contains(t, out, "nonce:     1\n")
	assert.Contains(t, out, "code size: 2\n")
	assert.Contains(t, out, "0x68656c6c6f\n")

	out = runApp(t, "transfer", "--data-dir", dataDir, "--root", root,
		"--from", user, "--to", bob, "--value", "100")
	assert.Equal(t, "0", lineValue(out, "used gas:"))
	assert.Equal(t, "", lineValue(out, "error:"))
	assert.Equal(t, "0", lineValue(out, "logs:"))
	root2 := lineValue(out, "root:")
	require.Len(t, root2, 66)
	assert.NotEqual(t, root, root2)

	assert.Equal(t, world.EmptyRoot.String(), lineValue(out, "logs root:"))

	out = runApp(t, "diff", "--data-dir", dataDir, "--root", root, "--against", root2, "--addr", user, "--addr", bob)
	assert.Contains(t, out, "-  balance:   1000\n")
	assert.Contains(t, out, "+  balance:   900\n")
	assert.Contains(t, out, "+  balance:   100\n")
	assert.Contains(t, out, "+  nonce:     2\n")

	out = runApp(t, "diff", "--data-dir", dataDir, "--root", root, "--against", root, "--addr", user)
	assert.Equal(t, "no difference\n", out)

	out = runApp(t, "inspect", "--data-dir", dataDir, "--root", root2, "--addr", user)
	assert.Contains(t, out, "balance:   900\n")
	assert.Contains(t, out, "nonce:     2\n")

	out = runApp(t, "inspect", "--data-dir", dataDir, "--root", root2, "--addr", bob)
	assert.Contains(t, out, "balance:   100\n")

	// the old root is still readable
	out = runApp(t, "inspect", "--data-dir", dataDir, "--root", root, "--addr", bob)
	assert.Contains(t, out, "balance:   0\n")

	// a failed transfer still bumps the nonce
	out = runApp(t, "transfer", "--data-dir", dataDir, "--root", root2,
		"--from", bob, "--to", user, "--value", "1000")
	assert.Equal(t, "insufficient balance for transfer", lineValue(out, "error:"))
	assert.Equal(t, "0", lineValue(out, "used gas:"))
	out = runApp(t, "inspect", "--data-dir", dataDir, "--root", lineValue(out, "root:"), "--addr", bob)
	assert.Contains(t, out, "balance:   100\n")
	assert.Contains(t, out, "nonce:     1\n")

	runApp(t, "compact", "--data-dir", dataDir)
	out = runApp(t, "inspect", "--data-dir", dataDir, "--root", root2, "--addr", bob)
	assert.Contains(t, out, "balance:   100\n")
}

func TestCommandErrors(t *testing.T) {
	dataDir := t.TempDir()
	app := newApp()
	app.Writer = &bytes.Buffer{}

	assert.Error(t, app.Run([]string{"statedb", "init", "--data-dir", dataDir}))
	assert.Error(t, app.Run([]string{"statedb", "inspect", "--data-dir", dataDir}))
	assert.Error(t, app.Run([]string{"statedb", "inspect", "--data-dir", dataDir,
		"--addr", "0xbafe3b6f2a19658df3cb5efca158c93272ff5c0b",
		"--root", "0x1111111111111111111111111111111111111111111111111111111111111111"}))
	assert.Error(t, app.Run([]string{"statedb", "transfer", "--data-dir", dataDir, "--from", "nobody"}))
}
