// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "errors"

// ErrCodeExecution is reported when Builtin is asked to run contract code.
// Other execution failures are the go-ethereum core/vm errors.
var ErrCodeExecution = errors.New("contract code execution not supported")
