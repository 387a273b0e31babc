// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bitmark-inc/datapacker/fault"
)

// common errors - keep in alphabetic order
const (
	ErrIncompleteBucket = fault.ProcessError("bucket holds fewer bytes than its total length")
	ErrMissingAuthor    = fault.InvalidError("author identity file or address is required")
	ErrMissingFiles     = fault.InvalidError("at least one file is required")
	ErrMissingLamports  = fault.InvalidError("lamports must be greater than zero")
	ErrMissingOutput    = fault.InvalidError("output file is required")
	ErrMissingPayer     = fault.InvalidError("payer identity file is required")
	ErrMissingProgram   = fault.InvalidError("program address is required")
)
