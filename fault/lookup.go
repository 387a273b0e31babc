// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// errors that may be returned by a remote node, indexed by message
var remote = map[string]error{}

func init() {
	for _, e := range []error{
		AccountAlreadyInUse,
		AccountDataModified,
		AccountNotFound,
		AccountNotWritable,
		AddressMismatch,
		BucketAlreadyExists,
		BucketNotInitialised,
		BucketOverflow,
		CallDepthExceeded,
		DataTooLarge,
		DuplicateTransaction,
		InsufficientFunding,
		InvalidAccountData,
		InvalidProgramId,
		InvalidSeeds,
		InvalidSignature,
		LamportsNotBalanced,
		LamportsSpentByNonOwner,
		MalformedOperation,
		MalformedTransaction,
		MessageTooLarge,
		MissingParameters,
		MissingSignature,
		NotAvailableOnThisChain,
		NotProgramAccount,
		OffsetMismatch,
		OwnerChangeNotPermitted,
		PrivilegeEscalation,
		ProgramNotFound,
		RateLimiting,
		ReallocTooLarge,
		StaleMarker,
		UnknownOperation,
		UnknownSystemInstruction,
	} {
		remote[e.Error()] = e
	}
}

// Lookup - convert an error message received from a remote node back
// to the corresponding error instance
//
// unrecognised messages are returned as a plain error
func Lookup(message string) error {
	if e, ok := remote[message]; ok {
		return e
	}
	return errors.New(message)
}
