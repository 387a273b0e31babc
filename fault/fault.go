// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError

// common errors - keep in alphabetic order
var (
	AccountAlreadyInUse          = ExistsError("account already in use")
	AccountDataModified          = InvalidError("account data modified by non-owner program")
	AccountNotFound              = NotFoundError("account not found")
	AccountNotWritable           = InvalidError("account is not writable")
	AddressMismatch              = InvalidError("bucket address does not match derived address")
	AlreadyInitialised           = ExistsError("already initialised")
	BucketAlreadyExists          = ExistsError("bucket already exists")
	BucketNotInitialised         = NotFoundError("bucket not initialised")
	BucketOverflow               = InvalidError("append exceeds bucket total length")
	CallDepthExceeded            = ProcessError("invocation call depth exceeded")
	CertificateFileAlreadyExists = ExistsError("certificate file already exists")
	ChecksumMismatch             = InvalidError("checksum mismatch")
	ConfigurationNotFound        = NotFoundError("configuration file not found")
	DataTooLarge                 = LengthError("account data too large")
	DuplicateTransaction         = ExistsError("transaction already processed")
	IdentityNotFound             = NotFoundError("identity not found")
	InsufficientFunding          = ProcessError("insufficient funds for storage deposit")
	InvalidAccountData           = RecordError("invalid account data")
	InvalidChain                 = InvalidError("invalid chain")
	InvalidIpAddress             = InvalidError("invalid IP address")
	InvalidKeyLength             = InvalidError("invalid key length")
	InvalidMarkerInterval        = InvalidError("invalid marker interval")
	InvalidProgramId             = InvalidError("invalid program id")
	InvalidSeedHeader            = InvalidError("invalid seed header")
	InvalidSeedLength            = InvalidError("invalid seed length")
	InvalidSeeds                 = InvalidError("invalid seeds for program address")
	InvalidSignature             = InvalidError("invalid signature")
	InvalidStructPointer         = InvalidError("invalid struct pointer")
	KeyFileAlreadyExists         = ExistsError("key file already exists")
	LamportsNotBalanced          = InvalidError("sum of account balances changed")
	LamportsSpentByNonOwner      = InvalidError("balance debited by non-owner program")
	MalformedOperation           = RecordError("malformed operation")
	MalformedTransaction         = RecordError("malformed transaction")
	MessageTooLarge              = LengthError("message exceeds size limit")
	MissingParameters            = InvalidError("missing parameters")
	MissingSignature             = InvalidError("missing required signature")
	NotAvailableOnThisChain      = InvalidError("not available on this chain")
	NotInitialised               = NotFoundError("not initialised")
	NotProgramAccount            = InvalidError("account is not an executable program")
	OffsetMismatch               = InvalidError("append offset does not match bucket length")
	OwnerChangeNotPermitted      = InvalidError("account owner changed by non-system program")
	PrivilegeEscalation          = InvalidError("cross-program invocation privilege escalation")
	ProgramNotFound              = NotFoundError("program not found")
	RateLimiting                 = InvalidError("rate limiting")
	ReallocTooLarge              = LengthError("account reallocation exceeds permitted increase")
	StaleMarker                  = InvalidError("transaction marker is too old or in the future")
	TransportFailure             = ProcessError("transport failure")
	UnknownOperation             = RecordError("unknown operation")
	UnknownSystemInstruction     = RecordError("unknown system instruction")
	UploadInterrupted            = ProcessError("upload interrupted")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RecordError) Error() string   { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { var x ExistsError; return errors.As(e, &x) }
func IsErrInvalid(e error) bool  { var x InvalidError; return errors.As(e, &x) }
func IsErrLength(e error) bool   { var x LengthError; return errors.As(e, &x) }
func IsErrNotFound(e error) bool { var x NotFoundError; return errors.As(e, &x) }
func IsErrProcess(e error) bool  { var x ProcessError; return errors.As(e, &x) }
func IsErrRecord(e error) bool   { var x RecordError; return errors.As(e, &x) }
