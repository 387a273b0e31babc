// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bucketrecord

// TagType - type code for bucket operations
type TagType uint64

// enumerate the possible operation types
// this is encoded as a Varint64 at start of "Packed"
const (
	CreateBucketTag     = TagType(iota) // allocate bucket and write first chunk
	AppendIntoBucketTag = TagType(iota) // extend bucket data

	// this item must be last
	InvalidTag = TagType(iota)
)

// size limits
const (
	// MaxChunkLength - largest data payload of one operation
	MaxChunkLength = 768

	// MaxPackedLength - the ledger packet ceiling: 1280 byte path MTU
	// less IPv6 and UDP headers
	MaxPackedLength = 1280 - 40 - 8
)

// Packed - packed records are just a byte slice
type Packed []byte

// Operation - generic bucket operation interface
type Operation interface {
	Pack() (Packed, error)
}

// CreateBucket - allocate the bucket, write header and first chunk
type CreateBucket struct {
	Data        []byte `json:"data"`        // first chunk
	TotalLength uint64 `json:"totalLength"` // intended final data length
	Bump        byte   `json:"bump"`        // canonical derivation bump
}

// AppendIntoBucket - append a chunk at the current end of data
type AppendIntoBucket struct {
	Offset uint64 `json:"offset"` // must equal the stored data length
	Data   []byte `json:"data"`   // chunk
}
