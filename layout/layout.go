// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package layout

import (
	"encoding/binary"

	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/fault"
)

// bucket account data layout, integers little-endian
//
//   0  last updated marker   8
//   8  authority present     1
//   9  authority            32
//  41  total length          8
//  49  reserved (zero)      23
//  72  data                  ...
const (
	markerOffset      = 0
	presenceOffset    = 8
	authorityOffset   = 9
	totalLengthOffset = 41
	reservedOffset    = 49

	// HeaderLength - fixed size of the bucket header
	HeaderLength = 72
)

// presence flag values
const (
	authorityAbsent  = 0
	authorityPresent = 1
)

// Header - the fixed part of a bucket account
type Header struct {
	LastUpdatedMarker uint64           `json:"lastUpdatedMarker"`
	Authority         *account.Address `json:"authority"` // nil is the closed state
	TotalLength       uint64           `json:"totalLength"`
}

// Bucket - decoded bucket account
type Bucket struct {
	Header
	Data []byte `json:"data"`
}

// Size - stored account length for a given data length
func Size(dataLength int) int {
	return HeaderLength + dataLength
}

// Pack - the 72 byte header encoding
func (header *Header) Pack() []byte {
	buffer := make([]byte, HeaderLength)
	header.write(buffer)
	return buffer
}

// Write - overwrite the header at the start of account data
func (header *Header) Write(accountData []byte) error {
	if len(accountData) < HeaderLength {
		return fault.InvalidAccountData
	}
	header.write(accountData)
	return nil
}

func (header *Header) write(buffer []byte) {
	binary.LittleEndian.PutUint64(buffer[markerOffset:], header.LastUpdatedMarker)
	if nil == header.Authority {
		buffer[presenceOffset] = authorityAbsent
		copy(buffer[authorityOffset:totalLengthOffset], make([]byte, account.AddressLength))
	} else {
		buffer[presenceOffset] = authorityPresent
		copy(buffer[authorityOffset:totalLengthOffset], header.Authority[:])
	}
	binary.LittleEndian.PutUint64(buffer[totalLengthOffset:], header.TotalLength)
	for i := reservedOffset; i < HeaderLength; i += 1 {
		buffer[i] = 0
	}
}

// UnpackHeader - decode the header from account data
func UnpackHeader(accountData []byte) (*Header, error) {
	if len(accountData) < HeaderLength {
		return nil, fault.InvalidAccountData
	}

	header := &Header{
		LastUpdatedMarker: binary.LittleEndian.Uint64(accountData[markerOffset:]),
		TotalLength:       binary.LittleEndian.Uint64(accountData[totalLengthOffset:]),
	}

	switch accountData[presenceOffset] {
	case authorityAbsent:
	case authorityPresent:
		var authority account.Address
		copy(authority[:], accountData[authorityOffset:totalLengthOffset])
		header.Authority = &authority
	default:
		return nil, fault.InvalidAccountData
	}

	return header, nil
}

// Unpack - decode a complete bucket account
func Unpack(accountData []byte) (*Bucket, error) {
	header, err := UnpackHeader(accountData)
	if nil != err {
		return nil, err
	}
	data := make([]byte, len(accountData)-HeaderLength)
	copy(data, accountData[HeaderLength:])

	return &Bucket{
		Header: *header,
		Data:   data,
	}, nil
}

// DataLength - length of the data region of a stored account
func DataLength(accountData []byte) int {
	if len(accountData) < HeaderLength {
		return 0
	}
	return len(accountData) - HeaderLength
}

// IsComplete - true once every byte of the declared total is stored
func (bucket *Bucket) IsComplete() bool {
	return uint64(len(bucket.Data)) == bucket.TotalLength
}
