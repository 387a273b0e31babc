// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bucketrecord

import (
	"github.com/bitmark-inc/datapacker/fault"
	"github.com/bitmark-inc/datapacker/util"
)

// Unpack - turn a byte slice into an operation
//
// returns the number of bytes consumed, the caller decides whether
// trailing bytes are acceptable
//
// must cast result to correct type
//
// e.g.
//   switch op := result.(type) {
//   case *bucketrecord.CreateBucket:
func (record Packed) Unpack() (o Operation, n int, e error) {

	defer func() {
		if r := recover(); nil != r {
			o = nil
			n = 0
			e = fault.MalformedOperation
		}
	}()

	if len(record) > MaxPackedLength {
		return nil, 0, fault.MessageTooLarge
	}

	recordType, n := util.FromVarint64(record)
	if 0 == n {
		return nil, 0, fault.MalformedOperation
	}

unpack_switch:
	switch TagType(recordType) {

	case CreateBucketTag:

		data, dataLength := unpackBytes(record[n:])
		if 0 == dataLength {
			break unpack_switch
		}
		n += dataLength

		total, totalLength := util.FromVarint64(record[n:])
		if 0 == totalLength {
			break unpack_switch
		}
		n += totalLength
		if total < uint64(len(data)) {
			break unpack_switch
		}

		// bump is the final byte
		if n >= len(record) {
			break unpack_switch
		}
		bump := record[n]
		n += 1

		r := &CreateBucket{
			Data:        data,
			TotalLength: total,
			Bump:        bump,
		}
		return r, n, nil

	case AppendIntoBucketTag:

		offset, offsetLength := util.FromVarint64(record[n:])
		if 0 == offsetLength {
			break unpack_switch
		}
		n += offsetLength

		data, dataLength := unpackBytes(record[n:])
		if 0 == dataLength {
			break unpack_switch
		}
		n += dataLength

		r := &AppendIntoBucket{
			Offset: offset,
			Data:   data,
		}
		return r, n, nil

	default:
		return nil, 0, fault.UnknownOperation
	}
	return nil, 0, fault.MalformedOperation
}

// Decode - unpack a buffer that must contain exactly one operation
func Decode(buffer []byte) (Operation, error) {
	operation, n, err := Packed(buffer).Unpack()
	if nil != err {
		return nil, err
	}
	if n != len(buffer) {
		return nil, fault.MalformedOperation
	}
	return operation, nil
}

// read a count and that many bytes, returning a copy
//
// zero length means failure, an empty payload still consumes its count
func unpackBytes(buffer []byte) ([]byte, int) {
	length, n := util.ClippedVarint64(buffer, 0, MaxChunkLength)
	if 0 == n {
		return nil, 0
	}
	if n+length > len(buffer) {
		return nil, 0
	}
	data := make([]byte, length)
	copy(data, buffer[n:n+length])
	return data, n + length
}
