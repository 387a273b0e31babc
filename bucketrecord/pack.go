// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bucketrecord

import (
	"github.com/bitmark-inc/datapacker/fault"
	"github.com/bitmark-inc/datapacker/util"
)

// Pack - pack CreateBucket
//
// Varint64(tag) ++ Varint64(len) ++ data ++ Varint64(total) ++ bump
func (create *CreateBucket) Pack() (Packed, error) {
	if len(create.Data) > MaxChunkLength {
		return nil, fault.DataTooLarge
	}
	if create.TotalLength < uint64(len(create.Data)) {
		return nil, fault.MalformedOperation
	}

	message := util.ToVarint64(uint64(CreateBucketTag))
	message = appendBytes(message, create.Data)
	message = util.AppendVarint64(message, create.TotalLength)
	message = append(message, create.Bump)

	return checkLength(message)
}

// Pack - pack AppendIntoBucket
//
// Varint64(tag) ++ Varint64(offset) ++ Varint64(len) ++ data
func (appendInto *AppendIntoBucket) Pack() (Packed, error) {
	if len(appendInto.Data) > MaxChunkLength {
		return nil, fault.DataTooLarge
	}

	message := util.ToVarint64(uint64(AppendIntoBucketTag))
	message = util.AppendVarint64(message, appendInto.Offset)
	message = appendBytes(message, appendInto.Data)

	return checkLength(message)
}

// append a count and bytes to a buffer
func appendBytes(buffer Packed, data []byte) Packed {
	buffer = util.AppendVarint64(buffer, uint64(len(data)))
	return append(buffer, data...)
}

func checkLength(message Packed) (Packed, error) {
	if len(message) > MaxPackedLength {
		return nil, fault.MessageTooLarge
	}
	return message, nil
}
