// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bucketrecord_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/datapacker/bucketrecord"
	"github.com/bitmark-inc/datapacker/fault"
)

func TestPackCreateBucket(t *testing.T) {
	create := &bucketrecord.CreateBucket{
		Data:        []byte{0xaa, 0xbb, 0xcc},
		TotalLength: 300,
		Bump:        254,
	}

	expected := []byte{
		0x00,             // tag
		0x03,             // data length
		0xaa, 0xbb, 0xcc, // data
		0xac, 0x02, // total length 300
		0xfe, // bump
	}

	packed, err := create.Pack()
	assert.Nil(t, err, "pack")
	assert.Equal(t, expected, []byte(packed), "packed bytes")

	operation, n, err := packed.Unpack()
	assert.Nil(t, err, "unpack")
	assert.Equal(t, len(expected), n, "consumed")
	assert.Equal(t, create, operation, "round trip")
}

func TestPackAppendIntoBucket(t *testing.T) {
	appendInto := &bucketrecord.AppendIntoBucket{
		Offset: 768,
		Data:   []byte{0x01, 0x02},
	}

	expected := []byte{
		0x01,       // tag
		0x80, 0x06, // offset 768
		0x02,       // data length
		0x01, 0x02, // data
	}

	packed, err := appendInto.Pack()
	assert.Nil(t, err, "pack")
	assert.Equal(t, expected, []byte(packed), "packed bytes")

	operation, err := bucketrecord.Decode(packed)
	assert.Nil(t, err, "decode")
	assert.Equal(t, appendInto, operation, "round trip")
}

func TestRoundTripSizes(t *testing.T) {
	for _, size := range []int{0, 1, 767, 768} {
		data := bytes.Repeat([]byte{0x5a}, size)

		create := &bucketrecord.CreateBucket{
			Data:        data,
			TotalLength: 1 << 40,
			Bump:        255,
		}
		packed, err := create.Pack()
		assert.Nil(t, err, "%d: pack create", size)
		assert.True(t, len(packed) <= bucketrecord.MaxPackedLength, "%d: create size: %d", size, len(packed))

		operation, err := bucketrecord.Decode(packed)
		assert.Nil(t, err, "%d: decode create", size)
		assert.Equal(t, create, operation, "%d: create round trip", size)

		appendInto := &bucketrecord.AppendIntoBucket{
			Offset: 1<<40 - 1,
			Data:   data,
		}
		packed, err = appendInto.Pack()
		assert.Nil(t, err, "%d: pack append", size)
		assert.True(t, len(packed) <= bucketrecord.MaxPackedLength, "%d: append size: %d", size, len(packed))

		operation, err = bucketrecord.Decode(packed)
		assert.Nil(t, err, "%d: decode append", size)
		assert.Equal(t, appendInto, operation, "%d: append round trip", size)
	}
}

func TestPackInvalid(t *testing.T) {
	tooBig := make([]byte, bucketrecord.MaxChunkLength+1)

	_, err := (&bucketrecord.CreateBucket{Data: tooBig, TotalLength: 10000}).Pack()
	assert.Equal(t, fault.DataTooLarge, err, "create oversize chunk")

	_, err = (&bucketrecord.AppendIntoBucket{Data: tooBig}).Pack()
	assert.Equal(t, fault.DataTooLarge, err, "append oversize chunk")

	_, err = (&bucketrecord.CreateBucket{Data: []byte{1, 2, 3}, TotalLength: 2}).Pack()
	assert.Equal(t, fault.MalformedOperation, err, "total below first chunk")
}

func TestUnpackInvalid(t *testing.T) {
	tests := []struct {
		name   string
		record []byte
		err    error
	}{
		{"empty", []byte{}, fault.MalformedOperation},
		{"unknown tag", []byte{0x02, 0x00}, fault.UnknownOperation},
		{"large unknown tag", []byte{0x80, 0x01}, fault.UnknownOperation},
		{"unterminated tag", []byte{0x80}, fault.MalformedOperation},
		{"create without data", []byte{0x00}, fault.MalformedOperation},
		{"create short data", []byte{0x00, 0x05, 0x01, 0x02}, fault.MalformedOperation},
		{"create no total", []byte{0x00, 0x01, 0x01}, fault.MalformedOperation},
		{"create no bump", []byte{0x00, 0x01, 0x01, 0x01}, fault.MalformedOperation},
		{"create total too small", []byte{0x00, 0x02, 0x01, 0x02, 0x01, 0xff}, fault.MalformedOperation},
		{"chunk count over limit", []byte{0x00, 0x81, 0x06}, fault.MalformedOperation},
		{"append no offset", []byte{0x01}, fault.MalformedOperation},
		{"append no data", []byte{0x01, 0x00}, fault.MalformedOperation},
		{"append short data", []byte{0x01, 0x00, 0x03, 0x01}, fault.MalformedOperation},
		{"oversize message", make([]byte, bucketrecord.MaxPackedLength+1), fault.MessageTooLarge},
	}

	for _, item := range tests {
		operation, n, err := bucketrecord.Packed(item.record).Unpack()
		assert.Equal(t, item.err, err, item.name)
		assert.Nil(t, operation, item.name)
		assert.Equal(t, 0, n, item.name)
	}
}

func TestUnpackDoesNotReadPastLength(t *testing.T) {
	// capacity holds the missing bytes, length does not
	buffer := []byte{0x01, 0x00, 0x03, 0x01, 0x02, 0x03}
	_, _, err := bucketrecord.Packed(buffer[:4]).Unpack()
	assert.Equal(t, fault.MalformedOperation, err, "truncated within capacity")
}

func TestDecodeTrailingBytes(t *testing.T) {
	packed, err := (&bucketrecord.AppendIntoBucket{Offset: 0, Data: []byte{9}}).Pack()
	assert.Nil(t, err, "pack")

	_, n, err := append(packed, 0x00).Unpack()
	assert.Nil(t, err, "unpack ignores trailing")
	assert.Equal(t, len(packed), n, "consumed")

	_, err = bucketrecord.Decode(append(packed, 0x00))
	assert.Equal(t, fault.MalformedOperation, err, "decode rejects trailing")
}
