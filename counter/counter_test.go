// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/datapacker/counter"
)

func TestCounter(t *testing.T) {
	var c counter.Counter

	assert.True(t, c.IsZero(), "zero at start")

	for i := 0; i < 5; i += 1 {
		c.Increment()
	}
	assert.Equal(t, uint64(5), c.Uint64(), "after increment")

	assert.Equal(t, uint64(4), c.Decrement(), "after decrement")
	for i := 0; i < 4; i += 1 {
		c.Decrement()
	}
	assert.True(t, c.IsZero(), "back to zero")
}

func TestAcquire(t *testing.T) {
	var c counter.Counter

	var wg sync.WaitGroup
	var mutex sync.Mutex
	acquired := 0
	for i := 0; i < 50; i += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.Acquire(10) {
				mutex.Lock()
				acquired += 1
				mutex.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, acquired, "limited acquisitions")
	assert.Equal(t, uint64(10), c.Uint64(), "count")

	c.Decrement()
	assert.True(t, c.Acquire(10), "slot freed")
	assert.False(t, c.Acquire(10), "full again")
}
