// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/datapacker/chain"
	"github.com/bitmark-inc/datapacker/fault"
	"github.com/bitmark-inc/datapacker/fixtures"
	"github.com/bitmark-inc/datapacker/mode"
)

func TestMode(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	err := mode.Initialise("bitmark")
	assert.Equal(t, fault.InvalidChain, err, "unknown chain")

	err = mode.Initialise(chain.Local)
	assert.Nil(t, err, "initialise")
	defer mode.Finalise()

	err = mode.Initialise(chain.Local)
	assert.Equal(t, fault.AlreadyInitialised, err, "twice")

	assert.True(t, mode.IsTesting(), "local is a test chain")
	assert.Equal(t, chain.Local, mode.ChainName(), "chain name")
	assert.True(t, mode.Is(mode.Stopped), "starts stopped")

	mode.Set(mode.Normal)
	assert.True(t, mode.Is(mode.Normal), "normal")
	assert.Equal(t, "Normal", mode.String(), "string")
}
