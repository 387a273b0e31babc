// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"time"

	"github.com/bitmark-inc/datapacker/fault"
	"github.com/bitmark-inc/logger"
)

// Ticker - background process advancing the marker clock
type Ticker struct {
	log      *logger.L
	ledger   *Ledger
	interval time.Duration
	reset    chan time.Duration
}

// NewTicker - create a marker ticker for use with background.Start
func NewTicker(log *logger.L, l *Ledger, interval time.Duration) *Ticker {
	return &Ticker{
		log:      log,
		ledger:   l,
		interval: interval,
		reset:    make(chan time.Duration, 1),
	}
}

// SetInterval - change the tick period of a running ticker
func (t *Ticker) SetInterval(interval time.Duration) error {
	if interval <= 0 {
		return fault.InvalidMarkerInterval
	}

	// replace any change not yet taken
	for {
		select {
		case t.reset <- interval:
			return nil
		default:
		}
		select {
		case <-t.reset:
		default:
		}
	}
}

// Run - tick until shutdown is closed
func (t *Ticker) Run(args interface{}, shutdown <-chan struct{}) {
	t.log.Infof("starting: interval: %s", t.interval)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case interval := <-t.reset:
			if interval != t.interval {
				t.log.Infof("interval: %s -> %s", t.interval, interval)
				t.interval = interval
				ticker.Reset(interval)
			}
		case <-ticker.C:
			marker, err := t.ledger.Tick()
			if nil != err {
				t.log.Errorf("tick: marker: %d  error: %s", marker, err)
				continue loop
			}
			t.log.Tracef("marker: %d", marker)
		}
	}

	t.log.Info("stopped")
}
