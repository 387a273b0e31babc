// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bitmark-inc/datapacker/configuration"
	"github.com/bitmark-inc/datapacker/ledger"
	"github.com/bitmark-inc/logger"
)

// reloader - apply settings that can change while running
//
// only the marker interval is reloadable, all other changes need a restart
type reloader struct {
	log      *logger.L
	fileName string
	watcher  *configuration.Watcher
	ticker   *ledger.Ticker
}

func (r *reloader) Run(args interface{}, shutdown <-chan struct{}) {
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-r.watcher.Change():
			r.reload()
		}
	}
}

func (r *reloader) reload() {
	options, err := getConfiguration(r.fileName)
	if nil != err {
		r.log.Errorf("reload: %q  error: %s", r.fileName, err)
		return
	}

	interval, err := options.Ledger.markerInterval()
	if nil != err {
		r.log.Errorf("reload: marker interval: %q  error: %s", options.Ledger.MarkerInterval, err)
		return
	}

	err = r.ticker.SetInterval(interval)
	if nil != err {
		r.log.Errorf("reload: set interval: %s  error: %s", interval, err)
	}
}
