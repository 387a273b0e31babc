// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package certificate

import (
	"crypto/tls"

	"github.com/bitmark-inc/datapacker/util"
	"github.com/bitmark-inc/logger"
)

// Get - check the PEM certificate and key of a listener and return
// its TLS configuration and fingerprint
func Get(log *logger.L, name string, certificate string, key string) (*tls.Config, util.FingerprintBytes, error) {
	var fingerprint util.FingerprintBytes

	keyPair, err := tls.X509KeyPair([]byte(certificate), []byte(key))
	if nil != err {
		log.Errorf("%s failed to load keypair: %v", name, err)
		return nil, fingerprint, err
	}

	tlsConfiguration := &tls.Config{
		Certificates: []tls.Certificate{
			keyPair,
		},
		MinVersion: tls.VersionTLS12,
	}

	fingerprint = util.Fingerprint(keyPair.Certificate[0])
	log.Infof("%s: SHA3-256 fingerprint: %x", name, fingerprint)

	return tlsConfiguration, fingerprint, nil
}
