// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"encoding/binary"
	"runtime"
	"time"

	"github.com/btcsuite/btcd/btcec"
	"github.com/minio/sha256-simd"

	"github.com/bitmark-inc/msigd/blockrecord"
	"github.com/bitmark-inc/msigd/codec"
	"github.com/bitmark-inc/msigd/fault"
	"github.com/bitmark-inc/msigd/p2p"
)

// give up if no canonical signature appears
const maximumSigningAttempts = 1000

// build a handshake signed by a fresh ephemeral key
func newHandshake(chainID codec.Checksum256, position ChainPosition, p2pAddress string, agent string) (*p2p.HandshakeMessage, error) {

	privateKey, err := btcec.NewPrivateKey(btcec.S256())
	if nil != err {
		return nil, err
	}

	publicKey := blockrecord.PublicKey{
		Type: blockrecord.K1,
	}
	copy(publicKey.Data[:], privateKey.PubKey().SerializeCompressed())

	t := time.Now().UnixNano()
	for i := 0; i < maximumSigningAttempts; i += 1 {

		token := timeToken(t)
		compact, err := btcec.SignCompact(btcec.S256(), privateKey, token[:], true)
		if nil != err {
			return nil, err
		}

		// the chain rejects signatures that are not canonical; a new
		// time gives a new token to sign
		if !isCanonical(compact) {
			t += 1
			continue
		}

		signature := blockrecord.Signature{
			Type: blockrecord.K1,
		}
		copy(signature.Data[:], compact)

		return &p2p.HandshakeMessage{
			NetworkVersion:           p2p.NetworkVersion,
			ChainID:                  chainID,
			NodeID:                   sha256.Sum256(publicKey.Data[:]),
			Key:                      publicKey,
			Time:                     t,
			Token:                    token,
			Signature:                signature,
			P2PAddress:               p2pAddress,
			LastIrreversibleBlockNum: position.LibNum,
			LastIrreversibleBlockID:  position.LibID,
			HeadNum:                  position.HeadNum,
			HeadID:                   position.HeadID,
			OS:                       runtime.GOOS,
			Agent:                    agent,
			Generation:               p2p.Generation,
		}, nil
	}
	return nil, fault.InvalidSignature
}

// sha256 of the little endian time
func timeToken(t int64) codec.Checksum256 {
	var buffer [8]byte
	binary.LittleEndian.PutUint64(buffer[:], uint64(t))
	return sha256.Sum256(buffer[:])
}

// compact signature: recovery byte, r[32], s[32]; neither r nor s may
// have the high bit set or be padded with a redundant zero byte
func isCanonical(sig []byte) bool {
	if blockrecord.SignatureDataSize != len(sig) {
		return false
	}
	return 0 == sig[1]&0x80 &&
		!(0 == sig[1] && 0 == sig[2]&0x80) &&
		0 == sig[33]&0x80 &&
		!(0 == sig[33] && 0 == sig[34]&0x80)
}
