// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// classes used by the chain tracking
type MalformedError GenericError
type ProtocolError GenericError
type QueryError GenericError
type TransportError GenericError

// common errors - keep in alphabetic order
var (
	AlreadyInitialised        = ExistsError("already initialised")
	ApprovalsRowMissing       = MalformedError("approvals row missing for proposal")
	BootstrapIncomplete       = ProcessError("bootstrap incomplete")
	ChainIdMismatch           = ProtocolError("chain id mismatch")
	ConfigurationFileNotFound = NotFoundError("configuration file not found")
	ConfigurationNotTable     = InvalidError("configuration did not return a table")
	ExtensionOrder            = InvalidError("extension field present after absent extension")
	FrameTooLarge             = ProtocolError("frame too large")
	FrameTooSmall             = ProtocolError("frame too small")
	HTTPStatus                = QueryError("unexpected HTTP status")
	InvalidAccountName        = InvalidError("invalid account name")
	InvalidCompression        = MalformedError("invalid compression type")
	InvalidCount              = InvalidError("invalid count")
	InvalidDuration           = InvalidError("invalid duration")
	InvalidHex                = MalformedError("invalid hex data")
	InvalidPath               = InvalidError("invalid path")
	InvalidPeerAddress        = InvalidError("invalid peer address")
	InvalidSignature          = InvalidError("invalid signature")
	InvalidStructPointer      = InvalidError("invalid struct pointer")
	LengthOutOfRange          = MalformedError("length out of range")
	MissingParameters         = InvalidError("missing parameters")
	MissingRequiredField      = MalformedError("required field missing after absent extension")
	NotConnected              = TransportError("not connected")
	NotEnoughBytes            = MalformedError("not enough bytes")
	NotInitialised            = NotFoundError("not initialised")
	NoSuchProposal            = NotFoundError("no such proposal")
	PeerClosed                = TransportError("peer closed connection")
	PeerGoAway                = TransportError("peer sent go away")
	ProposalExists            = ExistsError("proposal already exists")
	QueryFailed               = QueryError("chain query failed")
	RateLimiting              = ProcessError("rate limiting")
	ResolverIncomplete        = QueryError("authorization closure incomplete")
	TrailingBytes             = MalformedError("trailing bytes after record")
	UnknownMessageType        = ProtocolError("unknown message type")
	UnknownVariant            = MalformedError("unknown variant")
	ValueOutOfRange           = LengthError("value out of range")
	WrongMessageType          = ProtocolError("wrong message type")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string    { return string(e) }
func (e InvalidError) Error() string   { return string(e) }
func (e LengthError) Error() string    { return string(e) }
func (e NotFoundError) Error() string  { return string(e) }
func (e ProcessError) Error() string   { return string(e) }
func (e MalformedError) Error() string { return string(e) }
func (e ProtocolError) Error() string  { return string(e) }
func (e QueryError) Error() string     { return string(e) }
func (e TransportError) Error() string { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool    { var t ExistsError; return errors.As(e, &t) }
func IsErrInvalid(e error) bool   { var t InvalidError; return errors.As(e, &t) }
func IsErrLength(e error) bool    { var t LengthError; return errors.As(e, &t) }
func IsErrNotFound(e error) bool  { var t NotFoundError; return errors.As(e, &t) }
func IsErrProcess(e error) bool   { var t ProcessError; return errors.As(e, &t) }
func IsErrMalformed(e error) bool { var t MalformedError; return errors.As(e, &t) }
func IsErrProtocol(e error) bool  { var t ProtocolError; return errors.As(e, &t) }
func IsErrQuery(e error) bool     { var t QueryError; return errors.As(e, &t) }
func IsErrTransport(e error) bool { var t TransportError; return errors.As(e, &t) }

// Malformed - wrap a decoding error with the name of the item that
// could not be decoded, keeps the class of the original error
func Malformed(item string, err error) error {
	return &wrapped{context: item, err: err}
}

type wrapped struct {
	context string
	err     error
}

func (w *wrapped) Error() string { return w.context + ": " + w.err.Error() }
func (w *wrapped) Unwrap() error { return w.err }
