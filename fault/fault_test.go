// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/msigd/fault"
)

var (
	ErrExistsOne    = fault.ExistsError("exists one ")
	ErrInvalidOne   = fault.InvalidError("invalid one")
	ErrLengthOne    = fault.LengthError("length one")
	ErrNotFoundOne  = fault.NotFoundError("not found one")
	ErrProcessOne   = fault.ProcessError("process one")
	ErrMalformedOne = fault.MalformedError("malformed one")
	ErrProtocolOne  = fault.ProtocolError("protocol one")
	ErrQueryOne     = fault.QueryError("query one")
	ErrTransportOne = fault.TransportError("transport one")
)

type classes struct {
	exists    bool
	invalid   bool
	length    bool
	notFound  bool
	process   bool
	malformed bool
	protocol  bool
	query     bool
	transport bool
}

func classify(err error) classes {
	return classes{
		exists:    fault.IsErrExists(err),
		invalid:   fault.IsErrInvalid(err),
		length:    fault.IsErrLength(err),
		notFound:  fault.IsErrNotFound(err),
		process:   fault.IsErrProcess(err),
		malformed: fault.IsErrMalformed(err),
		protocol:  fault.IsErrProtocol(err),
		query:     fault.IsErrQuery(err),
		transport: fault.IsErrTransport(err),
	}
}

// test that the various error classes are distinct
func TestClasses(t *testing.T) {
	errorList := []struct {
		err      error
		expected classes
	}{
		{ErrExistsOne, classes{exists: true}},
		{ErrInvalidOne, classes{invalid: true}},
		{ErrLengthOne, classes{length: true}},
		{ErrNotFoundOne, classes{notFound: true}},
		{ErrProcessOne, classes{process: true}},
		{ErrMalformedOne, classes{malformed: true}},
		{ErrProtocolOne, classes{protocol: true}},
		{ErrQueryOne, classes{query: true}},
		{ErrTransportOne, classes{transport: true}},
	}

	for i, e := range errorList {
		assert.Equal(t, e.expected, classify(e.err), "%d: %v", i, e.err)
	}
}

// class must survive wrapping
func TestWrapped(t *testing.T) {
	err := fmt.Errorf("scope: %q  error: %w", "alice", fault.NotEnoughBytes)
	assert.True(t, fault.IsErrMalformed(err), "wrapped with fmt")

	err = fault.Malformed("action: approve", fault.UnknownVariant)
	assert.True(t, fault.IsErrMalformed(err), "wrapped with Malformed")
	assert.Equal(t, "action: approve: unknown variant", err.Error(), "message")

	assert.False(t, fault.IsErrTransport(err), "not transport")
}
