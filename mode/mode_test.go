// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mode_test

import (
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/msigd/mode"
)

const (
	testingDirName = "testing"
)

func TestMain(m *testing.M) {
	_ = os.RemoveAll(testingDirName)
	_ = os.Mkdir(testingDirName, 0700)
	_ = logger.Initialise(logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	})
	rc := m.Run()
	logger.Finalise()
	_ = os.RemoveAll(testingDirName)
	os.Exit(rc)
}

func TestMode(t *testing.T) {
	s := mode.New()

	assert.True(t, s.Is(mode.Resynchronise), "initial mode")
	assert.Equal(t, "Resynchronise", s.String(), "initial string")

	_, started := s.Current()

	s.Set(mode.Normal)
	assert.True(t, s.Is(mode.Normal), "normal")
	assert.True(t, s.IsNot(mode.Resynchronise), "not resynchronise")

	m, changed := s.Current()
	assert.Equal(t, mode.Normal, m, "current")
	assert.False(t, changed.Before(started), "change time")

	// invalid values are ignored
	s.Set(mode.Mode(99))
	assert.True(t, s.Is(mode.Normal), "still normal")

	s.Set(mode.Stopped)
	assert.Equal(t, "Stopped", s.String(), "stopped")
}

func TestModeText(t *testing.T) {
	tests := []struct {
		m        mode.Mode
		expected string
	}{
		{mode.Stopped, "Stopped"},
		{mode.Resynchronise, "Resynchronise"},
		{mode.Normal, "Normal"},
		{mode.Mode(7), "*Unknown*"},
	}
	for i, item := range tests {
		b, err := item.m.MarshalText()
		assert.Nil(t, err, "%d: error", i)
		assert.Equal(t, item.expected, string(b), "%d: text", i)
	}
}
