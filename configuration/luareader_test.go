// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/msigd/configuration"
	"github.com/bitmark-inc/msigd/fault"
)

type peering struct {
	Host string `gluamapper:"host"`
	Port int    `gluamapper:"port"`
}

type testConfiguration struct {
	DataDirectory string            `gluamapper:"data_directory"`
	Name          string            `gluamapper:"name"`
	Listen        []string          `gluamapper:"listen"`
	Peering       peering           `gluamapper:"peering"`
	Levels        map[string]string `gluamapper:"levels"`
	Enabled       bool              `gluamapper:"enabled"`
}

const script = `
local M = {}

M.data_directory = "."
M.name = arg[1] or "default"
M.listen = { "127.0.0.1:8080", "[::1]:8080" }
M.peering = {
    host = "node.example.com",
    port = 9876,
}
M.levels = {
    main = "info",
    DEFAULT = "critical",
}
M.enabled = true

return M
`

func writeFile(t *testing.T, text string) (string, func()) {
	dir, err := ioutil.TempDir("", "configuration")
	if !assert.Nil(t, err, "temp dir") {
		t.FailNow()
	}
	fileName := filepath.Join(dir, "test.conf")
	err = ioutil.WriteFile(fileName, []byte(text), 0600)
	assert.Nil(t, err, "write file")
	return fileName, func() { os.RemoveAll(dir) }
}

func TestParse(t *testing.T) {
	fileName, cleanup := writeFile(t, script)
	defer cleanup()

	c := testConfiguration{
		Name: "unchanged",
	}
	err := configuration.ParseConfigurationFile(fileName, &c)
	assert.Nil(t, err, "parse")

	expected := testConfiguration{
		DataDirectory: ".",
		Name:          "default",
		Listen:        []string{"127.0.0.1:8080", "[::1]:8080"},
		Peering: peering{
			Host: "node.example.com",
			Port: 9876,
		},
		Levels: map[string]string{
			"main":    "info",
			"DEFAULT": "critical",
		},
		Enabled: true,
	}
	assert.Equal(t, expected, c, "configuration")
}

func TestParseArguments(t *testing.T) {
	fileName, cleanup := writeFile(t, script)
	defer cleanup()

	c := testConfiguration{}
	err := configuration.ParseConfigurationFile(fileName, &c, "from-argument")
	assert.Nil(t, err, "parse")
	assert.Equal(t, "from-argument", c.Name, "name")
}

func TestParseErrors(t *testing.T) {
	fileName, cleanup := writeFile(t, "return 42\n")
	defer cleanup()

	c := testConfiguration{}

	err := configuration.ParseConfigurationFile(fileName, c)
	assert.Equal(t, fault.InvalidStructPointer, err, "not a pointer")

	err = configuration.ParseConfigurationFile(fileName, &c)
	assert.Equal(t, fault.ConfigurationNotTable, err, "not a table")

	err = configuration.ParseConfigurationFile(fileName+".missing", &c)
	assert.True(t, fault.IsErrNotFound(err), "missing file")

	badFile, badCleanup := writeFile(t, "this is not lua")
	defer badCleanup()

	err = configuration.ParseConfigurationFile(badFile, &c)
	assert.NotNil(t, err, "syntax error")
}

func TestDuration(t *testing.T) {
	items := []struct {
		value    string
		expected time.Duration
		valid    bool
	}{
		{"", 7 * time.Second, true},
		{"3s", 3 * time.Second, true},
		{"250ms", 250 * time.Millisecond, true},
		{"0s", 0, true},
		{"-1s", 0, false},
		{"soon", 0, false},
	}

	for i, item := range items {
		d, err := configuration.Duration("delay", item.value, 7*time.Second)
		if item.valid {
			assert.Nil(t, err, "%d: error", i)
			assert.Equal(t, item.expected, d, "%d: duration", i)
		} else {
			assert.True(t, fault.IsErrInvalid(err), "%d: invalid", i)
		}
	}
}
