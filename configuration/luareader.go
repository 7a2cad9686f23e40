// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/yuin/gluamapper"
	lua "github.com/yuin/gopher-lua"

	"github.com/bitmark-inc/msigd/fault"
)

// ParseConfigurationFile - read and execute a Lua file and assign
// the results to a configuration structure
//
// the global "arg" table holds the file name at index 0 followed by
// any extra arguments
func ParseConfigurationFile(fileName string, config interface{}, args ...string) error {

	// since interface{} is untyped, have to verify type compatibility at run-time
	rv := reflect.ValueOf(config)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fault.InvalidStructPointer
	}

	if _, err := os.Stat(fileName); nil != err {
		return fmt.Errorf("%w: %s", fault.ConfigurationFileNotFound, fileName)
	}

	L := lua.NewState()
	defer L.Close()

	L.OpenLibs()

	// create the global "arg" table
	// arg[0] = config file
	arg := &lua.LTable{}
	arg.Insert(0, lua.LString(fileName))
	for i, a := range args {
		arg.RawSetInt(i+1, lua.LString(a))
	}
	L.SetGlobal("arg", arg)

	// execute configuration
	if err := L.DoFile(fileName); err != nil {
		return err
	}

	table, ok := L.Get(L.GetTop()).(*lua.LTable)
	if !ok {
		return fault.ConfigurationNotTable
	}

	mapperOption := gluamapper.Option{
		NameFunc: func(s string) string {
			return s
		},
		TagName: "gluamapper",
	}
	mapper := gluamapper.Mapper{Option: mapperOption}
	return mapper.Map(table, config)
}

// Duration - parse a configured duration such as "3s" or "250ms"
//
// an empty value gives the default
func Duration(name string, value string, defaultValue time.Duration) (time.Duration, error) {
	if "" == value {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if nil != err {
		return 0, fmt.Errorf("%w: %s: %q", fault.InvalidDuration, name, value)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s: %q", fault.InvalidDuration, name, value)
	}
	return d, nil
}
