// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/bitmark-inc/msigd/fault"
)

// PostJSON - send a JSON request body with an HTTP POST and decode
// the JSON response into reply
//
// a non-200 status is returned as a fault.QueryError class error
// carrying the response body
func PostJSON(ctx context.Context, client *http.Client, url string, request interface{}, reply interface{}) error {
	body, err := json.Marshal(request)
	if nil != err {
		return err
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if nil != err {
		return err
	}
	httpRequest.Header.Set("Content-Type", "application/json")

	response, err := client.Do(httpRequest)
	if nil != err {
		return err
	}
	defer response.Body.Close()

	responseBody, err := ioutil.ReadAll(response.Body)
	if nil != err {
		return err
	}

	if http.StatusOK != response.StatusCode {
		return fmt.Errorf("%w: %d on: %q  body: %s", fault.HTTPStatus, response.StatusCode, url, responseBody)
	}
	return json.Unmarshal(responseBody, reply)
}
