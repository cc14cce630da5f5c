// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"strconv"
	"strings"

	"github.com/polystore/polystore/pkg/common/moerr"
)

func ParseBool(s string) (bool, error) {
	// try to parse as a bool, we treat TuRe as true, therefore ToLower.
	v, err := strconv.ParseBool(strings.ToLower(s))
	if err == nil {
		return v, nil
	}

	// try to parse as a number.   We treat 0 as false, and other numbers as true.
	num, err := strconv.ParseFloat(s, 64)
	if err == nil {
		return num != 0.0, nil
	}

	return false, moerr.NewInvalidInputNoCtx("'%s' is not a valid bool expression", s)
}

// ParseValue converts the text form of a value of type t into its Go value.
func ParseValue(s string, t T) (any, error) {
	switch t {
	case T_bool:
		return ParseBool(s)
	case T_int32:
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
		if err != nil {
			return nil, moerr.NewInvalidInputNoCtx("'%s' is not a valid INT", s)
		}
		return int32(v), nil
	case T_int64:
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, moerr.NewInvalidInputNoCtx("'%s' is not a valid BIGINT", s)
		}
		return v, nil
	case T_float32:
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
		if err != nil {
			return nil, moerr.NewInvalidInputNoCtx("'%s' is not a valid FLOAT", s)
		}
		return float32(v), nil
	case T_float64:
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, moerr.NewInvalidInputNoCtx("'%s' is not a valid DOUBLE", s)
		}
		return v, nil
	case T_binary:
		return []byte(s), nil
	}
	return nil, moerr.NewUnsupportedTypeNoCtx(t.String())
}

// FormatValue is the inverse of ParseValue.
func FormatValue(v any) string {
	switch x := v.(type) {
	case bool:
		return strconv.FormatBool(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case []byte:
		return string(x)
	}
	return ""
}
