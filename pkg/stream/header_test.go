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

package stream

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/types"
)

func TestParseField(t *testing.T) {
	f, err := ParseField("cpu:double{region=x,host=a}")
	require.NoError(t, err)
	require.Equal(t, types.NewField("cpu", types.T_float64, map[string]string{"host": "a", "region": "x"}), f)
	require.Equal(t, "cpu:DOUBLE{host=a,region=x}", FormatField(f))

	f, err = ParseField("a:b:INT")
	require.NoError(t, err)
	require.Equal(t, "a:b", f.Name)
	require.Equal(t, types.T_int32, f.Type.Oid)

	for _, bad := range []string{"cpu", ":INT", "cpu:DATE", "cpu:INT}", "cpu:INT{host}"} {
		_, err = ParseField(bad)
		require.Error(t, err, bad)
	}
}

func TestParseHeader(t *testing.T) {
	cols := []string{"$key", "name:BINARY", "n:BIGINT{unit=s}"}
	h, err := ParseHeader(cols)
	require.NoError(t, err)
	require.NotNil(t, h.Key)
	require.Len(t, h.Fields, 2)
	require.Equal(t, cols, FormatHeader(h))

	h, err = ParseHeader([]string{"$key:BIGINT", "x:INT"})
	require.NoError(t, err)
	require.NotNil(t, h.Key)

	_, err = ParseHeader([]string{"$key:INT", "x:INT"})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}
