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

package csv

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/stream"
)

const testData = `$key,host:BINARY,cpu:DOUBLE{unit=pct},n:INT,up:BOOL
1,a,0.5,3,true
2,b,,4,false
,c,1.25,,TRUE
`

func readAll(t *testing.T, rd stream.RowStream) []stream.Row {
	var rows []stream.Row
	for rd.HasNext() {
		row, err := rd.Next()
		require.NoError(t, err)
		rows = append(rows, row)
	}
	return rows
}

func key(v int64) *int64 {
	return &v
}

func TestReader(t *testing.T) {
	rd, err := NewReader(context.TODO(), strings.NewReader(testData))
	require.NoError(t, err)
	defer rd.Close()

	h := rd.Header()
	require.NotNil(t, h.Key)
	require.Equal(t, []string{"host", "cpu", "n", "up"}, h.Schema().Attrs())
	require.Equal(t, types.T_float64, h.Fields[1].Type.Oid)
	require.Equal(t, "pct", h.Fields[1].Tags["unit"])

	require.Equal(t, []stream.Row{
		{Key: key(1), Values: []any{[]byte("a"), 0.5, int32(3), true}},
		{Key: key(2), Values: []any{[]byte("b"), nil, int32(4), false}},
		{Values: []any{[]byte("c"), 1.25, nil, true}},
	}, readAll(t, rd))
}

func TestRoundTrip(t *testing.T) {
	rd, err := NewReader(context.TODO(), strings.NewReader(testData))
	require.NoError(t, err)
	bs, err := stream.ToBatchStream(rd, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, stream.ToRowStream(bs)))
	require.Equal(t, strings.Replace(testData, "TRUE", "true", 1), buf.String())
}

func TestManyRows(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("n:BIGINT\n")
	for i := 0; i < ReadRows*2+5; i++ {
		buf.WriteString("7\n")
	}
	rd, err := NewReader(context.TODO(), &buf)
	require.NoError(t, err)
	require.Len(t, readAll(t, rd), ReadRows*2+5)
}

func TestReaderErrors(t *testing.T) {
	_, err := NewReader(context.TODO(), strings.NewReader(""))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))

	_, err = NewReader(context.TODO(), strings.NewReader("a:DATE\n"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrUnsupportedTyp))

	rd, err := NewReader(context.TODO(), strings.NewReader("a:INT,b:INT\n1,x\n2,3\n"))
	require.NoError(t, err)
	_, err = rd.Next()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
	row, err := rd.Next()
	require.NoError(t, err)
	require.Equal(t, []any{int32(2), int32(3)}, row.Values)
	require.False(t, rd.HasNext())
	_, err = rd.Next()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidState))
}
