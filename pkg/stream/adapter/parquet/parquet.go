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

package parquet

import (
	"bytes"
	"context"
	"io"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/stream"
)

const ReadRows = 512

var _ stream.RowStream = new(Reader)

// Reader is a RowStream over the rows of a parquet file with a flat
// schema. Optional columns are nullable, a top level INT64 column named
// batch.DefaultKeyName becomes the key.
type Reader struct {
	reader *goparquet.Reader
	header stream.Header
	// pos maps a leaf column index to its value position, -1 is the key
	pos []int

	buf    []goparquet.Row
	idx    int
	length int
	eof    bool
	err    error
}

func NewReader(r io.ReaderAt, size int64) (*Reader, error) {
	f, err := goparquet.OpenFile(r, size)
	if err != nil {
		return nil, moerr.NewInvalidInputNoCtx("open parquet file: %s", err.Error())
	}
	rd := &Reader{reader: goparquet.NewReader(f)}
	schema := rd.reader.Schema()
	rd.pos = make([]int, len(schema.Columns()))
	for _, field := range schema.Fields() {
		if !field.Leaf() || field.Repeated() {
			return nil, moerr.NewNYINoCtx("parquet column %s of type %s", field.Name(), field.Type())
		}
		leaf, ok := schema.Lookup(field.Name())
		if !ok {
			return nil, moerr.NewInternalErrorNoCtx("parquet column %s not found", field.Name())
		}
		oid, err := typeOf(field)
		if err != nil {
			return nil, err
		}
		if field.Name() == batch.DefaultKeyName && oid == types.T_int64 {
			rd.header.Key = batch.KeyField()
			rd.pos[leaf.ColumnIndex] = -1
			continue
		}
		rd.pos[leaf.ColumnIndex] = len(rd.header.Fields)
		rd.header.Fields = append(rd.header.Fields, types.NewField(field.Name(), oid, nil))
	}
	return rd, nil
}

func typeOf(field goparquet.Field) (types.T, error) {
	switch field.Type().Kind() {
	case goparquet.Boolean:
		return types.T_bool, nil
	case goparquet.Int32:
		return types.T_int32, nil
	case goparquet.Int64:
		return types.T_int64, nil
	case goparquet.Float:
		return types.T_float32, nil
	case goparquet.Double:
		return types.T_float64, nil
	case goparquet.ByteArray, goparquet.FixedLenByteArray:
		return types.T_binary, nil
	}
	return types.T_any, moerr.NewUnsupportedTypeNoCtx(field.Type().String())
}

func (rd *Reader) Header() stream.Header {
	return rd.header
}

func (rd *Reader) fill() {
	if rd.buf == nil {
		rd.buf = make([]goparquet.Row, ReadRows)
	}
	n, err := rd.reader.ReadRows(rd.buf)
	if err == io.EOF {
		rd.eof, err = true, nil
	}
	rd.idx, rd.length, rd.err = 0, n, err
}

func (rd *Reader) HasNext() bool {
	for rd.idx == rd.length && !rd.eof && rd.err == nil {
		rd.fill()
	}
	return rd.err != nil || rd.idx < rd.length
}

func (rd *Reader) Next() (stream.Row, error) {
	if !rd.HasNext() {
		return stream.Row{}, moerr.NewInvalidStateNoCtx("next row of an exhausted stream")
	}
	if rd.err != nil {
		err := rd.err
		rd.err = nil
		rd.eof = true
		return stream.Row{}, moerr.ConvertGoError(context.Background(), err)
	}
	prow := rd.buf[rd.idx]
	rd.idx++
	row := stream.Row{Values: make([]any, len(rd.header.Fields))}
	for _, v := range prow {
		if v.IsNull() {
			continue
		}
		p := rd.pos[v.Column()]
		if p < 0 {
			key := v.Int64()
			row.Key = &key
			continue
		}
		row.Values[p] = valueOf(v, rd.header.Fields[p].Type.Oid)
	}
	return row, nil
}

func valueOf(v goparquet.Value, oid types.T) any {
	switch oid {
	case types.T_bool:
		return v.Boolean()
	case types.T_int32:
		return v.Int32()
	case types.T_int64:
		return v.Int64()
	case types.T_float32:
		return v.Float()
	case types.T_float64:
		return v.Double()
	default:
		return bytes.Clone(v.ByteArray())
	}
}

func (rd *Reader) Close() error {
	rd.buf = nil
	return rd.reader.Close()
}
