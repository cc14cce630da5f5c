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
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/matrixorigin/simdcsv"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/stream"
)

// ReadRows is the number of records parsed per call into simdcsv.
const ReadRows = 1024

var _ stream.RowStream = new(Reader)

// Reader is a RowStream over CSV text. The first record declares the
// columns, see stream.ParseHeader. An empty cell is a null.
type Reader struct {
	ctx    context.Context
	reader *simdcsv.Reader
	raw    io.Reader
	header stream.Header

	content [][]string
	idx     int
	length  int
	line    int
	err     error
}

func NewReader(ctx context.Context, r io.Reader) (*Reader, error) {
	rd := &Reader{
		ctx:     ctx,
		reader:  simdcsv.NewReaderWithOptions(r, ',', '#', true, true),
		raw:     r,
		content: make([][]string, ReadRows),
	}
	rd.fill()
	if rd.err != nil {
		return nil, rd.err
	}
	if rd.length == 0 {
		return nil, moerr.NewInvalidInputNoCtx("csv without header")
	}
	h, err := stream.ParseHeader(rd.content[0])
	if err != nil {
		return nil, err
	}
	rd.header = h
	rd.idx = 1
	return rd, nil
}

func (rd *Reader) fill() {
	if rd.reader == nil {
		return
	}
	var cnt int
	rd.content, cnt, rd.err = rd.reader.Read(ReadRows, rd.ctx, rd.content)
	if rd.err == io.EOF {
		rd.err = nil
	}
	if rd.err != nil {
		rd.err = moerr.ConvertGoError(rd.ctx, rd.err)
		return
	}
	if cnt < ReadRows {
		rd.reader = nil
	}
	rd.idx = 0
	rd.length = cnt
}

func (rd *Reader) Header() stream.Header {
	return rd.header
}

func (rd *Reader) HasNext() bool {
	if rd.idx == rd.length && rd.err == nil {
		rd.fill()
	}
	return rd.err != nil || rd.idx < rd.length
}

func (rd *Reader) Next() (stream.Row, error) {
	if !rd.HasNext() {
		return stream.Row{}, moerr.NewInvalidStateNoCtx("next row of an exhausted stream")
	}
	if rd.err != nil {
		return stream.Row{}, rd.err
	}
	rec := rd.content[rd.idx]
	rd.idx++
	rd.line++
	return rd.parse(rec)
}

func (rd *Reader) parse(rec []string) (stream.Row, error) {
	var row stream.Row
	width := len(rd.header.Fields)
	if rd.header.Key != nil {
		width++
	}
	if len(rec) != width {
		return row, moerr.NewInvalidInputNoCtx("line %d: %d cells for %d columns", rd.line, len(rec), width)
	}
	if rd.header.Key != nil {
		if len(rec[0]) > 0 {
			key, err := strconv.ParseInt(rec[0], 10, 64)
			if err != nil {
				return row, moerr.NewInvalidInputNoCtx("line %d: bad key %q", rd.line, rec[0])
			}
			row.Key = &key
		}
		rec = rec[1:]
	}
	row.Values = make([]any, len(rec))
	for i, cell := range rec {
		if len(cell) == 0 {
			continue
		}
		v, err := types.ParseValue(cell, rd.header.Fields[i].Type.Oid)
		if err != nil {
			return row, moerr.NewInvalidInputNoCtx("line %d, column %s: %s", rd.line, rd.header.Fields[i].Name, err.Error())
		}
		row.Values[i] = v
	}
	return row, nil
}

func (rd *Reader) Close() error {
	rd.reader = nil
	rd.content = nil
	rd.idx, rd.length = 0, 0
	if c, ok := rd.raw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Write writes the header and every row of rows as CSV text.
func Write(w io.Writer, rows stream.RowStream) error {
	cw := csv.NewWriter(w)
	h := rows.Header()
	if err := cw.Write(stream.FormatHeader(h)); err != nil {
		return err
	}
	rec := make([]string, 0, len(h.Fields)+1)
	for rows.HasNext() {
		row, err := rows.Next()
		if err != nil {
			return err
		}
		rec = rec[:0]
		if h.Key != nil {
			if row.Key == nil {
				rec = append(rec, "")
			} else {
				rec = append(rec, strconv.FormatInt(*row.Key, 10))
			}
		}
		for _, v := range row.Values {
			rec = append(rec, types.FormatValue(v))
		}
		if err = cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
