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
	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/batch"
)

type rowSlice struct {
	header Header
	rows   []Row
	pos    int
}

// NewRowSlice returns a RowStream over rows held in memory.
func NewRowSlice(header Header, rows []Row) RowStream {
	return &rowSlice{header: header, rows: rows}
}

func (s *rowSlice) Header() Header {
	return s.header
}

func (s *rowSlice) HasNext() bool {
	return s.pos < len(s.rows)
}

func (s *rowSlice) Next() (Row, error) {
	if !s.HasNext() {
		return Row{}, moerr.NewInvalidStateNoCtx("next row of an exhausted stream")
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

func (s *rowSlice) Close() error {
	s.rows = nil
	return nil
}

type batchSlice struct {
	schema batch.Schema
	bats   []*batch.Batch
	pos    int
}

// NewBatchSlice returns a BatchStream over bats, which must all have schema.
func NewBatchSlice(schema batch.Schema, bats ...*batch.Batch) BatchStream {
	return &batchSlice{schema: schema, bats: bats}
}

func (s *batchSlice) Schema() batch.Schema {
	return s.schema
}

func (s *batchSlice) HasNext() bool {
	return s.pos < len(s.bats)
}

func (s *batchSlice) Next() (*batch.Batch, error) {
	if !s.HasNext() {
		return nil, moerr.NewInvalidStateNoCtx("next batch of an exhausted stream")
	}
	bat := s.bats[s.pos]
	s.pos++
	return bat, nil
}

func (s *batchSlice) Close() error {
	s.bats = nil
	return nil
}

// BatchOf builds one batch holding rows.
func BatchOf(header Header, rows []Row) (*batch.Batch, error) {
	b := batch.NewBuilder(header.Schema(), len(rows))
	for i, row := range rows {
		if err := b.Append(row.Key, row.Values...); err != nil {
			return nil, moerr.NewInvalidInputNoCtx("row %d: %s", i, err.Error())
		}
	}
	return b.Build(), nil
}

// RowsOf returns the rows of bat. Binary values share memory with bat.
func RowsOf(bat *batch.Batch) []Row {
	rows := make([]Row, bat.RowCount())
	for i := range rows {
		rows[i].Key, rows[i].Values = bat.Row(i)
	}
	return rows
}
