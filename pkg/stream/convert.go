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

type rowBatches struct {
	rows      RowStream
	batchSize int
	builder   *batch.Builder
}

// ToBatchStream groups rows into batches of batchSize rows, the last batch
// holds the remainder.
func ToBatchStream(rows RowStream, batchSize int) (BatchStream, error) {
	if batchSize <= 0 {
		return nil, moerr.NewInvalidArgNoCtx("batch size", batchSize)
	}
	return &rowBatches{
		rows:      rows,
		batchSize: batchSize,
		builder:   batch.NewBuilder(rows.Header().Schema(), batchSize),
	}, nil
}

func (s *rowBatches) Schema() batch.Schema {
	return s.rows.Header().Schema()
}

func (s *rowBatches) HasNext() bool {
	return s.rows.HasNext()
}

func (s *rowBatches) Next() (*batch.Batch, error) {
	if !s.rows.HasNext() {
		return nil, moerr.NewInvalidStateNoCtx("next batch of an exhausted stream")
	}
	for s.builder.Len() < s.batchSize && s.rows.HasNext() {
		row, err := s.rows.Next()
		if err != nil {
			s.builder.Build()
			return nil, err
		}
		if err = s.builder.Append(row.Key, row.Values...); err != nil {
			s.builder.Build()
			return nil, err
		}
	}
	return s.builder.Build(), nil
}

func (s *rowBatches) Close() error {
	return s.rows.Close()
}

type batchRows struct {
	bats BatchStream
	cur  *batch.Batch
	pos  int
	err  error
}

// ToRowStream flattens batches into rows. Dictionary columns are resolved
// to their values, empty batches are skipped.
func ToRowStream(bats BatchStream) RowStream {
	return &batchRows{bats: bats}
}

func (s *batchRows) Header() Header {
	return HeaderOf(s.bats.Schema())
}

// advance loads batches until one has a row left.
func (s *batchRows) advance() {
	for s.err == nil && (s.cur == nil || s.pos >= s.cur.RowCount()) {
		if !s.bats.HasNext() {
			return
		}
		s.cur, s.err = s.bats.Next()
		s.pos = 0
	}
}

func (s *batchRows) HasNext() bool {
	s.advance()
	return s.err != nil || (s.cur != nil && s.pos < s.cur.RowCount())
}

func (s *batchRows) Next() (Row, error) {
	s.advance()
	if s.err != nil {
		err := s.err
		s.err = nil
		s.cur = nil
		return Row{}, err
	}
	if s.cur == nil || s.pos >= s.cur.RowCount() {
		return Row{}, moerr.NewInvalidStateNoCtx("next row of an exhausted stream")
	}
	var row Row
	row.Key, row.Values = s.cur.Row(s.pos)
	s.pos++
	return row, nil
}

func (s *batchRows) Close() error {
	s.cur = nil
	return s.bats.Close()
}
