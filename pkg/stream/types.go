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
	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/container/types"
)

// Header describes the rows of a RowStream: an optional key field and the
// value fields in order.
type Header struct {
	Key    *types.Field
	Fields []types.Field
}

// Row is one record. A nil value is a null, other values are bool, int32,
// int64, float32, float64 or []byte. A nil Key is a null key.
type Row struct {
	Key    *int64
	Values []any
}

// RowStream yields rows one at a time. Header is known before any row.
type RowStream interface {
	Header() Header
	HasNext() bool
	Next() (Row, error)
	Close() error
}

// BatchStream yields batches of one schema. Schema is known before any
// batch.
type BatchStream interface {
	Schema() batch.Schema
	HasNext() bool
	Next() (*batch.Batch, error)
	Close() error
}

func (h Header) Schema() batch.Schema {
	return batch.NewSchema(h.Key, h.Fields...)
}

func HeaderOf(schema batch.Schema) Header {
	return Header{Key: schema.Key, Fields: schema.Fields}
}

func (h Header) String() string {
	return h.Schema().String()
}
