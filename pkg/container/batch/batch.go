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

package batch

import (
	"bytes"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap/zapcore"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/selection"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
	"github.com/polystore/polystore/pkg/logutil"
)

// New builds a batch over vecs. Every vector must have the type of its
// field and the same length.
func New(fields []types.Field, vecs []*vector.Vector) (*Batch, error) {
	if len(fields) != len(vecs) {
		return nil, moerr.NewInvalidInputNoCtx("%d fields for %d columns", len(fields), len(vecs))
	}
	rowCount := 0
	for i, vec := range vecs {
		if i == 0 {
			rowCount = vec.Length()
		}
		if vec.Length() != rowCount {
			return nil, moerr.NewInvalidInputNoCtx("column %s has %d rows, expected %d", fields[i].Name, vec.Length(), rowCount)
		}
		if !vec.GetType().Eq(fields[i].Type) && !vec.GetType().IsNull() {
			return nil, moerr.NewInvalidInputNoCtx("column %s has type %s, field says %s", fields[i].Name, vec.GetType(), fields[i].Type)
		}
	}
	return &Batch{
		Cnt:      1,
		Fields:   fields,
		Vecs:     vecs,
		rowCount: rowCount,
	}, nil
}

// NewWithRowCount returns a batch without columns holding n rows, the input
// of count(*) over a projection of nothing.
func NewWithRowCount(n int) *Batch {
	return &Batch{Cnt: 1, rowCount: n}
}

// MustNew is New for batches known to be well formed.
func MustNew(fields []types.Field, vecs []*vector.Vector) *Batch {
	bat, err := New(fields, vecs)
	if err != nil {
		panic(err)
	}
	return bat
}

// WithKey returns a batch sharing the columns of bat with key as key column.
func (bat *Batch) WithKey(field *types.Field, key *vector.Vector) (*Batch, error) {
	if key.GetType().Oid != types.T_int64 {
		return nil, moerr.NewInvalidInputNoCtx("key column must be BIGINT, got %s", key.GetType())
	}
	if len(bat.Vecs) > 0 && key.Length() != bat.rowCount {
		return nil, moerr.NewInvalidInputNoCtx("key column has %d rows, expected %d", key.Length(), bat.rowCount)
	}
	if field == nil {
		field = KeyField()
	}
	rbat := bat.view()
	rbat.Key = key
	rbat.keyField = field
	rbat.rowCount = key.Length()
	return rbat, nil
}

func (bat *Batch) view() *Batch {
	return &Batch{
		Cnt:      1,
		Fields:   bat.Fields,
		Vecs:     bat.Vecs,
		Key:      bat.Key,
		keyField: bat.keyField,
		rowCount: bat.rowCount,
	}
}

func (bat *Batch) Schema() Schema {
	return Schema{Key: bat.keyField, Fields: bat.Fields}
}

func (bat *Batch) HasKey() bool {
	return bat.Key != nil
}

func (bat *Batch) Attrs() []string {
	return bat.Schema().Attrs()
}

func (bat *Batch) RowCount() int {
	return bat.rowCount
}

func (bat *Batch) VectorCount() int {
	return len(bat.Vecs)
}

func (bat *Batch) GetVector(pos int) *vector.Vector {
	return bat.Vecs[pos]
}

// ColumnIndex returns the position of the column named name, -1 if absent.
func (bat *Batch) ColumnIndex(name string) int {
	return bat.Schema().Index(name)
}

// GetVectorByName returns the column named name, nil if absent.
func (bat *Batch) GetVectorByName(name string) *vector.Vector {
	if i := bat.ColumnIndex(name); i >= 0 {
		return bat.Vecs[i]
	}
	return nil
}

// Slice returns rows [start, end) without copying values.
func (bat *Batch) Slice(start, end int) *Batch {
	if start < 0 || end > bat.rowCount || start > end {
		panic(moerr.NewPreconditionNoCtx("slice [%d, %d) out of batch of %d rows", start, end, bat.rowCount))
	}
	rbat := bat.view()
	rbat.Vecs = make([]*vector.Vector, len(bat.Vecs))
	for i, vec := range bat.Vecs {
		rbat.Vecs[i] = vector.Window(vec, start, end)
	}
	if bat.Key != nil {
		rbat.Key = vector.Window(bat.Key, start, end)
	}
	rbat.rowCount = end - start
	return rbat
}

// Shrink returns the rows named by sel, in selection order.
func (bat *Batch) Shrink(sel *selection.Selection) *Batch {
	if sel == nil {
		return bat.view()
	}
	rbat := bat.view()
	rbat.Vecs = make([]*vector.Vector, len(bat.Vecs))
	for i, vec := range bat.Vecs {
		rbat.Vecs[i] = vector.Gather(vec, sel)
	}
	if bat.Key != nil {
		rbat.Key = vector.Gather(bat.Key, sel)
	}
	rbat.rowCount = sel.Len()
	return rbat
}

// Dup returns an owning copy with every column in flat form.
func (bat *Batch) Dup() *Batch {
	rbat := bat.view()
	rbat.Vecs = make([]*vector.Vector, len(bat.Vecs))
	for i, vec := range bat.Vecs {
		rbat.Vecs[i] = vec.Dup()
	}
	if bat.Key != nil {
		rbat.Key = bat.Key.Dup()
	}
	return rbat
}

// Row returns row i as Go values and the key of the row, nil when the
// batch has no key.
func (bat *Batch) Row(i int) (*int64, []any) {
	vals := make([]any, len(bat.Vecs))
	for j, vec := range bat.Vecs {
		vals[j] = vec.Value(i)
	}
	if bat.Key == nil || bat.Key.IsNull(i) {
		return nil, vals
	}
	key := vector.GetFixedAt[int64](bat.Key, i)
	return &key, vals
}

func (bat *Batch) IncRef() {
	atomic.AddInt64(&bat.Cnt, 1)
}

// Clean drops one reference, the columns are released with the last one.
func (bat *Batch) Clean() {
	if atomic.AddInt64(&bat.Cnt, -1) > 0 {
		return
	}
	bat.Vecs = nil
	bat.Key = nil
	bat.rowCount = 0
}

func (bat *Batch) String() string {
	var buf bytes.Buffer

	if bat.Key != nil {
		buf.WriteString(fmt.Sprintf("%s\n", bat.keyField.FullName()))
		buf.WriteString(fmt.Sprintf("\t%s\n", bat.Key))
	}
	for i, vec := range bat.Vecs {
		buf.WriteString(fmt.Sprintf("%d : %s\n", i, bat.Fields[i].FullName()))
		buf.WriteString(fmt.Sprintf("\t%s\n", vec))
	}
	return buf.String()
}

// Log writes the batch contents at debug level.
func (bat *Batch) Log(tag string) {
	if bat == nil || bat.rowCount < 1 || !logutil.GetGlobalLogger().Core().Enabled(zapcore.DebugLevel) {
		return
	}
	logutil.Debugf("\n%s\n%s", tag, bat.String())
}
