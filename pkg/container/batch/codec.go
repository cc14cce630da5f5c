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
	"encoding/binary"
	"io"
	"sort"

	"github.com/pierrec/lz4"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/container/vector"
)

// MarshalBinary encodes the schema and the columns of bat:
// rows, field count, fields, key flag [key field, key column], columns.
// Each column is length prefixed.
func (bat *Batch) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	putUint32(&buf, uint32(bat.rowCount))
	putUint32(&buf, uint32(len(bat.Fields)))
	for _, f := range bat.Fields {
		putField(&buf, f)
	}
	if bat.Key != nil {
		buf.WriteByte(1)
		putField(&buf, *bat.keyField)
		if err := putVector(&buf, bat.Key); err != nil {
			return nil, err
		}
	} else {
		buf.WriteByte(0)
	}
	for _, vec := range bat.Vecs {
		if err := putVector(&buf, vec); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func (bat *Batch) UnmarshalBinary(data []byte) error {
	r := &reader{data: data}
	bat.Cnt = 1
	bat.rowCount = int(r.uint32())
	n := int(r.uint32())
	bat.Fields = make([]types.Field, n)
	for i := range bat.Fields {
		bat.Fields[i] = r.field()
	}
	if r.byte() == 1 {
		f := r.field()
		bat.keyField = &f
		bat.Key = r.vector()
	}
	bat.Vecs = make([]*vector.Vector, n)
	for i := range bat.Vecs {
		bat.Vecs[i] = r.vector()
	}
	return r.err
}

// EncodeCompressed writes bat as one lz4 frame.
func EncodeCompressed(w io.Writer, bat *Batch) error {
	data, err := bat.MarshalBinary()
	if err != nil {
		return err
	}
	zw := lz4.NewWriter(w)
	if _, err = zw.Write(data); err != nil {
		return moerr.ConvertGoError(moerr.Context(), err)
	}
	return moerr.ConvertGoError(moerr.Context(), zw.Close())
}

// DecodeCompressed reads a batch written by EncodeCompressed.
func DecodeCompressed(r io.Reader) (*Batch, error) {
	data, err := io.ReadAll(lz4.NewReader(r))
	if err != nil {
		return nil, moerr.ConvertGoError(moerr.Context(), err)
	}
	bat := &Batch{}
	if err = bat.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return bat, nil
}

func putUint32(buf *bytes.Buffer, n uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], n)
	buf.Write(b[:])
}

func putString(buf *bytes.Buffer, s string) {
	putUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func putField(buf *bytes.Buffer, f types.Field) {
	putString(buf, f.Name)
	buf.WriteByte(byte(f.Type.Oid))
	keys := make([]string, 0, len(f.Tags))
	for k := range f.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	putUint32(buf, uint32(len(keys)))
	for _, k := range keys {
		putString(buf, k)
		putString(buf, f.Tags[k])
	}
}

func putVector(buf *bytes.Buffer, vec *vector.Vector) error {
	data, err := vec.MarshalBinary()
	if err != nil {
		return err
	}
	putUint32(buf, uint32(len(data)))
	buf.Write(data)
	return nil
}

// reader decodes the batch layout and keeps the first error.
type reader struct {
	data []byte
	err  error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.data) < n {
		r.err = moerr.NewUnexpectedEOF(moerr.Context(), "batch")
		return nil
	}
	b := r.data[:n]
	r.data = r.data[n:]
	return b
}

func (r *reader) uint32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) byte() byte {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) string() string {
	return string(r.take(int(r.uint32())))
}

func (r *reader) field() types.Field {
	f := types.Field{Name: r.string()}
	f.Type = types.T(r.byte()).ToType()
	if n := int(r.uint32()); n > 0 {
		f.Tags = make(map[string]string, n)
		for i := 0; i < n; i++ {
			k := r.string()
			f.Tags[k] = r.string()
		}
	}
	return f
}

func (r *reader) vector() *vector.Vector {
	b := r.take(int(r.uint32()))
	if r.err != nil {
		return nil
	}
	vec := &vector.Vector{}
	if err := vec.UnmarshalBinary(b); err != nil {
		r.err = err
		return nil
	}
	return vec
}
