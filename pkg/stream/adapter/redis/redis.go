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

package redis

import (
	"context"
	"slices"
	"strconv"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/types"
	"github.com/polystore/polystore/pkg/logutil"
	"github.com/polystore/polystore/pkg/stream"
)

// ScanCount is the COUNT hint of each SCAN call.
const ScanCount = 256

var _ stream.RowStream = new(Reader)

// Reader is a RowStream over the hashes <table>:<id> of a redis database,
// in ascending id order. Hash fields are parsed per the header type, a
// missing field is a null. The id fills the key column when the header
// has one.
type Reader struct {
	ctx    context.Context
	client goredis.UniversalClient
	table  string
	header stream.Header

	ids []int64
	pos int
}

func NewReader(ctx context.Context, client goredis.UniversalClient, table string, header stream.Header) (*Reader, error) {
	prefix := table + ":"
	var ids []int64
	var cursor uint64
	for {
		keys, next, err := client.Scan(ctx, cursor, prefix+"*", ScanCount).Result()
		if err != nil {
			return nil, moerr.ConvertGoError(ctx, err)
		}
		for _, k := range keys {
			id, err := strconv.ParseInt(strings.TrimPrefix(k, prefix), 10, 64)
			if err != nil {
				logutil.Warn("skip redis key without integer id",
					zap.String("table", table),
					zap.String("key", k))
				continue
			}
			ids = append(ids, id)
		}
		if cursor = next; cursor == 0 {
			break
		}
	}
	// SCAN may return a key more than once
	slices.Sort(ids)
	ids = slices.Compact(ids)
	logutil.Debug("redis table scanned",
		zap.String("table", table),
		zap.Int("rows", len(ids)))
	return &Reader{ctx: ctx, client: client, table: table, header: header, ids: ids}, nil
}

func (rd *Reader) Header() stream.Header {
	return rd.header
}

func (rd *Reader) HasNext() bool {
	return rd.pos < len(rd.ids)
}

func (rd *Reader) Next() (stream.Row, error) {
	if !rd.HasNext() {
		return stream.Row{}, moerr.NewInvalidStateNoCtx("next row of an exhausted stream")
	}
	id := rd.ids[rd.pos]
	rd.pos++
	key := rd.table + ":" + strconv.FormatInt(id, 10)
	m, err := rd.client.HGetAll(rd.ctx, key).Result()
	if err != nil {
		return stream.Row{}, moerr.ConvertGoError(rd.ctx, err)
	}
	row := stream.Row{Values: make([]any, len(rd.header.Fields))}
	if rd.header.Key != nil {
		row.Key = &id
	}
	for i, f := range rd.header.Fields {
		s, ok := m[f.Name]
		if !ok {
			continue
		}
		if row.Values[i], err = types.ParseValue(s, f.Type.Oid); err != nil {
			return stream.Row{}, moerr.NewInvalidInputNoCtx("%s field %s: %s", key, f.Name, err.Error())
		}
	}
	return row, nil
}

func (rd *Reader) Close() error {
	rd.ids = nil
	return nil
}

// Write stores every row of rows as the hash <table>:<key>. Rows need a
// key, null values are left out of the hash.
func Write(ctx context.Context, client goredis.UniversalClient, table string, rows stream.RowStream) error {
	h := rows.Header()
	if h.Key == nil {
		return moerr.NewInvalidInputNoCtx("rows of table %s have no key", table)
	}
	_, err := client.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for rows.HasNext() {
			row, err := rows.Next()
			if err != nil {
				return err
			}
			if row.Key == nil {
				return moerr.NewInvalidInputNoCtx("row of table %s with a null key", table)
			}
			vals := make([]any, 0, 2*len(row.Values))
			for i, v := range row.Values {
				if v != nil {
					vals = append(vals, h.Fields[i].Name, types.FormatValue(v))
				}
			}
			if len(vals) == 0 {
				continue
			}
			pipe.HSet(ctx, table+":"+strconv.FormatInt(*row.Key, 10), vals...)
		}
		return nil
	})
	if err != nil {
		if _, ok := err.(*moerr.Error); ok {
			return err
		}
		return moerr.ConvertGoError(ctx, err)
	}
	return nil
}
