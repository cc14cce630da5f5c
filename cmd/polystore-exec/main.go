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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/config"
	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/logutil"
	"github.com/polystore/polystore/pkg/sql/colexec/agg"
	"github.com/polystore/polystore/pkg/sql/colexec/aggregation"
	"github.com/polystore/polystore/pkg/sql/colexec/group"
	"github.com/polystore/polystore/pkg/sql/colexec/mergeorder"
	"github.com/polystore/polystore/pkg/sql/colexec/projection"
	"github.com/polystore/polystore/pkg/sql/colexec/restrict"
	"github.com/polystore/polystore/pkg/sql/expr"
	"github.com/polystore/polystore/pkg/sql/filter"
	"github.com/polystore/polystore/pkg/stream"
	csvadapter "github.com/polystore/polystore/pkg/stream/adapter/csv"
	parquetadapter "github.com/polystore/polystore/pkg/stream/adapter/parquet"
	redisadapter "github.com/polystore/polystore/pkg/stream/adapter/redis"
	v2 "github.com/polystore/polystore/pkg/util/metric/v2"
	"github.com/polystore/polystore/pkg/vm"
	"github.com/polystore/polystore/pkg/vm/pipeline"
	"github.com/polystore/polystore/pkg/vm/process"
)

var (
	configFile = flag.String("cfg", "", "toml configuration file")
	groupBy    = flag.String("group", "", "comma separated group keys")
	aggs       = flag.String("agg", "", "comma separated aggregates, e.g. sum(a),count(*)")
	orderBy    = flag.String("order", "", "comma separated sort keys of sorted inputs, e.g. ts desc")
	selects    = flag.String("select", "", "comma separated fields to keep before the sink")
	redisAddr  = flag.String("redis", "", "read the hashes <table>:<id> of this redis server")
	redisTable = flag.String("table", "", "redis table name")
	redisCols  = flag.String("columns", "", "comma separated column declarations of the redis table, e.g. host:BINARY,cpu:DOUBLE")

	wheres listFlag
)

// query is the plan every input runs through.
type query struct {
	wheres  []string
	selects []string
	keys    []string
	aggs    []agg.Aggregate
	order   []mergeorder.Field
}

func main() {
	flag.Var(&wheres, "where", "row filter \"path op value\", repeat for a conjunction")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Stdout, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, paths []string) error {
	params := config.Default()
	if len(*configFile) > 0 {
		var err error
		if params, err = config.LoadFile(ctx, *configFile); err != nil {
			return err
		}
	}
	logutil.SetupLogger(&params.Log)

	q, err := parseQuery()
	if err != nil {
		return err
	}
	sources, err := openSources(ctx, params, paths)
	if err != nil {
		return err
	}
	ps := make([]*pipeline.Pipeline, 0, len(sources))
	for i, src := range sources {
		proc := process.NewFromConfig(ctx, fmt.Sprintf("input-%d", i), params)
		p, err := q.compile(proc, src)
		if err != nil {
			for _, s := range sources {
				s.Close()
			}
			return err
		}
		ps = append(ps, p)
	}
	results, err := pipeline.RunAll(ctx, ps, params.Exec.PipelineConcurrency)
	if err != nil {
		return err
	}
	for _, r := range results {
		if len(r.Bat) == 0 {
			continue
		}
		rows := stream.ToRowStream(stream.NewBatchSlice(r.Bat[0].Schema(), r.Bat...))
		if err = csvadapter.Write(out, rows); err != nil {
			return err
		}
	}
	if !params.Metric.Disable {
		reportMetrics()
	}
	return nil
}

func parseQuery() (*query, error) {
	q := &query{
		wheres:  wheres,
		selects: splitList(*selects),
		keys:    splitList(*groupBy),
	}
	for _, s := range splitList(*aggs) {
		a, err := parseAgg(s)
		if err != nil {
			return nil, err
		}
		q.aggs = append(q.aggs, a)
	}
	for _, s := range splitList(*orderBy) {
		f, err := parseOrder(s)
		if err != nil {
			return nil, err
		}
		q.order = append(q.order, f)
	}
	if len(q.keys) == 0 && len(q.aggs) == 0 && len(q.order) == 0 {
		return nil, moerr.NewInvalidInputNoCtx("nothing to compute, give -group, -agg or -order")
	}
	return q, nil
}

func (q *query) compile(proc *process.Process, src stream.BatchStream) (*pipeline.Pipeline, error) {
	schema := src.Schema()
	var ops []vm.Operator
	if len(q.wheres) > 0 {
		fs := make([]filter.Filter, len(q.wheres))
		for i, w := range q.wheres {
			f, err := parseWhere(w, schema)
			if err != nil {
				return nil, err
			}
			fs[i] = f
		}
		var f filter.Filter = filter.NewAndFilter(fs...)
		if len(fs) == 1 {
			f = fs[0]
		}
		op, err := restrict.NewFromFilter(f, schema)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	if len(q.selects) > 0 {
		es := make([]expr.Expression, len(q.selects))
		for i, s := range q.selects {
			es[i] = expr.NewFieldRef(s)
		}
		op, err := projection.New(es, schema)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		schema = op.OutputSchema()
	}
	sink, err := q.sink(proc, schema)
	if err != nil {
		return nil, err
	}
	return pipeline.New(proc.Id, src, ops, sink), nil
}

func (q *query) sink(proc *process.Process, schema batch.Schema) (vm.Sink, error) {
	switch {
	case len(q.keys) > 0:
		keys := make([]expr.Expression, len(q.keys))
		for i, k := range q.keys {
			keys[i] = expr.NewFieldRef(k)
		}
		return group.NewExecutor(proc, schema, keys, q.aggs)
	case len(q.aggs) > 0:
		return aggregation.NewExecutor(proc, schema, q.aggs)
	default:
		return mergeorder.NewExecutor(proc, schema, q.order)
	}
}

// openSources opens every input file, plus the redis table when one is
// given.
func openSources(ctx context.Context, params *config.Parameters, paths []string) ([]stream.BatchStream, error) {
	var sources []stream.BatchStream
	fail := func(err error) ([]stream.BatchStream, error) {
		for _, s := range sources {
			s.Close()
		}
		return nil, err
	}
	for _, path := range paths {
		rows, err := openFile(ctx, path)
		if err != nil {
			return fail(err)
		}
		bs, err := stream.ToBatchStream(rows, int(params.Exec.BatchSize))
		if err != nil {
			rows.Close()
			return fail(err)
		}
		sources = append(sources, bs)
	}
	if len(*redisAddr) > 0 {
		h, err := stream.ParseHeader(splitList(*redisCols))
		if err != nil {
			return fail(err)
		}
		client := goredis.NewClient(&goredis.Options{Addr: *redisAddr})
		rows, err := redisadapter.NewReader(ctx, client, *redisTable, h)
		if err != nil {
			client.Close()
			return fail(err)
		}
		bs, err := stream.ToBatchStream(&closingRows{RowStream: rows, c: client}, int(params.Exec.BatchSize))
		if err != nil {
			client.Close()
			return fail(err)
		}
		sources = append(sources, bs)
	}
	if len(sources) == 0 {
		return nil, moerr.NewInvalidInputNoCtx("no input, give files or -redis")
	}
	return sources, nil
}

func openFile(ctx context.Context, path string) (stream.RowStream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, moerr.NewInvalidInputNoCtx("open %s: %v", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rd, err := csvadapter.NewReader(ctx, f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return rd, nil
	case ".parquet":
		st, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, moerr.ConvertGoError(ctx, err)
		}
		rd, err := parquetadapter.NewReader(f, st.Size())
		if err != nil {
			f.Close()
			return nil, err
		}
		return &closingRows{RowStream: rd, c: f}, nil
	}
	f.Close()
	return nil, moerr.NewInvalidInputNoCtx("%s: unknown file type", path)
}

// closingRows closes c after the row stream.
type closingRows struct {
	stream.RowStream
	c io.Closer
}

func (r *closingRows) Close() error {
	err := r.RowStream.Close()
	if cerr := r.c.Close(); err == nil {
		err = cerr
	}
	return err
}

func reportMetrics() {
	mfs, err := v2.GetPrometheusGatherer().Gather()
	if err != nil {
		logutil.Warn("gather metrics", zap.Error(err))
		return
	}
	for _, mf := range mfs {
		var sum float64
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				sum += m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				sum += float64(m.GetHistogram().GetSampleCount())
			}
		}
		logutil.Info("metric",
			zap.String("name", mf.GetName()),
			zap.Float64("value", sum))
	}
}
