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

package pipeline

import (
	"bytes"
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/logutil"
	"github.com/polystore/polystore/pkg/logutil/logutil2"
	"github.com/polystore/polystore/pkg/stream"
	v2 "github.com/polystore/polystore/pkg/util/metric/v2"
	"github.com/polystore/polystore/pkg/vm"
)

func New(id string, source stream.BatchStream, ops []vm.Operator, sink vm.Sink) *Pipeline {
	return &Pipeline{
		id:     id,
		source: source,
		ops:    ops,
		sink:   sink,
	}
}

func (p *Pipeline) String() string {
	var buf bytes.Buffer

	vm.String(p.ops, &buf)
	if len(p.ops) > 0 {
		buf.WriteString(" -> ")
	}
	buf.WriteString(p.sink.OpType().String())
	return buf.String()
}

// Run feeds every source batch through the operators into the sink and
// finishes the sink. Cancellation is checked between batches. The source
// is closed on return, the sink only on failure.
func (p *Pipeline) Run(ctx context.Context) (err error) {
	if p.ran {
		return moerr.NewPreconditionNoCtx("pipeline %s already ran", p.id)
	}
	p.ran = true
	defer func() {
		if cerr := p.source.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			p.sink.Close()
		}
	}()
	for p.source.HasNext() {
		if err = ctx.Err(); err != nil {
			return err
		}
		var bat *batch.Batch
		if bat, err = p.source.Next(); err != nil {
			return err
		}
		if bat, err = vm.Call(p.ops, bat); err != nil {
			return err
		}
		bat.Log(p.id)
		if err = p.sink.Consume(bat); err != nil {
			return err
		}
	}
	return p.sink.Finish()
}

// Collect drains the finished sink and closes it.
func (p *Pipeline) Collect() ([]*batch.Batch, error) {
	defer p.sink.Close()
	var bats []*batch.Batch
	for p.sink.CanProduce() {
		bat, err := p.sink.Produce()
		if err != nil {
			return nil, err
		}
		bats = append(bats, bat)
	}
	return bats, nil
}

// Execute runs p and collects its output. A panic in any stage comes back
// as an internal error.
func (p *Pipeline) Execute(ctx context.Context) (bats []*batch.Batch, err error) {
	ctx = logutil.WithPipeline(ctx, p.id)
	start := now()
	defer func() {
		if r := recover(); r != nil {
			err = moerr.ConvertPanicError(ctx, r)
			p.sink.Close()
		}
		v2.PipelineDurationHistogram.Observe(now().Sub(start).Seconds())
		if err != nil {
			v2.PipelineFailedCounter.Inc()
			logutil2.Error(ctx, "pipeline failed",
				zap.String("plan", p.String()),
				zap.Error(err))
			return
		}
		v2.PipelineSucceedCounter.Inc()
		logutil2.Debug(ctx, "pipeline done",
			zap.Int("batches", len(bats)),
			zap.Duration("cost", now().Sub(start)))
	}()
	if err = p.Run(ctx); err != nil {
		return nil, err
	}
	return p.Collect()
}

// RunAll executes the pipelines on a pool of concurrency goroutines and
// returns their results in order, with the first error met.
func RunAll(ctx context.Context, ps []*Pipeline, concurrency int) ([]Result, error) {
	if concurrency <= 0 {
		return nil, moerr.NewInvalidArgNoCtx("pipeline concurrency", concurrency)
	}
	pool, err := ants.NewPool(concurrency)
	if err != nil {
		return nil, moerr.ConvertGoError(ctx, err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	results := make([]Result, len(ps))
	for i, p := range ps {
		i, p := i, p
		results[i].Id = p.id
		wg.Add(1)
		if err = pool.Submit(func() {
			defer wg.Done()
			results[i].Bat, results[i].Err = p.Execute(ctx)
		}); err != nil {
			wg.Done()
			results[i].Err = moerr.ConvertGoError(ctx, err)
		}
	}
	wg.Wait()
	for _, r := range results {
		if r.Err != nil {
			return results, r.Err
		}
	}
	return results, nil
}
