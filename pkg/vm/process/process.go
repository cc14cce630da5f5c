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

package process

import (
	"context"

	"github.com/polystore/polystore/pkg/config"
)

const DefaultBatchSize = 8192

// New creates a Process for the pipeline id.
func New(ctx context.Context, id string, lim Limitation) *Process {
	if lim.BatchRows <= 0 {
		lim.BatchRows = DefaultBatchSize
	}
	if lim.BatchSize <= 0 {
		lim.BatchSize = DefaultBatchSize
	}
	return &Process{
		Id:  id,
		Lim: lim,
		Ctx: ctx,
	}
}

// NewFromConfig creates a Process with the limits of the exec section.
func NewFromConfig(ctx context.Context, id string, p *config.Parameters) *Process {
	return New(ctx, id, Limitation{
		BatchRows: p.Exec.MaxBatchRowCount,
		BatchSize: p.Exec.BatchSize,
	})
}

func (proc *Process) GetLim() Limitation {
	return proc.Lim
}

// Context never returns nil.
func (proc *Process) Context() context.Context {
	if proc == nil || proc.Ctx == nil {
		return context.Background()
	}
	return proc.Ctx
}
