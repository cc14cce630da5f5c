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

package config

import (
	"context"

	"github.com/BurntSushi/toml"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/logutil"
)

const (
	defaultMaxBatchRowCount    = 8192
	defaultBatchSize           = 8192
	defaultPipelineConcurrency = 4

	defaultLogLevel  = "info"
	defaultLogFormat = "console"
)

// Parameters is the root of the toml configuration file.
type Parameters struct {
	Log    logutil.LogConfig `toml:"log"`
	Exec   ExecParameters    `toml:"exec"`
	Metric MetricParameters  `toml:"metric"`
}

// ExecParameters of the execution core
type ExecParameters struct {
	//max rows buffered per group before a flush, and max rows of a grouped
	//output batch. default: 8192
	MaxBatchRowCount int64 `toml:"maxBatchRowCount"`

	//rows per batch when converting row streams into batches. default: 8192
	BatchSize int64 `toml:"batchSize"`

	//number of pipelines run at the same time. default: 4
	PipelineConcurrency int `toml:"pipelineConcurrency"`
}

// MetricParameters of the prometheus collectors
type MetricParameters struct {
	//do not report the collected metrics when a run ends. default: false
	Disable bool `toml:"disable"`
}

// SetDefaultValues fills every zero field with its default.
func (p *Parameters) SetDefaultValues() {
	if p.Exec.MaxBatchRowCount == 0 {
		p.Exec.MaxBatchRowCount = defaultMaxBatchRowCount
	}
	if p.Exec.BatchSize == 0 {
		p.Exec.BatchSize = defaultBatchSize
	}
	if p.Exec.PipelineConcurrency == 0 {
		p.Exec.PipelineConcurrency = defaultPipelineConcurrency
	}
	if p.Log.Level == "" {
		p.Log.Level = defaultLogLevel
	}
	if p.Log.Format == "" {
		p.Log.Format = defaultLogFormat
	}
}

func (p *Parameters) Validate(ctx context.Context) error {
	if p.Exec.MaxBatchRowCount < 0 {
		return moerr.NewBadConfig(ctx, "exec.maxBatchRowCount must be positive, got %d", p.Exec.MaxBatchRowCount)
	}
	if p.Exec.BatchSize < 0 {
		return moerr.NewBadConfig(ctx, "exec.batchSize must be positive, got %d", p.Exec.BatchSize)
	}
	if p.Exec.PipelineConcurrency < 0 {
		return moerr.NewBadConfig(ctx, "exec.pipelineConcurrency must be positive, got %d", p.Exec.PipelineConcurrency)
	}
	switch p.Log.Format {
	case "console", "json":
	default:
		return moerr.NewBadConfig(ctx, "unsupported log format: %s", p.Log.Format)
	}
	return nil
}

// Parse decodes data, fills defaults and validates the result.
func Parse(ctx context.Context, data string) (*Parameters, error) {
	p := &Parameters{}
	if _, err := toml.Decode(data, p); err != nil {
		return nil, moerr.NewBadConfig(ctx, "%v", err)
	}
	p.SetDefaultValues()
	if err := p.Validate(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadFile reads the toml file at path.
func LoadFile(ctx context.Context, path string) (*Parameters, error) {
	p := &Parameters{}
	if _, err := toml.DecodeFile(path, p); err != nil {
		return nil, moerr.NewBadConfig(ctx, "load %s: %v", path, err)
	}
	p.SetDefaultValues()
	if err := p.Validate(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Default returns parameters with every default applied.
func Default() *Parameters {
	p := &Parameters{}
	p.SetDefaultValues()
	return p
}
