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
	"time"

	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/stream"
	"github.com/polystore/polystore/pkg/vm"
)

// now is the clock of the duration metric.
var now = time.Now

// Pipeline pulls batches from source through ops into sink. A pipeline
// runs on one goroutine and shares nothing with other pipelines.
type Pipeline struct {
	id     string
	source stream.BatchStream
	ops    []vm.Operator
	sink   vm.Sink
	ran    bool
}

// Result is what RunAll gathers for one pipeline.
type Result struct {
	Id  string
	Bat []*batch.Batch
	Err error
}
