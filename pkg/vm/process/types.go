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
)

// Limitation bounds the work of one pipeline.
type Limitation struct {
	// BatchRows is the most rows a group buffers before a flush, and the
	// most rows of a batch an executor produces.
	BatchRows int64
	// BatchSize is the number of rows per batch read from a row stream.
	BatchSize int64
}

// Process is the context of one pipeline. It is never shared between
// pipelines.
type Process struct {
	Id  string // pipeline id
	Lim Limitation
	Ctx context.Context
}
