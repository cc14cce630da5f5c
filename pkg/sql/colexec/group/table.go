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

package group

import (
	"github.com/polystore/polystore/pkg/container/batch"
)

func (t *GroupTable) Schema() batch.Schema {
	return t.schema
}

// Len returns the number of batches left.
func (t *GroupTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.bats)
}

func (t *GroupTable) IsEmpty() bool {
	return t.Len() == 0
}

// Poll removes and returns the next batch, nil once the table is empty.
func (t *GroupTable) Poll() *batch.Batch {
	if t.IsEmpty() {
		return nil
	}
	bat := t.bats[0]
	t.bats[0] = nil
	t.bats = t.bats[1:]
	return bat
}

// Close releases the batches not polled yet.
func (t *GroupTable) Close() {
	if t == nil {
		return
	}
	for _, bat := range t.bats {
		bat.Clean()
	}
	t.bats = nil
}
