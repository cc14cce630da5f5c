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

package vm

import (
	"bytes"

	"go.uber.org/zap"

	"github.com/polystore/polystore/pkg/common/moerr"
	"github.com/polystore/polystore/pkg/container/batch"
	"github.com/polystore/polystore/pkg/logutil"
)

// String writes the operators as a chain, restrict -> projection.
func String(ops []Operator, buf *bytes.Buffer) {
	for i, op := range ops {
		if i > 0 {
			buf.WriteString(" -> ")
		}
		buf.WriteString(op.String())
	}
}

// Call runs bat through ops in order.
func Call(ops []Operator, bat *batch.Batch) (*batch.Batch, error) {
	var err error
	for _, op := range ops {
		if bat, err = op.Call(bat); err != nil {
			return nil, err
		}
	}
	return bat, nil
}

// Drain finishes sink and returns everything it produces.
func Drain(sink Sink) ([]*batch.Batch, error) {
	if err := sink.Finish(); err != nil {
		return nil, err
	}
	var bats []*batch.Batch
	for sink.CanProduce() {
		bat, err := sink.Produce()
		if err != nil {
			return nil, err
		}
		bats = append(bats, bat)
	}
	return bats, nil
}

// SinkBase tracks the protocol state shared by every sink executor.
type SinkBase struct {
	Op    OpType
	State SinkState
}

func (s *SinkBase) misuse(call string) error {
	err := moerr.NewPreconditionNoCtx("%s called on a %s %s executor", call, s.State, s.Op)
	logutil.Error("sink protocol violated",
		zap.String("executor", s.Op.String()),
		zap.String("call", call),
		zap.String("state", s.State.String()))
	return err
}

func (s *SinkBase) CheckConsume() error {
	if s.State != Consuming {
		return s.misuse("Consume")
	}
	return nil
}

// CheckFinish moves the sink to Finished.
func (s *SinkBase) CheckFinish() error {
	if s.State != Consuming {
		return s.misuse("Finish")
	}
	s.State = Finished
	return nil
}

func (s *SinkBase) CheckProduce(canProduce bool) error {
	if s.State != Finished || !canProduce {
		return s.misuse("Produce")
	}
	return nil
}

func (s *SinkBase) CheckFinished(call string) error {
	if s.State != Finished {
		return s.misuse(call)
	}
	return nil
}

// Close reports whether the sink was open.
func (s *SinkBase) Close() bool {
	if s.State == Closed {
		return false
	}
	s.State = Closed
	return true
}
