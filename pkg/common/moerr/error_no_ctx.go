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

package moerr

import "context"

// Context is the context used by the NoCtx constructors. Kernels and
// value-level code run without a request context.
func Context() context.Context {
	return context.Background()
}

func NewInternalErrorNoCtx(msg string, args ...any) *Error {
	return NewInternalError(Context(), msg, args...)
}

func NewNYINoCtx(msg string, args ...any) *Error {
	return NewNYI(Context(), msg, args...)
}

func NewTypeMismatchNoCtx(fn string, pos int, typ string, want string) *Error {
	return NewTypeMismatch(Context(), fn, pos, typ, want)
}

func NewArityMismatchNoCtx(fn string, want, got int) *Error {
	return NewArityMismatch(Context(), fn, want, got)
}

func NewInvalidInputNoCtx(msg string, args ...any) *Error {
	return NewInvalidInput(Context(), msg, args...)
}

func NewInvalidArgNoCtx(arg string, val any) *Error {
	return NewInvalidArg(Context(), arg, val)
}

func NewUnsupportedTypeNoCtx(typ string) *Error {
	return NewUnsupportedType(Context(), typ)
}

func NewInvalidStateNoCtx(msg string, args ...any) *Error {
	return NewInvalidState(Context(), msg, args...)
}

func NewPreconditionNoCtx(msg string, args ...any) *Error {
	return NewPrecondition(Context(), msg, args...)
}
