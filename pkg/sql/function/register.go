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

package function

import (
	"strings"

	"github.com/polystore/polystore/pkg/common/moerr"
)

// functionRegister maps every operator and builtin name to its function.
var functionRegister = map[string]Function{
	"+":        Add,
	"add":      Add,
	"plus":     Add,
	"-":        Minus,
	"minus":    Minus,
	"*":        Multiply,
	"multiply": Multiply,
	"/":        Ratio,
	"ratio":    Ratio,
	"div":      Ratio,
	"%":        Mod,
	"mod":      Mod,
	"neg":      Negate,
	"negate":   Negate,
	"abs":      Abs,
	"=":        Equal,
	"<>":       NotEqual,
	"!=":       NotEqual,
	"<":        Less,
	"<=":       LessEqual,
	">":        Greater,
	">=":       GreaterEqual,
	"and":      And,
	"or":       Or,
	"not":      Not,
	"like":     LikeFn,
	"not like": NotLikeFn,
	"cast":     &Cast{},
}

// Lookup returns the function registered under name, case-insensitive.
func Lookup(name string) (Function, error) {
	if f, ok := functionRegister[strings.ToLower(name)]; ok {
		return f, nil
	}
	return nil, moerr.NewNYINoCtx("function '%s'", name)
}

// MustLookup is Lookup for names known to exist.
func MustLookup(name string) Function {
	f, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return f
}
