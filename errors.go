/*
 * errors.go, part of frameorder.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package frameorder

import (
	"errors"
	"fmt"
	"strings"
)

//Kind classifies the errors returned by the library.
type Kind int

const (
	Unknown Kind = iota
	ModelNotSelected
	PivotNotSet
	ParameterOutOfRange
	GridTooLarge
	DegenerateGeometry
	NumericalFailure
	UnsupportedAlgorithm
	MissingRequiredData
	InvalidData
)

var kindNames = map[Kind]string{
	Unknown:              "unknown error",
	ModelNotSelected:     "model not selected",
	PivotNotSet:          "pivot not set",
	ParameterOutOfRange:  "parameter out of range",
	GridTooLarge:         "grid too large",
	DegenerateGeometry:   "degenerate geometry",
	NumericalFailure:     "numerical failure",
	UnsupportedAlgorithm: "unsupported algorithm",
	MissingRequiredData:  "missing required data",
	InvalidData:          "invalid data",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[Unknown]
}

//Err is the error type returned by all the packages of the library. It implements Error.
//The deco slice keeps the trail of functions the error went through.
type Err struct {
	kind     Kind
	message  string
	deco     []string
	critical bool
}

//NewError returns a new critical error of the given kind. The caller is the first
//element of the decoration trail.
func NewError(kind Kind, caller, format string, a ...any) *Err {
	return &Err{kind: kind, message: fmt.Sprintf(format, a...), deco: []string{caller}, critical: true}
}

//Warning returns a non-critical error of the given kind.
func Warning(kind Kind, caller, format string, a ...any) *Err {
	E := NewError(kind, caller, format, a...)
	E.critical = false
	return E
}

func (E *Err) Error() string {
	if len(E.deco) == 0 {
		return fmt.Sprintf("frameorder: %s: %s", E.kind, E.message)
	}
	return fmt.Sprintf("frameorder: %s: %s (%s)", E.kind, E.message, strings.Join(E.deco, " <- "))
}

//Decorate adds new information to the error, and returns the whole trail.
//An empty string just returns the current trail.
func (E *Err) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//Kind returns the kind of the error
func (E *Err) Kind() Kind { return E.kind }

//Message returns the error message without the kind or the trail.
func (E *Err) Message() string { return E.message }

//Critical returns true if the error is critical, false otherwise
func (E *Err) Critical() bool { return E.critical }

//Is allows errors.Is to match an error against the Err sentinels of the same kind.
func (E *Err) Is(target error) bool {
	t, ok := target.(*Err)
	if !ok {
		return false
	}
	return t.kind == E.kind && t.message == ""
}

//Sentinels to be used with errors.Is
var (
	ErrModelNotSelected     = &Err{kind: ModelNotSelected}
	ErrPivotNotSet          = &Err{kind: PivotNotSet}
	ErrParameterOutOfRange  = &Err{kind: ParameterOutOfRange}
	ErrGridTooLarge         = &Err{kind: GridTooLarge}
	ErrDegenerateGeometry   = &Err{kind: DegenerateGeometry}
	ErrNumericalFailure     = &Err{kind: NumericalFailure}
	ErrUnsupportedAlgorithm = &Err{kind: UnsupportedAlgorithm}
	ErrMissingRequiredData  = &Err{kind: MissingRequiredData}
	ErrInvalidData          = &Err{kind: InvalidData}
)

//KindOf returns the Kind of err, or Unknown if err is not an *Err
func KindOf(err error) Kind {
	var E *Err
	if errors.As(err, &E) {
		return E.kind
	}
	return Unknown
}

//ErrDecorate decorates err with the caller's name before returning it.
//errors that don't implement Error are wrapped in an *Err of kind Unknown.
func ErrDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if E, ok := err.(Error); ok {
		E.Decorate(caller)
		return err
	}
	return &Err{kind: Unknown, message: err.Error(), deco: []string{caller}, critical: true}
}

//PanicMsg is a message used for panics, even though it does satisfy the error interface.
//for errors use Err.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrMediaMismatch = PanicMsg("frameorder: per-medium slices of different lengths")
)
