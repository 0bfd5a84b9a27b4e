// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import "errors"

// ErrEmptyResult means the model answered but produced nothing usable: no
// text, no inline image, or an empty field where content was required.
var ErrEmptyResult = errors.New("model returned no usable result")

// MalformedError means the model's reply could not be parsed into the
// action's documented shape. Raw carries the offending text for the
// error response's details field; it is logged, never shown verbatim
// to end users.
type MalformedError struct {
	Raw string
	Err error
}

func (e *MalformedError) Error() string {
	return "model response did not match the expected shape: " + e.Err.Error()
}

func (e *MalformedError) Unwrap() error { return e.Err }
