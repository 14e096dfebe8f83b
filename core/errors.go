// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidShortcut indicates a Shortcut failed validation.
	ErrInvalidShortcut = errors.New("invalid shortcut")

	// ErrEmptyKeys indicates the Keys field is empty.
	ErrEmptyKeys = errors.New("shortcut keys cannot be empty")

	// ErrEmptySource indicates the Source field is empty.
	ErrEmptySource = errors.New("shortcut source cannot be empty")

	// ErrInvalidMatchType indicates an unknown MatchType value.
	ErrInvalidMatchType = errors.New("invalid match type")

	// ErrCorruptLength indicates serialized data carried a negative length prefix.
	ErrCorruptLength = errors.New("corrupt length prefix")
)
