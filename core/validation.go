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

import "fmt"

// ValidateShortcut validates a Shortcut according to domain rules.
//
// Validation rules:
//   - Keys must not be empty
//   - Source must not be empty
//
// NOT validated:
//   - Description, Category, Keywords, Aliases, Platform, Difficulty,
//     Language (optional metadata)
//   - UsageCount (zero is a valid history)
func ValidateShortcut(shortcut *Shortcut) error {
	if shortcut == nil {
		return fmt.Errorf("%w: shortcut is nil", ErrInvalidShortcut)
	}

	if shortcut.Keys == "" {
		return fmt.Errorf("%w: %w", ErrInvalidShortcut, ErrEmptyKeys)
	}

	if shortcut.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidShortcut, ErrEmptySource)
	}

	return nil
}

// ValidateMatchType validates that a MatchType is one of the known strategies.
func ValidateMatchType(mt MatchType) error {
	switch mt {
	case MatchTypeExact, MatchTypeFuzzy, MatchTypeAbbreviation,
		MatchTypePartial, MatchTypeKeyword, MatchTypeCategory:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidMatchType, mt)
}
