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


// Package match implements the string-matching strategies behind shortcut
// search: fuzzy similarity scoring and abbreviation resolution.
//
// Similarity blends Jaro-Winkler distance with substring containment into a
// single 0..100 score. The Resolver expands abbreviations through a static
// dictionary, first-letter matching, and subsequence matching, trying each
// strategy in that order.
//
// Both matchers are pure: they hold no shared mutable state and are safe
// for concurrent use.
package match
