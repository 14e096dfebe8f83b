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


// Package search provides multi-strategy search over shortcut records.
//
// The Searcher type implements a staged search pipeline that combines:
//   - Exact field matching on keys, descriptions, keywords, and aliases
//   - Substring matching across the same fields plus categories
//   - Fuzzy matching based on Jaro-Winkler similarity
//   - Abbreviation resolution (dictionary, first letters, subsequence)
//
// Pass results are scored through a single blended formula, merged,
// deduplicated by record identity, and ranked. Results are cached with a
// short TTL; candidate snapshots with a longer one. At most three
// searches run concurrently; further callers queue in arrival order.
//
// Search failures after admission degrade to an empty result list
// rather than an error, so a broken cache or a panicking pass never
// takes the caller down. Context cancellation is the exception and is
// always reported.
package search
