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


// Package score computes the blended relevance score for matched
// shortcut records.
//
// Six signals feed the blend: the match type's base score, field
// relevance, usage frequency, recency, application popularity, and
// record context. Each signal is normalized to 0-100, weighted, and
// summed; the result is clamped to [0, 100]. The weights sum to 1, so a
// record that maxes every signal scores exactly 100.
package score
