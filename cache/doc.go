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


// Package cache provides TTL-based caching for search results, shortcut
// snapshots, and usage statistics.
//
// The Store interface operates on raw bytes so backends stay
// interchangeable; the in-memory implementation lives in this package
// and a persistent BadgerDB implementation lives in cache/badger. View
// pairs a Store with a MUS codec to give callers typed access. Cache
// failures never fail the caller: a read error behaves like a miss and
// a write error leaves the freshly computed value in use.
package cache
