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


// Package storage defines the repository abstraction that supplies
// shortcut records to the search pipeline.
//
// The ShortcutRepository interface decouples record loading from search
// logic. The bundled in-memory implementation lives in storage/memory;
// applications with their own record sources implement the interface
// directly.
//
// # Thread Safety
//
// All repository implementations must be safe for concurrent use. The
// searcher calls them from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and
// timeout support.
package storage
