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

import (
	"math"
	"sort"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the values that travel through the byte-level cache
// store. Written by hand: the set is small and the format stable. Field
// order is part of the format; new fields go at the end.
var (
	// ShortcutMUS serializes a single shortcut record.
	ShortcutMUS = shortcutMUS{}

	// ShortcutsMUS serializes a candidate list.
	ShortcutsMUS = shortcutsMUS{}

	// SourceMapMUS serializes the per-source candidate buckets.
	SourceMapMUS = sourceMapMUS{}

	// MatchResultMUS serializes a single ranked hit.
	MatchResultMUS = matchResultMUS{}

	// MatchResultsMUS serializes a ranked result list.
	MatchResultsMUS = matchResultsMUS{}
)

type shortcutMUS struct{}

func (shortcutMUS) Marshal(v *Shortcut, bs []byte) (n int) {
	n = ord.String.Marshal(v.Keys, bs)
	n += ord.String.Marshal(v.Description, bs[n:])
	n += ord.String.Marshal(v.Category, bs[n:])
	n += marshalStrings(v.Keywords, bs[n:])
	n += marshalStrings(v.Aliases, bs[n:])
	n += ord.String.Marshal(v.Source, bs[n:])
	n += ord.String.Marshal(v.Platform, bs[n:])
	n += ord.String.Marshal(v.Difficulty, bs[n:])
	n += ord.Bool.Marshal(v.Global, bs[n:])
	n += varint.Int64.Marshal(v.Usage(), bs[n:])
	n += ord.String.Marshal(v.Language, bs[n:])
	return n
}

func (shortcutMUS) Unmarshal(bs []byte) (v *Shortcut, n int, err error) {
	v = &Shortcut{}
	var c int
	if v.Keys, c, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return nil, n + c, err
	}
	n += c
	if v.Description, c, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return nil, n + c, err
	}
	n += c
	if v.Category, c, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return nil, n + c, err
	}
	n += c
	if v.Keywords, c, err = unmarshalStrings(bs[n:]); err != nil {
		return nil, n + c, err
	}
	n += c
	if v.Aliases, c, err = unmarshalStrings(bs[n:]); err != nil {
		return nil, n + c, err
	}
	n += c
	if v.Source, c, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return nil, n + c, err
	}
	n += c
	if v.Platform, c, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return nil, n + c, err
	}
	n += c
	if v.Difficulty, c, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return nil, n + c, err
	}
	n += c
	if v.Global, c, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return nil, n + c, err
	}
	n += c
	if v.UsageCount, c, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return nil, n + c, err
	}
	n += c
	if v.Language, c, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return nil, n + c, err
	}
	n += c
	return v, n, nil
}

func (shortcutMUS) Size(v *Shortcut) (size int) {
	size = ord.String.Size(v.Keys)
	size += ord.String.Size(v.Description)
	size += ord.String.Size(v.Category)
	size += sizeStrings(v.Keywords)
	size += sizeStrings(v.Aliases)
	size += ord.String.Size(v.Source)
	size += ord.String.Size(v.Platform)
	size += ord.String.Size(v.Difficulty)
	size += ord.Bool.Size(v.Global)
	size += varint.Int64.Size(v.Usage())
	size += ord.String.Size(v.Language)
	return size
}

type shortcutsMUS struct{}

func (shortcutsMUS) Marshal(v []*Shortcut, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, s := range v {
		n += ShortcutMUS.Marshal(s, bs[n:])
	}
	return n
}

func (shortcutsMUS) Unmarshal(bs []byte) (v []*Shortcut, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length < 0 {
		return nil, n, ErrCorruptLength
	}
	v = make([]*Shortcut, 0, length)
	for i := 0; i < length; i++ {
		s, c, err := ShortcutMUS.Unmarshal(bs[n:])
		if err != nil {
			return nil, n + c, err
		}
		n += c
		v = append(v, s)
	}
	return v, n, nil
}

func (shortcutsMUS) Size(v []*Shortcut) (size int) {
	size = varint.Int.Size(len(v))
	for _, s := range v {
		size += ShortcutMUS.Size(s)
	}
	return size
}

type sourceMapMUS struct{}

// Marshal walks sources in sorted order so identical maps produce identical
// bytes.
func (sourceMapMUS) Marshal(v map[string][]*Shortcut, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, source := range sortedSources(v) {
		n += ord.String.Marshal(source, bs[n:])
		n += ShortcutsMUS.Marshal(v[source], bs[n:])
	}
	return n
}

func (sourceMapMUS) Unmarshal(bs []byte) (v map[string][]*Shortcut, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length < 0 {
		return nil, n, ErrCorruptLength
	}
	v = make(map[string][]*Shortcut, length)
	for i := 0; i < length; i++ {
		source, c, err := ord.String.Unmarshal(bs[n:])
		if err != nil {
			return nil, n + c, err
		}
		n += c
		bucket, c, err := ShortcutsMUS.Unmarshal(bs[n:])
		if err != nil {
			return nil, n + c, err
		}
		n += c
		v[source] = bucket
	}
	return v, n, nil
}

func (sourceMapMUS) Size(v map[string][]*Shortcut) (size int) {
	size = varint.Int.Size(len(v))
	for source, bucket := range v {
		size += ord.String.Size(source)
		size += ShortcutsMUS.Size(bucket)
	}
	return size
}

type matchResultMUS struct{}

func (matchResultMUS) Marshal(v *MatchResult, bs []byte) (n int) {
	n = ShortcutMUS.Marshal(v.Shortcut, bs)
	n += varint.Uint64.Marshal(math.Float64bits(v.Score), bs[n:])
	n += ord.String.Marshal(string(v.MatchType), bs[n:])
	n += ord.String.Marshal(v.MatchedField, bs[n:])
	n += marshalStrings(v.MatchedTerms, bs[n:])
	n += ord.Bool.Marshal(v.FromCache, bs[n:])
	n += varint.Int64.Marshal(v.Timestamp.UnixMicro(), bs[n:])
	return n
}

func (matchResultMUS) Unmarshal(bs []byte) (v *MatchResult, n int, err error) {
	v = &MatchResult{}
	var c int
	if v.Shortcut, c, err = ShortcutMUS.Unmarshal(bs); err != nil {
		return nil, c, err
	}
	n = c
	bits, c, err := varint.Uint64.Unmarshal(bs[n:])
	if err != nil {
		return nil, n + c, err
	}
	n += c
	v.Score = math.Float64frombits(bits)
	mt, c, err := ord.String.Unmarshal(bs[n:])
	if err != nil {
		return nil, n + c, err
	}
	n += c
	v.MatchType = MatchType(mt)
	if v.MatchedField, c, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return nil, n + c, err
	}
	n += c
	if v.MatchedTerms, c, err = unmarshalStrings(bs[n:]); err != nil {
		return nil, n + c, err
	}
	n += c
	if v.FromCache, c, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return nil, n + c, err
	}
	n += c
	micros, c, err := varint.Int64.Unmarshal(bs[n:])
	if err != nil {
		return nil, n + c, err
	}
	n += c
	v.Timestamp = time.UnixMicro(micros).UTC()
	return v, n, nil
}

func (matchResultMUS) Size(v *MatchResult) (size int) {
	size = ShortcutMUS.Size(v.Shortcut)
	size += varint.Uint64.Size(math.Float64bits(v.Score))
	size += ord.String.Size(string(v.MatchType))
	size += ord.String.Size(v.MatchedField)
	size += sizeStrings(v.MatchedTerms)
	size += ord.Bool.Size(v.FromCache)
	size += varint.Int64.Size(v.Timestamp.UnixMicro())
	return size
}

type matchResultsMUS struct{}

func (matchResultsMUS) Marshal(v []*MatchResult, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, r := range v {
		n += MatchResultMUS.Marshal(r, bs[n:])
	}
	return n
}

func (matchResultsMUS) Unmarshal(bs []byte) (v []*MatchResult, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length < 0 {
		return nil, n, ErrCorruptLength
	}
	v = make([]*MatchResult, 0, length)
	for i := 0; i < length; i++ {
		r, c, err := MatchResultMUS.Unmarshal(bs[n:])
		if err != nil {
			return nil, n + c, err
		}
		n += c
		v = append(v, r)
	}
	return v, n, nil
}

func (matchResultsMUS) Size(v []*MatchResult) (size int) {
	size = varint.Int.Size(len(v))
	for _, r := range v {
		size += MatchResultMUS.Size(r)
	}
	return size
}

func marshalStrings(v []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, s := range v {
		n += ord.String.Marshal(s, bs[n:])
	}
	return n
}

func unmarshalStrings(bs []byte) (v []string, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length < 0 {
		return nil, n, ErrCorruptLength
	}
	if length == 0 {
		return nil, n, nil
	}
	v = make([]string, 0, length)
	for i := 0; i < length; i++ {
		s, c, err := ord.String.Unmarshal(bs[n:])
		if err != nil {
			return nil, n + c, err
		}
		n += c
		v = append(v, s)
	}
	return v, n, nil
}

func sizeStrings(v []string) (size int) {
	size = varint.Int.Size(len(v))
	for _, s := range v {
		size += ord.String.Size(s)
	}
	return size
}

func sortedSources(v map[string][]*Shortcut) []string {
	sources := make([]string, 0, len(v))
	for source := range v {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources
}
