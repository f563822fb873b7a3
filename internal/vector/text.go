/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "golang.org/x/text/unicode/norm"

// Font size limits for text shapes.
const (
	MinFontSize = 6
	MaxFontSize = 72
)

// TextContent is the payload of a text shape. The box of the shape is
// independent of the natural text metrics and clips the text.
type TextContent struct {
	Text       string
	FontSize   int
	FontFamily string
}

// NormalizeText returns the canonical (NFC) form stored in text shapes so
// that equal strings produce equal snapshots.
func NormalizeText(s string) string { return norm.NFC.String(s) }

// ValidFontSize reports whether n is within the supported range.
func ValidFontSize(n int) bool { return n >= MinFontSize && n <= MaxFontSize }
