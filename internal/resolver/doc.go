// Package resolver attributes a video row to a creator from the Directory.
//
// Resolution is an ordered list of rules and the first success wins:
//
//  1. URL lookup, raw then normalized.
//  2. Handles extracted from the URL (TikTok, Instagram, YouTube patterns).
//  3. The row's handle, normalized.
//  4. Handle variations: trailing digits stripped, separators removed, @ toggled.
//  5. Substring containment against every roster handle, both sides at least
//     five characters.
//  6. Case-insensitive display name.
//
// A miss is not an error: Resolve returns false and the caller records the row
// as unmatched. The Step on a Match says which rule fired so reports can show
// how lenient an attribution was.
package resolver
