// Package sanitizer normalizes customer input before validation and storage.
//
// All functions are idempotent and never fail: input that cannot be
// normalized is returned trimmed so that validation can decide what to do.
//
// Normalization includes:
//   - Names: trim and collapse internal whitespace
//   - Phone numbers: E.164 when the number is recognisable (+[country][number])
//   - Identifier lists: trim each entry, keep order and repeats
package sanitizer
