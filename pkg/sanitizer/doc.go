// Package sanitizer normalizes caller-supplied strings before they reach
// validation, storage lookups or logs.
//
// All normalization functions are idempotent - applying them multiple times produces
// the same result. Invalid input is returned as an empty string rather than an
// error; callers treat empty as "absent".
//
// Normalization includes:
//   - Strings: Collapse whitespace, trim leading/trailing spaces
//   - User ids: Trim, drop control characters, cap the length
//   - Labels: Trim and lowercase enum-like query values such as "Active"
package sanitizer
