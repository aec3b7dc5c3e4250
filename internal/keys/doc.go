// Package keys converts human-readable key notation into terminal byte
// sequences.
//
// Input strings may mix literal text with brace-delimited tokens such as
// {ENTER}, {TAB}, {UP} or {CTRL+C}. Token names are case-insensitive.
// Unknown tokens are passed through verbatim, braces included, so literal
// brace text is never destroyed.
//
// Example Usage:
//
//	keys.Encode("hello{ENTER}")      // → []byte("hello\r")
//	keys.Encode("{UP}{UP}{ENTER}")   // → ESC [A ESC [A CR
//	keys.Encode("{not-a-key}")       // → []byte("{not-a-key}")
package keys
