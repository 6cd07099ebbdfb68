// Package wordlist streams plaintext wordlists through a hash chain.
//
// [Hash] turns an open reader into a lazy, single-pass sequence of pairs,
// one per non-empty line, in file order. The reader is never opened or
// closed here: whoever opened the file releases it, whether the sequence is
// drained or abandoned early.
//
// Errors travel in the sequence alongside pairs:
//   - DecodeError: one line is not valid text; iteration continues
//   - IOError: the reader failed; iteration stops
//
// Wordlists are UTF-8 by default. Any WHATWG encoding label ("latin1",
// "windows-1252", "utf-16le", ...) can be selected with [WithEncoding]; such
// input is transcoded to UTF-8 before hashing, so the digest is always taken
// over the UTF-8 bytes of the plaintext.
package wordlist
