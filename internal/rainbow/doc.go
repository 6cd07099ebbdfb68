// Package rainbow provides the shared data model for leprechaun.
//
// This package contains the pair type, its line wire format and the error
// taxonomy. All other internal packages import rainbow; rainbow imports
// nothing internal.
//
// Wire format:
//
//	<digest>:<plaintext>\n
//
// The digest is lowercase hexadecimal and never contains a colon, so the
// first colon in a line always separates digest from plaintext. Any further
// colons belong to the plaintext.
package rainbow
