// Package document holds the editable text and selection of a single editing
// session.
//
// A Document is a plain value holder: it exposes read accessors and a
// merge-style Update that replaces only the fields named in a Patch. It does
// not validate selections; the commands in package history are responsible
// for keeping 0 <= Start <= End <= Len().
//
// All offsets are rune offsets into the content.
package document
