// Package publish renders the lesson as a static site and uploads it to
// S3 or an S3-compatible store.
//
// A static snapshot is the server-rendered page without the live client:
// the diagrams show the values of the store they were rendered from and
// do not respond to input.
package publish
