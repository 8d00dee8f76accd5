package fetch

// Package fetch implements the asynchronous image fetcher behind the lightbox.
// A fetch reads bytes from a local file or issues a single HTTP GET, validates
// the response, decodes the bytes into an image.Image and reports exactly one
// Result, unless the fetcher was cancelled or superseded in the meantime.
