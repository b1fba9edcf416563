// Package source fetches the product catalog document.
//
// A source is a local path, a file:// URL or an HTTP(S) URL. The document is
// either a JSON array of product records or an object carrying the array
// under "products" (or "items"). Decoding of individual records, including
// defaults for absent fields, lives in package catalog.
package source
