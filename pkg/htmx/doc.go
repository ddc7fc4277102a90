// Package htmx reads HTMX request headers and writes HTMX response headers.
package htmx
