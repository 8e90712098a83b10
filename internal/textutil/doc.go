// Package textutil provides filename sanitization for names received from the
// subtitle catalog.
package textutil
