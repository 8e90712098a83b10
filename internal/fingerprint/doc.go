// Package fingerprint computes the 64-bit content fingerprint the subtitle
// catalog uses to match video files by hash.
package fingerprint
