// Package subtitles turns a video file into a downloaded subtitle next to it.
//
// A fingerprint query and a name query are sent in one catalog search; the
// hits are ranked hash matches first, one candidate is picked by policy or by
// prompting, and the Base64-of-gzip payload is streamed to disk chunk by
// chunk. Errors carry the services markers so the run loop can tell skipped
// files (no results) from failed ones.
package subtitles
