// Package encoding runs the ffmpeg-based transcode workflow.
//
// It probes inputs to decide whether video and audio streams need converting
// or can be stream-copied, encodes into a staging scratch directory, checks
// the result against the bad-encode ledger and the size-regression rule, and
// commits finished files with the hardlink-or-copy placement rules. Replace
// and benchmark flows build on the same orchestrator.
//
// Keep additional transcode logic here so the CLI commands can assume a single
// source of truth for encode outcomes.
package encoding
