// Package diag defines the diagnostic data model consumed by the
// rendering pipeline.
//
// # Purpose
//
//   - Provide deterministic, plain-data structures describing findings:
//     severity, optional code, message, labeled source spans, notes.
//   - Offer light-weight utilities (Bag, Reporter) so producers can emit
//     diagnostics without coupling to storage or formatting layers.
//
// # Scope
//
// Package diag performs no formatting and no IO. Layout and rendering
// live in internal/diagfmt; concrete output sinks in internal/termstyle.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – five-level enum (Help, Note, Warning, Error, Bug),
//     ordered for display only.
//   - Code – optional stable identifier shown in brackets after the
//     severity tag.
//   - Message – human oriented text; keep it short and actionable.
//   - Labels – styled annotations over half-open byte spans. The first
//     primary label (or the first label) anchors the header location.
//   - Notes – free text rendered after the source blocks.
//
// Labels within one file follow a fixed ordering (start ascending,
// primary before secondary, longer span first) so re-rendering the same
// diagnostic always produces identical output.
//
// Notes should be used sparingly: each note must add new context rather
// than repeating the diagnostic message.
package diag
