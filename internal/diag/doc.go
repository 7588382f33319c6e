// Package diag defines the warning model of a diff run.
//
// # Purpose
//
// A run never aborts on one bad declaration or one unreadable file. Whatever
// could not be compared is recorded here and reported next to the events:
//
//   - DIF codes: a declaration whose comparison failed (malformed node,
//     tokenizer failure or timeout, unreadable permission expression).
//   - IO codes: a file pair that could not be read or parsed.
//   - LBL codes: problems in the label checker's input tree.
//
// Unrecognized node or tag kinds are not diagnostics; the differ skips them.
//
// # Data model
//
// Diagnostic carries a Severity, a Code with a stable string ID (DIF1001 and
// so on), a Message and a Position (file, line, column, declaration name).
// Notes add secondary positions, for example the new side of a file pair.
//
// # Emitting diagnostics
//
// Producers take a Reporter. BagReporter stores into a Bag, DedupReporter
// drops repeats. Bag is safe for concurrent use because the orchestrator fans
// file pairs out to several goroutines; call Sort before rendering.
//
// Rendering lives in internal/diagfmt.
package diag
