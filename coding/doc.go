// Package coding turns comment annotations on shared documents into a
// structured coding table for qualitative analysis.
//
// Annotators attach comments to quoted passages of a document. The comment
// text encodes one or more hierarchical tags in a small grammar:
//
//	code
//	code: subcode
//	code: subcode: sub-subcode
//	code: a, b, c
//	code: subcode: x, y
//
// A colon separates up to [MaxDepth] hierarchy levels. A comma separates
// sibling values at the deepest level given, so "top: a, b" codes the same
// passage as both "top: a" and "top: b". A comment may carry several
// annotations separated by the renderer's line break marker
// ([DefaultLineBreak]).
//
// # Pipeline
//
// [Builder.Build] processes [Documents] in two passes:
//
//  1. Collect: every comment of every document is validated, split into
//     annotations with [SplitAnnotations], and parsed with
//     [ParseAnnotation]. Each resulting [Coding] becomes a raw record that
//     carries the flattened code string.
//
//  2. Resolve: every raw record's flattened code is split by position into
//     a [CodePath] with [ParseCodePath], producing a final [Record]. Absent
//     levels are the empty string.
//
// The records are then sorted by (code, subcode, sub-subcode, document) to
// form a [Table]. Documents are visited in ascending name order and comments
// in source order, so records sharing a key keep that order.
//
// # Normalization
//
// A [Normalizer] rewrites whole words or phrases in the lowercased
// annotation before parsing, which lets a team merge synonyms ("ux" into
// "usability") without editing comments. Keys are matched in the order the
// [Normalizer] was built with. Overlapping keys are order-dependent, so keep
// the map conflict-free. [ReadNormalizer] loads an ordered mapping from YAML
// or JSON.
//
// # Derived Views
//
// [CodeList] returns the flattened code of every record in table order.
// [CodeCounts] counts them, and [CodeCountsAtDepth] counts codes truncated to
// their first levels so that parent codes can be compared independently of
// their subcodes.
//
// # Errors
//
//   - [ErrMalformedAnnotation]: an annotation or flattened code has more than
//     [MaxDepth] levels. Fatal to the whole build.
//   - [ErrMissingCommentField]: a comment lacks its id, content, quoted text
//     or author name.
//   - [ErrInvalidInput]: a snapshot or normalization file could not be decoded.
//   - [ErrReadInput]: a file could not be read.
package coding
