// Package domain defines the core business entities for facetag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentSummary: One row of a document-store page
//   - DocumentImage: The binary image of a single document
//   - DisplayResource: The transient, paint-ready copy of an image
//   - DetectedFace: One face reported by the face-analysis service
//   - AnalysisSession: The faces and annotated image of one analysis run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
