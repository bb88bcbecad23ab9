// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentStore: The document-store HTTP API (list, image, cache, abstract)
//   - FaceAnalyzer: The face-analysis HTTP API (analyze, register face)
//   - DisplayStore: Transient display resources for fetched images
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
