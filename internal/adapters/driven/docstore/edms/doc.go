// Package edms provides the document store adapter for the EDMS web service.
//
// The service exposes the document collection as paged JSON, serves each
// document's image as raw bytes, and accepts abstract updates and thumbnail
// cache purges.
package edms
