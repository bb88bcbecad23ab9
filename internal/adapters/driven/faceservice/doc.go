// Package faceservice provides the face analysis adapter for the face
// recognition service.
//
// Images are uploaded as multipart form files and the service answers with
// an annotated image plus one entry per detected face. Registering a name
// for a face sends the face location back verbatim together with the
// service's own encoding of the original image.
//
// Requests are throttled by a token bucket so that a burst of saves from
// the UI cannot overwhelm the service.
package faceservice
