// Package tempfile provides the display store adapter backed by temporary
// image files that an external viewer can open.
package tempfile
