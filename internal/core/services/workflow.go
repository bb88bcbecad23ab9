package services

import (
	"github.com/custodia-labs/facetag/internal/core/ports/driven"
)

// Workflow wires the controllers of one client around a shared Session.
//
//	Paginator + DocumentList -> ImageViewer -> FaceAnalysis -> AbstractUpdater
type Workflow struct {
	Session  *Session
	List     *DocumentList
	Pages    *Paginator
	Viewer   *ImageViewer
	Faces    *FaceAnalysis
	Abstract *AbstractUpdater
	Cache    *CacheService
}

// NewWorkflow creates the controllers for one client.
func NewWorkflow(
	store driven.DocumentStore,
	analyzer driven.FaceAnalyzer,
	display driven.DisplayStore,
) *Workflow {
	session := NewSession(display)
	list := NewDocumentList(store)
	pages := NewPaginator(list)

	return &Workflow{
		Session:  session,
		List:     list,
		Pages:    pages,
		Viewer:   NewImageViewer(store, display, session),
		Faces:    NewFaceAnalysis(analyzer, session),
		Abstract: NewAbstractUpdater(store, session),
		Cache:    NewCacheService(store, pages),
	}
}

// Shutdown releases everything the session holds.
func (w *Workflow) Shutdown() error {
	return w.Session.Reset()
}
