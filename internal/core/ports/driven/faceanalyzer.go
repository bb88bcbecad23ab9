package driven

import (
	"context"

	"github.com/custodia-labs/facetag/internal/core/domain"
)

// FaceAnalyzer is the external face-analysis service.
type FaceAnalyzer interface {
	// Analyze uploads one image and returns the detected faces.
	Analyze(ctx context.Context, filename string, image []byte) (*domain.AnalysisResult, error)

	// AddFace registers a confirmed name for one detected face.
	AddFace(ctx context.Context, reg domain.FaceRegistration) error
}
