package tui

import "errors"

// ErrMissingDocumentService is returned when the document list service is not provided.
var ErrMissingDocumentService = errors.New("tui: document list service is required")

// ErrMissingPaginationService is returned when the pagination service is not provided.
var ErrMissingPaginationService = errors.New("tui: pagination service is required")

// ErrMissingViewerService is returned when the image viewer service is not provided.
var ErrMissingViewerService = errors.New("tui: image viewer service is required")

// ErrMissingFaceService is returned when the face analysis service is not provided.
var ErrMissingFaceService = errors.New("tui: face analysis service is required")

// ErrMissingAbstractService is returned when the abstract update service is not provided.
var ErrMissingAbstractService = errors.New("tui: abstract update service is required")

// ErrMissingCacheService is returned when the cache service is not provided.
var ErrMissingCacheService = errors.New("tui: cache service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
