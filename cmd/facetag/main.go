// Command facetag labels faces in EDMS document images.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/custodia-labs/facetag/internal/adapters/driven/display/tempfile"
	"github.com/custodia-labs/facetag/internal/adapters/driven/docstore/edms"
	"github.com/custodia-labs/facetag/internal/adapters/driven/faceservice"
	"github.com/custodia-labs/facetag/internal/adapters/driven/opener"
	"github.com/custodia-labs/facetag/internal/adapters/driving/cli"
	"github.com/custodia-labs/facetag/internal/core/domain"
	"github.com/custodia-labs/facetag/internal/core/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBuilder(build)

	err := fang.Execute(
		context.Background(),
		cli.Root(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	)
	// Interrupted commands skip the post-run hook.
	_ = cli.Shutdown()
	if err != nil {
		os.Exit(1)
	}
}

// build wires the driven adapters and services for one command.
func build(s *domain.Settings) (*cli.Runtime, error) {
	store := edms.NewClient(edms.Config{
		BaseURL: s.DocStore.BaseURL,
		Timeout: s.DocStore.TimeoutDuration(),
	})
	analyzer := faceservice.NewClient(faceservice.Config{
		BaseURL:           s.FaceService.BaseURL,
		Timeout:           s.FaceService.TimeoutDuration(),
		RequestsPerSecond: s.FaceService.RequestsPerSecond,
		Burst:             s.FaceService.Burst,
	})
	display, err := tempfile.NewStore(s.Display.Dir)
	if err != nil {
		return nil, err
	}

	w := services.NewWorkflow(store, analyzer, display)
	return &cli.Runtime{
		Documents: w.List,
		Pages:     w.Pages,
		Viewer:    w.Viewer,
		Faces:     w.Faces,
		Abstract:  w.Abstract,
		Cache:     w.Cache,
		Open:      opener.Open,
		Close: func() error {
			return errors.Join(w.Shutdown(), display.Close())
		},
	}, nil
}
