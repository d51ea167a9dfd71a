// Package pipeline runs the load → layout → export pipeline shared by the
// CLI and the HTTP server.
//
// The pipeline has two stages:
//
//  1. Load: read and validate a serialized diagram document
//  2. Layout: compute the layered layout and export it as a Document
//
// Layouts are pure functions of (diagram, layout options), so the runner
// caches them under a content hash of the serialized diagram plus the
// option fields that influence the result. Both stages can be run
// independently or as part of the complete pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Input: "system.json"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc := result.Document
package pipeline

import (
	"github.com/orreryworks/orrery/pkg/layout"
)

// Algorithm names accepted by Options.Algorithm, re-exported so callers
// need not import the layout package for flag validation.
const (
	AlgorithmBasic        = layout.AlgorithmBasic
	AlgorithmForce        = layout.AlgorithmForce
	AlgorithmHierarchical = layout.AlgorithmHierarchical
)
