//go:build onnx

package main

import (
	"github.com/nyxia-labs/mira/config"
	"github.com/nyxia-labs/mira/memory"
	"github.com/nyxia-labs/mira/memory/embedder/onnx"
)

func newONNXEmbedder(cfg *config.Config) (memory.Embedder, error) {
	return onnx.New(onnx.Config{
		ModelPath:     cfg.Embedder.ModelPath,
		TokenizerPath: cfg.Embedder.TokenizerPath,
		LibraryPath:   cfg.Embedder.LibraryPath,
		Dimensions:    cfg.Embedder.Dimensions,
	})
}
