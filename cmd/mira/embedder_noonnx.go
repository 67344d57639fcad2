//go:build !onnx

package main

import (
	"fmt"

	"github.com/nyxia-labs/mira/config"
	"github.com/nyxia-labs/mira/memory"
)

func newONNXEmbedder(cfg *config.Config) (memory.Embedder, error) {
	return nil, fmt.Errorf("onnx embedder requires building with -tags onnx")
}
