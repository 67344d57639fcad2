// Package memory implements the two-tier conversational memory: a
// bounded short-term turn buffer and a durable, embedding-indexed
// long-term store split into episodic turns and semantic facts.
//
// Architecture:
//   - TurnBuffer: insertion-ordered FIFO window of recent turns
//   - Scorer: heuristic durability score for a turn, in [0,1]
//   - Store: vector storage backend (chromem-go embedded database)
//   - Embedder: text-to-vector conversion (ONNX, Ollama, or mock)
//   - Manager: the facade composing all of the above
//
// Consolidation runs on every ingested turn (consolidate-on-add), so
// a crash never loses turns that already completed; the importance
// score filters at retrieval time rather than gating writes. The
// alternative evict-then-consolidate policy, with an optional
// importance gate, is available through Config.
//
// Memory failures degrade, never abort: a failed write is logged and
// dropped, a failed retrieval reads as "no relevant memory found".
package memory
