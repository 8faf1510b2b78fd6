// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The query path is FilterCompiler -> Retriever -> AnswerService and the
// ingestion path is CorpusLoader -> PostProcessorPipeline -> EmbeddingService
// -> VectorIndex, both wired by IngestService and AnswerService.
package services
