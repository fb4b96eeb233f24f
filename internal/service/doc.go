// Package service implements the onnxcut pipelines.
//
// ExtractService runs one edit end to end: load the model, optionally
// check it, name unnamed nodes, rewrite the boundary and prune, check
// again, save, and record the run in the journal when one is configured.
// Check results are advisory and never stop the pipeline.
//
// SummaryService loads a model and tallies its operators, writing Loop
// bodies out as standalone models on request.
//
// Both publish stage events on an optional EventBus so callers can report
// progress.
package service
