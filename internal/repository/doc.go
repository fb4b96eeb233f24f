// Package repository defines the data access interfaces for onnxcut.
//
// The only persisted entity is the edit journal: one Run record per
// extraction, holding the requested boundary, file fingerprints, member
// counts before and after the edit, and the names of removed nodes. The
// implementation lives in the sqlite subpackage.
//
// The journal is optional. Extraction never depends on it and a run that
// fails before its output is written is not recorded.
package repository
