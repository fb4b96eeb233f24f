// Command onnxcut extracts subgraphs from ONNX models.
//
// Usage:
//
//	onnxcut extract <input-model> [output-model] [--inputs L] [--outputs L] [--skip-verify] [--plan file] [--journal db] [--watch]
//	onnxcut summarize <model> [--out-dir DIR] [--format text|json|yaml]
//	onnxcut inspect <model> [--format json|yaml]
//	onnxcut history [run-id] [--journal db] [--limit N]
//	onnxcut config show|init
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
