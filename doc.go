/*
Package bedrock is a scaffold generation and packaging engine: it turns a
declarative registry of module descriptors into a deterministic multi-module
project tree, computes a verifiable SHA-256 manifest over it, and packages
the result into per-module and whole-tree archives with optional detached
GPG signatures.

# Concept

Bedrock treats generation as a pipeline of pure rendering plus
crash-consistent writes. Templates are pure functions of a module's name and
description; all filesystem effects go through an atomic writer (temp file,
chmod, rename), so a crashed or interrupted run never leaves a half-written
artifact and re-running is always safe. Idempotency is the substitute for
cancellation: without the force flag, existing files are never clobbered and
a second run simply fills whatever gaps remain.

# Key Guarantees

  - Idempotent: re-running without force leaves a byte-identical tree.
  - Atomic: every artifact is either absent, fully old, or fully new.
  - Reproducible: manifests are sorted by path bytes, never by directory
    enumeration order, so identical trees yield identical manifests.
  - Fault-isolated: one module's failure never stops its siblings.

# Usage

	package main

	import (
		"context"
		"log"
		"os"

		"github.com/aretw0/bedrock"
	)

	func main() {
		gen, err := bedrock.New("./out")
		if err != nil {
			log.Fatal(err)
		}

		result := gen.Run(context.Background())
		for _, m := range result.Modules {
			log.Printf("%s: %s", m.Name, m.Status)
		}
		os.Exit(result.ExitCode)
	}

The bedrock CLI in cmd/bedrock wraps the same engine with flags, a registry
file loader, and a terminal summary.
*/
package bedrock
