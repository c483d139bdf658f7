// Package drzonst is the composition root of the DrZONST toolchain.
//
// It turns loosely formatted product requirement documents into a
// domain-driven design model, renders that model in a brace-delimited
// domain notation and converts the notation into a TypeSpec API schema.
//
// The pipeline has four stages, each a port in pkg/core:
//
//   - Parser (pkg/prd): tolerant structural parsing into a document tree.
//   - Inferrer (pkg/infer): an ordered rule table that derives entities,
//     value objects, aggregates, repositories, events and a permission policy.
//   - Generator (pkg/csl): deterministic notation rendering.
//   - Transpiler (pkg/tsp): notation to schema, with its own parser.
//
// Every stage is a pure function of its input. Reading inputs and writing
// artifacts is delegated to a core.Source and a core.Sink; the defaults
// read local files and write either local files (atomically) or, for
// s3://bucket/key targets, S3-compatible object storage.
//
// Usage:
//
//	model := drzonst.Infer(drzonst.Parse(text))
//	notation := drzonst.Generate(model)
//	schema := drzonst.Transpile(notation, drzonst.WithSchemaHost("api.shop.test"))
//
//	// Batch conversion with globbing and bounded parallelism
//	_, err := drzonst.GenerateFiles(ctx, drzonst.GenerateRequest{
//		Inputs: []string{"docs/**/*.prd.md"},
//		Schema: true,
//	}, drzonst.WithWorkers(4))
package drzonst
