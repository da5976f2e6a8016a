// Package gen turns domain documents into source trees.
//
// A run walks through these phases:
//
//	discover   list the documents of the input and lookup directories
//	parse      parse every document into definitions (compiler/load)
//	merge      merge the fragments of each named group (compiler/merge)
//	emit       build a code model per merged definition (Emitter)
//	write      render, format and write the files below the output root
//	cleanup    delete owned files that the run did not produce
//
// The Emitter is target neutral; a Profile supplies the decoration types,
// scalar mapping and default literals of a target. SpringProfile maps to
// JPA entities with Spring Data repositories and services, GoProfile to Go
// structs with directive comments.
//
// # Usage
//
//	res, err := gen.Generate(ctx,
//		gen.WithInput("domains"),
//		gen.WithOutput("src-gen"),
//		gen.WithLogger(logger),
//	)
//
// # Errors
//
// Failures carry the typed errors of the springforge package:
// ParseError, MergeConflictError, RenderError, IOError and ConfigError.
// A merge conflict aborts the run unless the conflict policy is
// ConflictSkip, in which case the group is dropped and its previous
// output kept.
package gen
