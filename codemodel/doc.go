// Package codemodel is a target-neutral model of the source files springforge
// emits.
//
// A File holds one TypeUnit (class, interface or enum) in a dotted namespace.
// Units carry fields, methods, enum constants and decorations; decorations are
// metadata markers such as annotations or directive comments, whose concrete
// names come from the emitter's decoration profile. Method bodies are small
// statement trees (return, assign, call) so that every target can render them
// in its own syntax.
//
// Renderers turn a File into text:
//
//	r := java.New(java.WithHeader("Generated by springforge"))
//	src, err := r.Render(file)
//
// The java subpackage writes Java sources. The golang subpackage writes Go
// sources with github.com/dave/jennifer.
//
// Renderers call Validate before writing anything. A tree that breaks a
// structural invariant is reported as a springforge.RenderError; it is an
// emitter bug, never a user error.
package codemodel
