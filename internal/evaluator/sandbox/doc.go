// Package sandbox evaluates code cells with the Starlark interpreter.
//
// Each cell runs as a REPL chunk against the globals held in an
// interfaces.Namespace, so a definition made by one cell is visible to the
// cells after it. Bindings a cell created before raising stay in the
// namespace. Cells can draw charts through the predeclared plot module and
// use the math and json modules.
package sandbox
