// Package evaluator holds the evaluator variants that do not need an
// interpreter and the error type every evaluator reports cell failures with.
//
// The sandboxed Starlark evaluator lives in the sandbox subpackage.
package evaluator
