/*
Package outliner renders response trees produced by a remote evaluator onto a map
based user interface, incrementally.

A response is a stack of substacks of lines of atoms, plus optional map data:
highlighted features, query layers, embedded GeoJSON and a map center. The
Outliner binds each response to a named target, reconciles its tree into the view
document so that containers keep their identity across updates, and keeps the
resources the response owns (highlight claims, map layers, an export blob) alive
for exactly as long as the response stays bound.

# Concept

Lines and atoms are tagged variants. A registry maps every (kind, tag) pair to a
renderer; a renderer builds the persistent structure of a container once, when its
variant first appears there, and refreshes the data on every update. Clicking a
clickable element, typing into a shell line, or submitting the console sends an
expression to the evaluator in the background; the answer is applied on the UI
goroutine through Run or Await, and answers for targets that were rebound or
removed in the meantime are discarded.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/outliner"
	)

	func main() {
		ctx := context.Background()
		o, err := outliner.New(ctx, outliner.WithEvaluatorURL("http://localhost:8001"))
		if err != nil {
			log.Fatal(err)
		}
		defer o.Close()

		// Apply the session payload (dock, map center, first expression).
		if _, err := o.Boot(ctx); err != nil {
			log.Fatal(err)
		}

		// Apply evaluation results until the context is done.
		if err := o.Run(ctx); err != nil {
			log.Println(err)
		}
	}
*/
package outliner
