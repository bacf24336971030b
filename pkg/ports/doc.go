/*
Package ports defines the driven ports (interfaces) of the outliner runtime.

These interfaces decouple rendering and lifecycle management from the map widget,
the evaluation server and the storage backends.

# Key Interfaces

  - Map: attaches and detaches layers, and moves the viewport.
  - Layer: a map layer drawn with a style function.
  - LayerFactory: builds geometry layers from GeoJSON and tile layers from queries.
  - Evaluator: evaluates expressions into response trees.
  - BlobStore: holds exported data behind transient references.
  - HistoryStore: persists shell history.
*/
package ports
