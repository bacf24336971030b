/*
Package domain contains the protocol model exchanged with the evaluation server.

A response is a tree: a Stack holds Substacks, a Substack holds Lines, and some Lines
hold Atoms. Lines and Atoms are tagged unions on the wire (exactly one field set). This
package exposes them as closed sum types through Line.Variant and Atom.Variant, which
reject payloads with zero or several populated fields.

# Key Entities

  - Response: the payload bound to a rendering target (proto tree plus optional GeoJSON).
  - Line / Atom: wire shapes; LineVariant / AtomVariant: the decoded cases.
  - FeatureID / HighlightKey: identity of a feature that can be highlighted on the map.
  - Expression: an opaque node sent back to the server when an element is activated.
  - LifecycleHooks: observability callbacks fired by the lifecycle manager.

The package has no dependencies on rendering, maps or transport.
*/
package domain
