/*
Package domain contains the core models of the IT troubleshooting guide.

It defines the decision tree (Nodes keyed by ID, with yes/no and
resolved/not-resolved branches), the Categories that enter it, the News feed,
and the State aggregate that holds all of them. References between nodes are
plain ID strings resolved against State.Nodes at read time, so a State may be
structurally broken until the validator has looked at it.

This package has no I/O and no dependencies beyond an ordered map.

# Key Entities

  - Node: a question, an action with steps, or a terminal end.
  - Category: a named entry point pointing at a start node.
  - State: the committed or draft dataset (categories, nodes, news).
  - Issue: a validator finding.
  - Walk and View: an end user's position and what the renderer should draw.
*/
package domain
