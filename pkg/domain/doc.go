/*
Package domain contains the core domain models of the Content Machine template library.

It defines the closed set of template categories, the Framework (the full categorized
template library) and the errors shared by the store adapters and the service. This package
is kept pure and free of external dependencies like I/O or persistence.

# Key Entities

  - Category: One of the five fixed groupings (hooks, buildUps, stories, psychologies, extraHooks).
  - Framework: Every category mapped to its ordered sequence of templates.
  - FrameworkDiff: The per-category changes between two frameworks, streamed to editors.
  - FrameworkEvent: Emitted after the current framework was initialized, saved or reset.
*/
package domain
