// Package contentmachine hosts the Template Framework Store of a short-video
// script assistant.
//
// The store keeps a library of reusable script templates grouped into five
// fixed categories (hooks, buildUps, stories, psychologies, extraHooks). An
// operator fetches the library, replaces it wholesale, or restores the
// built-in defaults. The first read of a fresh deployment persists a copy of
// the defaults.
//
// Layout:
//
//   - pkg/domain: categories, the Framework type, errors and change events.
//   - pkg/defaults: the embedded default framework.
//   - pkg/framework: the Service enforcing validation, normalization and locking.
//   - pkg/ports: the FrameworkStore port and its shared contract suite.
//   - pkg/adapters: memory, redis and sqlite stores; HTTP and MCP surfaces.
//   - internal/adapters/file: the JSON file store.
//   - cmd/contentmachine: the CLI.
package contentmachine
