// Package git runs the git CLI for case-only rename relays.
//
// Operations shell out to the git binary through an injectable [Executor]
// so tests can record calls without a repository. Every invocation is
// logged with its rendered command line and either its output or its error.
//
//   - [Client.IsRepository]: rev-parse --is-inside-work-tree, failures are false
//   - [Client.ResolveRoot]: rev-parse --show-toplevel
//   - [Client.UntrackedFiles], [Client.IsUntracked]: ls-files --exclude-standard --others
//   - [Client.Move]: git mv
package git
