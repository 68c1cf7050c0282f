// Package python models the Python package universe the adviser reasons about.
//
// # Identity
//
// A [PackageTuple] is the canonical identity of a resolved package: its name,
// its locked version and the URL of the index it comes from. Tuples are plain
// comparable values and are used as map keys by the adviser's run registry.
//
// A [PackageVersion] is the richer entity behind a tuple: version specifier,
// index ([Source]), develop flag, environment markers, extras and artifact
// hashes. PackageVersion values are handled by pointer; two pointers are the
// "same" package version only if they are identical.
//
// # Manifests
//
// Projects are described by a Pipfile (TOML) and locked by a Pipfile.lock
// (JSON):
//
//	project, err := python.LoadPipfile("Pipfile")
//	lock, err := python.LoadPipfileLock("Pipfile.lock")
//
// Individual entries convert both ways with [FromPipfileEntry],
// [PackageVersion.ToPipfileEntry], [FromPipfileLockEntry] and
// [PackageVersion.ToPipfileLockEntry].
package python
