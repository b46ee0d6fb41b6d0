// Package fs abstracts the file operations behind manifests and workspaces
// so tests can inject failures.
//
// Production code uses [Default], which is [LocalFS]. Tests wrap it in a
// [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".tmp", fs.Fault{FailOnSync: true})
//
// Operations take no context.Context: local file calls cannot be
// interrupted at the syscall level.
package fs
