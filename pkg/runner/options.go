// Package runner checks many outline files concurrently.
package runner

// Options controls a multi-file run.
type Options struct {
	// Paths are the user-specified files or directories. If empty, the
	// working directory is used.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (lowercase, with leading dot)
	// treated as outlines. Defaults to DefaultExtensions().
	Extensions []string

	// IncludeGlobs restrict discovery to matching paths relative to
	// WorkingDir. Empty means every file with a matching extension.
	IncludeGlobs []string

	// ExcludeGlobs skip files or whole directories. They merge the ignore
	// lists of the config and the command line.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs caps the number of concurrent workers. 0 or negative means
	// runtime.NumCPU().
	Jobs int
}

// DefaultExtensions returns the extensions of outline files.
func DefaultExtensions() []string {
	return []string{".txt", ".outline", ".tree"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
