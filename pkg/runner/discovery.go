package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Discover finds outline files matching opts. It returns a sorted list of
// absolute file paths without duplicates.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	m, err := newMatcher(workDir, opts)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, inputPath := range opts.effectivePaths() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
		default:
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			if m.file(absPath) {
				add(absPath)
			}
			continue
		}

		discovered, err := m.walk(ctx, absPath)
		if err != nil {
			return nil, err
		}
		for _, f := range discovered {
			add(f)
		}
	}

	slices.Sort(files)
	return files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// pattern is a compiled glob. Patterns without a slash also match the base
// name of a path.
type pattern struct {
	glob     glob.Glob
	baseOnly bool
}

func compilePatterns(raw []string) ([]pattern, error) {
	patterns := make([]pattern, 0, len(raw))
	for _, p := range raw {
		p = filepath.ToSlash(p)
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("compile glob %q: %w", p, err)
		}
		patterns = append(patterns, pattern{glob: g, baseOnly: !strings.Contains(p, "/")})
	}
	return patterns, nil
}

func (p pattern) match(relPath string) bool {
	if p.glob.Match(relPath) {
		return true
	}
	return p.baseOnly && p.glob.Match(filepath.Base(relPath))
}

type matcher struct {
	workDir    string
	extensions []string
	include    []pattern
	exclude    []pattern
	follow     bool
}

func newMatcher(workDir string, opts Options) (*matcher, error) {
	include, err := compilePatterns(opts.IncludeGlobs)
	if err != nil {
		return nil, err
	}
	exclude, err := compilePatterns(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}

	extensions := make([]string, 0, len(opts.effectiveExtensions()))
	for _, ext := range opts.effectiveExtensions() {
		extensions = append(extensions, strings.ToLower(ext))
	}

	return &matcher{
		workDir:    workDir,
		extensions: extensions,
		include:    include,
		exclude:    exclude,
		follow:     opts.FollowSymlinks,
	}, nil
}

// rel returns path relative to the working directory with forward slashes.
func (m *matcher) rel(path string) string {
	relPath, err := filepath.Rel(m.workDir, path)
	if err != nil {
		relPath = path
	}
	return filepath.ToSlash(relPath)
}

func (m *matcher) excluded(relPath string) bool {
	return slices.ContainsFunc(m.exclude, func(p pattern) bool { return p.match(relPath) })
}

// dirExcluded also tests the directory with a trailing slash, so "vendor/**"
// prunes "vendor" itself.
func (m *matcher) dirExcluded(path string) bool {
	relPath := m.rel(path)
	return m.excluded(relPath) || m.excluded(relPath+"/")
}

func (m *matcher) file(path string) bool {
	if !slices.Contains(m.extensions, strings.ToLower(filepath.Ext(path))) {
		return false
	}

	relPath := m.rel(path)
	if m.excluded(relPath) {
		return false
	}

	if len(m.include) > 0 {
		return slices.ContainsFunc(m.include, func(p pattern) bool { return p.match(relPath) })
	}
	return true
}

// walk collects the matching files under root. Hidden files and directories
// are skipped, and directories the user cannot read are ignored.
func (m *matcher) walk(ctx context.Context, root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || m.dirExcluded(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				// Broken or unreadable link.
				return nil //nolint:nilerr // Skipped like any unreadable entry.
			}
			if target.IsDir() {
				if !m.follow || m.dirExcluded(path) {
					return nil
				}
				realPath, err := filepath.EvalSymlinks(path)
				if err != nil {
					return nil //nolint:nilerr // Skipped like any unreadable entry.
				}
				// WalkDir does not descend into links, so walk the target.
				sub, err := m.walk(ctx, realPath)
				if err != nil {
					return err
				}
				files = append(files, sub...)
				return nil
			}
		}

		if m.file(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}
