package generate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultJobs bounds concurrent generation in Batch.
const DefaultJobs = 4

// Find returns every file named name under root, skipping hidden directories.
func Find(root, name string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.Name() == name {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return paths, nil
}

// Batch generates every description named opts.DescriptionName under root,
// writing each Makefile next to its description. A failing description does
// not stop the others; the returned error joins every failure and the
// matching result slot is nil.
func Batch(ctx context.Context, root string, opts Options, jobs int) ([]*Result, error) {
	opts = opts.withDefaults()
	if jobs <= 0 {
		jobs = DefaultJobs
	}

	paths, err := Find(root, opts.DescriptionName)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("batch discovered descriptions",
		slog.String("root", root),
		slog.Int("count", len(paths)),
		slog.Int("jobs", jobs))

	results := make([]*Result, len(paths))
	failures := make([]error, len(paths))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)
	for i, path := range paths {
		eg.Go(func() error {
			o := opts
			o.DescriptionPath = path
			o.OutputDir = ""
			res, err := Run(egCtx, o)
			if err != nil {
				if ctxErr := egCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				failures[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return results, err
	}
	return results, errors.Join(failures...)
}
