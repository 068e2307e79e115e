package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/thingsboard/tb-cli/internal/cache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		Aliases: []string{"ch"},
		Short:   "Inspect or clear the cached name lookups",
		Long: `Names given in place of ids are matched against a cached first page
of each listing. Set TB_NO_CACHE=1 to bypass it or TB_CACHE_DIR to move it.`,
	}
	cmd.AddCommand(newCacheClearCmd(), newCachePathCmd())
	return cmd
}

type cacheFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

func cacheDir() (string, error) {
	dir, err := cache.DefaultDir()
	if err != nil {
		return "", fmt.Errorf("could not determine cache directory: %w", err)
	}
	return dir, nil
}

// listCacheFiles returns the .json files in dir; a missing dir is empty.
func listCacheFiles(dir string) []cacheFile {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []cacheFile
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if info, err := e.Info(); err == nil {
			files = append(files, cacheFile{Name: e.Name(), Size: info.Size()})
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached listing",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			dir, err := cacheDir()
			if err != nil {
				return err
			}
			removed := cache.ClearAll(dir)
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"dir": dir, "removed": removed})
			}
			printAction(cmd, "Cleared", "cache", dir, fmt.Sprintf("%d file(s)", removed))
			return nil
		}),
	}
}

func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory and its files",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			dir, err := cacheDir()
			if err != nil {
				return err
			}
			files := listCacheFiles(dir)
			if isStructured(cmd) {
				if files == nil {
					files = []cacheFile{}
				}
				return printJSON(cmd, map[string]any{"dir": dir, "files": files})
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, dir)
			for _, f := range files {
				_, _ = fmt.Fprintf(out, "  %s (%d bytes)\n", f.Name, f.Size)
			}
			return nil
		}),
	}
}
