package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/futureCreator/nfbuild/internal/assets"
	"github.com/futureCreator/nfbuild/internal/config"
	"github.com/spf13/cobra"
)

var initWorkflows bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize nfbuild configuration in the current project",
	RunE: func(cmd *cobra.Command, args []string) error {
		return initProject(cmd.OutOrStdout(), ".", initWorkflows)
	},
}

func init() {
	initCmd.Flags().BoolVar(&initWorkflows, "workflows", false, "also copy the built-in workflow files for editing")
}

// initProject writes .nfbuild/config.yaml under root, and optionally the
// workflow files. Existing files are left alone.
func initProject(w io.Writer, root string, withWorkflows bool) error {
	configDir := filepath.Join(root, config.Dir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	template, err := assets.ConfigTemplate()
	if err != nil {
		return fmt.Errorf("loading config template: %w", err)
	}
	if err := writeIfMissing(w, filepath.Join(configDir, "config.yaml"), []byte(template)); err != nil {
		return err
	}

	if withWorkflows {
		files, err := assets.EmbeddedWorkflows()
		if err != nil {
			return fmt.Errorf("loading workflows: %w", err)
		}
		dir := filepath.Join(configDir, "workflows")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating workflows dir: %w", err)
		}
		names := make([]string, 0, len(files))
		for name := range files {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := writeIfMissing(w, filepath.Join(dir, name+".yaml"), files[name]); err != nil {
				return err
			}
		}
	}

	fmt.Fprintln(w, "Edit the files to match your project, then run `nfbuild doctor`.")
	return nil
}

func writeIfMissing(w io.Writer, path string, data []byte) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(w, "Already exists: %s\n", path)
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(w, "Created %s\n", path)
	return nil
}
