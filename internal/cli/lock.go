package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/adviser/pkg/adviser"
	"github.com/matzehuels/adviser/pkg/errors"
	"github.com/matzehuels/adviser/pkg/python"
)

// lockOpts holds the command-line flags for the lock command.
type lockOpts struct {
	mode   modeFlags
	dev    bool   // also register develop packages
	format string // table or json
	output string // output file path (stdout if empty)
}

// registryEntry is the JSON form of a registered package version.
type registryEntry struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Index   string   `json:"index,omitempty"`
	Develop bool     `json:"develop"`
	Markers string   `json:"markers,omitempty"`
	Extras  []string `json:"extras,omitempty"`
}

// lockCommand creates the lock command.
func (c *CLI) lockCommand() *cobra.Command {
	opts := lockOpts{format: formatTable, dev: true}

	cmd := &cobra.Command{
		Use:   "lock [Pipfile.lock]",
		Short: "Register the packages of a Pipfile.lock in a run context",
		Long: `Register the packages of a Pipfile.lock in a run context.

Every locked package is registered under its (name, version, index) tuple.
A tuple is bound once: when the same tuple appears again, for example in
both the default and the develop section, the first registration is kept
and the duplicate is reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != formatTable && opts.format != formatJSON {
				return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (must be one of: table, json)", opts.format)
			}
			return c.runLock(cmd.Context(), cmd, args[0], opts)
		},
	}

	opts.mode.register(cmd)
	cmd.Flags().BoolVar(&opts.dev, "dev", opts.dev, "also register develop packages")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: table, json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (c *CLI) runLock(_ context.Context, cmd *cobra.Command, path string, opts lockOpts) error {
	mode, err := opts.mode.runMode()
	if err != nil {
		return err
	}
	lock, err := python.LoadPipfileLock(path)
	if err != nil {
		return err
	}

	rc, err := adviser.NewContext(mode, adviser.ContextOptions{Logger: c.Logger})
	if err != nil {
		return err
	}

	packages := lock.Default
	if opts.dev {
		packages = append(packages[:len(packages):len(packages)], lock.Develop...)
	}
	var duplicates []string
	for _, pv := range packages {
		if existed := rc.RegisterPackageVersion(pv); existed {
			duplicates = append(duplicates, pv.ToTuple().String())
		}
	}
	c.Logger.Info("Registered packages", "run", rc.ID(), "mode", modeName(mode), "packages", rc.Len())

	status := cmd.ErrOrStderr()
	for _, d := range duplicates {
		printWarning(status, "%s already registered, keeping the first entry", d)
	}

	var data []byte
	switch opts.format {
	case formatJSON:
		if data, err = registryJSON(rc); err != nil {
			return err
		}
	default:
		data = []byte(registryTable(rc) + "\n")
	}
	return writeOutput(cmd, opts.output, data)
}

func registryEntries(rc *adviser.Context) []registryEntry {
	entries := make([]registryEntry, 0, rc.Len())
	for pv := range rc.PackageVersions() {
		e := registryEntry{
			Name:    pv.Name,
			Version: pv.Version,
			Develop: pv.Develop,
			Markers: pv.Markers,
			Extras:  pv.Extras,
		}
		if pv.Index != nil {
			e.Index = pv.Index.URL
		}
		entries = append(entries, e)
	}
	return entries
}

func registryJSON(rc *adviser.Context) ([]byte, error) {
	data, err := json.MarshalIndent(registryEntries(rc), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func registryTable(rc *adviser.Context) string {
	title := StyleTitle.Render(fmt.Sprintf("%d package versions", rc.Len()))
	t := newTable("PACKAGE", "VERSION", "INDEX", "DEVELOP", "EXTRAS")
	for _, e := range registryEntries(rc) {
		develop := ""
		if e.Develop {
			develop = "yes"
		}
		t.Row(e.Name, e.Version, e.Index, develop, strings.Join(e.Extras, ","))
	}
	return title + "\n" + t.Render()
}
