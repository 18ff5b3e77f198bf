// Package main provides the radsurvey CLI, a thin command layer over the
// survey library.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/njwilson23/radar-tools/internal/config"
	"github.com/njwilson23/radar-tools/survey"
)

var (
	// Global flags
	verbose    bool
	configPath string

	cfg config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "radsurvey",
		Short: "Inspect, extract, and filter ice-radar survey stores",
		Long: `radsurvey works with hierarchically-organized radar survey stores
(line -> location -> datacapture -> echogram) in HDF5 containers.

It can list survey structure, assemble lines into dense trace arrays
(optionally through an on-disk cache), and write filtered copies of a
store with bad locations dropped.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			level := cfg.SlogLevel()
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
				&slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "radsurvey.yaml", "Path to config file")

	rootCmd.AddCommand(infoCmd())
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(traceCmd())
	rootCmd.AddCommand(fidCmd())
	rootCmd.AddCommand(filterCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <store.h5>",
		Short: "List the lines, locations, and channels in a survey store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := survey.New(args[0])
			if err != nil {
				return err
			}
			lines, err := s.Lines()
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d lines\n", args[0], len(lines))
			for i, line := range lines {
				channels, err := s.ChannelsInLine(i)
				if err != nil {
					return err
				}
				locations := s.Retention().LineView(line)
				fmt.Printf("  %s: %d locations, %d channels\n", line, locations.Len(), channels)
			}
			return nil
		},
	}
}

func extractCmd() *cobra.Command {
	var (
		line      int
		channel   int
		boundsArg string
		cached    bool
		cacheDir  string
		saveCache bool
	)

	cmd := &cobra.Command{
		Use:   "extract <store.h5>",
		Short: "Assemble a line into a dense trace array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := survey.New(args[0])
			if err != nil {
				return err
			}

			if channel < 0 {
				channel = cfg.DefaultChannel
			}
			if cacheDir == "" {
				cacheDir = cfg.CacheDir
			}
			opts := []survey.ExtractOption{
				survey.WithChannels(channel),
				survey.WithCacheDir(cacheDir),
			}
			if boundsArg != "" {
				b, err := survey.ParseBounds(boundsArg)
				if err != nil {
					// Malformed bounds skip bounding, they do not
					// abort the extraction.
					slog.Warn("ignoring bounds", "bounds", boundsArg, "err", err)
				} else {
					opts = append(opts, survey.WithBounds(b))
				}
			}
			if cached {
				opts = append(opts, survey.FromCache())
			}

			g, err := s.ExtractLine(line, opts...)
			if err != nil {
				return err
			}
			fmt.Printf("line %d: %d traces x %d samples, %d metadata records\n",
				line, g.NumTraces(), g.NumSamples(), g.Records.Len())

			if saveCache {
				path := survey.CachePath(cacheDir, args[0], line, survey.Channels(channel))
				if err := g.SaveCache(path); err != nil {
					return err
				}
				fmt.Printf("cached to %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&line, "line", "l", 0, "Line number to extract")
	cmd.Flags().IntVarP(&channel, "channel", "c", -1, "Datacapture channel (default from config)")
	cmd.Flags().StringVar(&boundsArg, "bounds", "", "Slice of the sorted traces as lo:hi")
	cmd.Flags().BoolVar(&cached, "cached", false, "Try the cache before the store")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Cache directory (default from config)")
	cmd.Flags().BoolVar(&saveCache, "save-cache", false, "Write the assembled line to the cache")

	return cmd
}

func traceCmd() *cobra.Command {
	var line, location, channel, echogram int

	cmd := &cobra.Command{
		Use:   "trace <store.h5>",
		Short: "Dump a single trace as one sample per row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := survey.New(args[0])
			if err != nil {
				return err
			}
			vec, err := s.ExtractTrace(line, location, channel, echogram)
			if err != nil {
				return err
			}
			for _, v := range vec {
				fmt.Println(v)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&line, "line", "l", 0, "Line number")
	cmd.Flags().IntVar(&location, "location", 0, "Location number")
	cmd.Flags().IntVarP(&channel, "channel", "c", 0, "Datacapture channel")
	cmd.Flags().IntVar(&echogram, "echogram", 0, "Echogram number")

	return cmd
}

func fidCmd() *cobra.Command {
	var linLoc bool

	cmd := &cobra.Command{
		Use:   "fid <path>",
		Short: "Print the identifier for a hierarchical path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fid, err := survey.PathToFID(args[0], linLoc)
			if err != nil {
				return err
			}
			fmt.Println(fid)
			return nil
		},
	}

	cmd.Flags().BoolVar(&linLoc, "linloc", false, "Resolve line/location only")

	return cmd
}

func filterCmd() *cobra.Command {
	var (
		dest      string
		drops     []string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "filter <store.h5>",
		Short: "Write a copy of the store with dropped locations removed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := survey.New(args[0])
			if err != nil {
				return err
			}
			for _, d := range drops {
				line, loc, ok := strings.Cut(d, ":")
				if !ok {
					return fmt.Errorf("drop %q must be line_<n>:location_<n>", d)
				}
				s.SetRetain(line, loc, false)
			}
			return s.WriteFiltered(dest, overwrite)
		},
	}

	cmd.Flags().StringVarP(&dest, "dest", "d", "", "Destination store path")
	cmd.Flags().StringArrayVar(&drops, "drop", nil, "Drop a location, as line_<n>:location_<n> (repeatable)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing destination")
	cmd.MarkFlagRequired("dest")

	return cmd
}
