package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"courseeditor/internal/catalog"
	"courseeditor/internal/config"
	"courseeditor/internal/models"
	"courseeditor/internal/server"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	portOverride int
	storeBackend string
)

var rootCmd = &cobra.Command{
	Use:   "courseeditor",
	Short: "Course catalog editor service",
	Long: `courseeditor serves a course catalog fetched from a static JSON endpoint and lets
clients select a course, edit its instructor, name, tags and students in a draft,
and submit or cancel the draft.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// glog reads its flags from the standard flag set.
		if err := flag.CommandLine.Parse(nil); err != nil {
			return err
		}
		return loadConfig(cmd)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		defer glog.Flush()

		return server.Start(ctx, config.Config)
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Fetch the course collection and print one card per course",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := catalog.NewClient(config.Config)
		courses, err := client.FetchCourses(cmd.Context())
		if err != nil {
			return err
		}
		return printCards(cmd.OutOrStdout(), courses)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML configuration file")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	serveCmd.Flags().IntVarP(&portOverride, "port", "p", 0, "port to listen on (overrides the configuration)")
	serveCmd.Flags().StringVar(&storeBackend, "store", "", "store backend: memory, sqlite or firestore")

	rootCmd.AddCommand(serveCmd, catalogCmd)
}

func loadConfig(cmd *cobra.Command) error {
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		config.Config = cfg
	}

	if cmd.Flags().Changed("port") {
		config.Config.Port = portOverride
	}
	if cmd.Flags().Changed("store") {
		config.Config.Store.Backend = storeBackend
	}
	return nil
}

func printCards(out io.Writer, courses []*models.Course) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COURSE ID\tCOURSE NAME")
	for _, c := range courses {
		card := c.Card()
		fmt.Fprintf(w, "%s\t%s\n", card.CourseID, card.CourseName)
	}
	return w.Flush()
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
