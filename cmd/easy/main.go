// cmd/easy/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"easy/internal/diff"
	"easy/internal/logging"
	"easy/internal/registry"
	"easy/internal/session"
	shared "easy/shared/types"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logger   *zap.Logger
	rootFlag string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "easy",
	Short: "easy stashes and restores per-project workspace sessions",
	Long: `easy persists a project's session state (open files, unsaved edits,
active file, sidebar layout) and restores it later, resolving conflicts
when files changed on disk in between.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.NewLogger(logLevel)
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
}

// openSession resolves the project root (flag, or upward search from the
// working directory) and opens a session for it.
func openSession() (*session.Session, error) {
	root := rootFlag
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
		root, err = session.FindRoot(cwd)
		if err != nil {
			return nil, err
		}
	}
	return session.New(root, logger)
}

func touchRegistry(root string) {
	dir, err := registry.DefaultDir()
	if err != nil {
		logger.Warn("registry unavailable", zap.Error(err))
		return
	}
	store, err := registry.Open(dir)
	if err != nil {
		logger.Warn("registry unavailable", zap.Error(err))
		return
	}
	defer store.Close()
	if err := store.Touch(root); err != nil {
		logger.Warn("failed to record project", zap.Error(err))
	}
}

func stateLabel(state shared.Conflict) string {
	switch state {
	case shared.ConflictModified:
		return color.RedString("modified on disk")
	case shared.ConflictDeleted:
		return color.RedString("deleted on disk")
	default:
		return color.GreenString("clean")
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "project root (default: search upward from cwd)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show tracked files and their conflict state",
		RunE: func(cmd *cobra.Command, args []string) error {
			watch, _ := cmd.Flags().GetBool("watch")

			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			statuses := s.Status()
			if len(statuses) == 0 {
				fmt.Println("no saved session")
				return nil
			}

			for _, st := range statuses {
				marker := " "
				if st.Entry.Modified {
					marker = color.YellowString("*")
				}
				name := st.Entry.Path
				if st.Entry.IsUnnamed {
					name = color.CyanString(name)
				}
				fmt.Printf("%s %-40s %s\n", marker, name, stateLabel(st.State))
			}

			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			events, err := s.Watch(ctx)
			if err != nil {
				return err
			}
			fmt.Println("watching for drift (ctrl-c to stop)...")
			for ev := range events {
				fmt.Printf("  %-40s %s\n", ev.Path, stateLabel(ev.State))
			}
			return nil
		},
	}
	statusCmd.Flags().Bool("watch", false, "keep watching tracked files for drift")

	showCmd := &cobra.Command{
		Use:   "show <path>",
		Short: "Print the stashed version of a tracked file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawDiff, _ := cmd.Flags().GetBool("diff")

			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			rel := filepath.ToSlash(args[0])
			for _, st := range s.Status() {
				if st.Entry.Path != rel {
					continue
				}
				if !st.Entry.Modified {
					return fmt.Errorf("%s has no stashed edits", rel)
				}
				if st.Entry.DiffHash == "" && st.Entry.ContentHash == "" {
					return fmt.Errorf("%s has no stashed blob", rel)
				}

				stashed, err := s.Stashed(st.Entry)
				if err != nil {
					return err
				}
				if rawDiff {
					os.Stdout.Write(stashed.Diff)
					return nil
				}
				os.Stdout.Write(diff.JoinLines(stashed.Lines))
				return nil
			}
			return fmt.Errorf("%s is not tracked in the saved session", rel)
		},
	}
	showCmd.Flags().Bool("diff", false, "print the stored diff instead of the reconstructed content")

	restoreCmd := &cobra.Command{
		Use:   "restore",
		Short: "Replay the saved session and report what would open",
		Long: `Restores the saved session into an in-memory surface, running the
interactive conflict dialog when files drifted on disk. Host editors
restore through the library; this command previews the same replay.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			printBufs, _ := cmd.Flags().GetBool("print")

			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()
			touchRegistry(s.Root())

			surface := session.NewMemorySurface()
			chooser := newTerminalChooser(os.Stdin, os.Stdout)
			opened, err := s.Restore(cmd.Context(), surface, chooser)
			if err != nil {
				return err
			}

			fmt.Printf("restored %d document(s)\n", opened)
			for _, doc := range surface.Documents() {
				marker := " "
				if doc.Modified {
					marker = color.YellowString("*")
				}
				name := doc.Path
				if doc.Unnamed {
					name = color.CyanString("[scratch]")
				}
				active := ""
				if doc.ID == surface.ActiveID() {
					active = color.GreenString(" (active)")
				}
				fmt.Printf("%s %s%s\n", marker, name, active)
				if printBufs {
					os.Stdout.Write(diff.JoinLines(doc.Lines))
				}
			}
			return nil
		},
	}
	restoreCmd.Flags().Bool("print", false, "print restored buffer contents")

	projectsCmd := &cobra.Command{
		Use:   "projects",
		Short: "List known projects, most recently opened first",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := registry.DefaultDir()
			if err != nil {
				return err
			}
			store, err := registry.Open(dir)
			if err != nil {
				return err
			}
			defer store.Close()

			projects, err := store.List()
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Println("no known projects")
				return nil
			}
			for _, p := range projects {
				fmt.Printf("%s  %s\n", p.LastOpened.Format("2006-01-02 15:04"), p.Root)
			}
			return nil
		},
	}

	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove content blobs no longer referenced by the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			removed, err := s.Sweep()
			if err != nil {
				return err
			}
			fmt.Printf("removed %d orphaned blob(s)\n", removed)
			return nil
		},
	}

	rootCmd.AddCommand(statusCmd, showCmd, restoreCmd, projectsCmd, cleanCmd)
}

func main() {
	defer func() {
		if logger != nil {
			logger.Sync()
		}
	}()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
