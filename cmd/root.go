// Package cmd implements the command-line interface for reel.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/reel-cli/reel/color"
	"github.com/reel-cli/reel/constant"
	"github.com/reel-cli/reel/history"
	"github.com/reel-cli/reel/icon"
	"github.com/reel-cli/reel/key"
	"github.com/reel-cli/reel/log"
	"github.com/reel-cli/reel/navigation"
	"github.com/reel-cli/reel/player"
	"github.com/reel-cli/reel/stream"
	"github.com/reel-cli/reel/style"
	"github.com/reel-cli/reel/tui"
	"github.com/reel-cli/reel/util"
	"github.com/reel-cli/reel/version"
	"github.com/reel-cli/reel/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errNoHistory = errors.New("nothing to continue, history is empty")

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Remember streams that were resolved successfully")
	lo.Must0(viper.BindPFlag(key.HistorySave, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.PersistentFlags().StringP("player", "P", "", "Media player to use (mpv, iina)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("player", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"mpv", "iina"}, cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.Player, rootCmd.PersistentFlags().Lookup("player")))

	rootCmd.Flags().StringP("show", "s", "", "Browse the seasons of a show instead of playing a single source")
	rootCmd.Flags().BoolP("continue", "c", false, "Resume from the most recent history entry")
	rootCmd.MarkFlagsMutuallyExclusive("show", "continue")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// target is what the interface opens with: a single source or a whole show.
type target struct {
	source stream.SourceID
	showID string
	title  string
}

func (t target) empty() bool {
	return t.source == "" && t.showID == ""
}

// lastTarget turns the most recent history entry into a target.
func lastTarget() (target, error) {
	last, err := history.Last()
	if err != nil {
		return target{}, err
	}

	entry, ok := last.Get()
	if !ok {
		return target{}, errNoHistory
	}

	if entry.ShowID != "" {
		return target{showID: entry.ShowID, title: entry.Title}, nil
	}
	return target{source: entry.Source, title: entry.Title}, nil
}

// rootCmd opens the interactive interface.
var rootCmd = &cobra.Command{
	Use:   constant.Reel + " [source-id]",
	Short: "A terminal stream player with a resolution cache",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - A terminal stream player with a resolution cache"),
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		var t target
		switch {
		case lo.Must(cmd.Flags().GetBool("continue")):
			last, err := lastTarget()
			handleErr(err)
			t = last
		case cmd.Flags().Changed("show"):
			t.showID = lo.Must(cmd.Flags().GetString("show"))
		case len(args) == 1:
			t.source = stream.SourceID(args[0])
		}

		if t.empty() {
			handleErr(cmd.Help())
			return
		}

		CheckDependencies()

		p, err := player.New(viper.GetString(key.Player))
		handleErr(err)

		engine := newEngine()
		defer engine.Close()

		options := tui.Options{
			Source: t.source,
			ShowID: t.showID,
			Title:  t.title,
			Engine: engine,
			Player: p,
		}

		if t.showID != "" {
			options.Navigator = navigation.NewNavigator(newCatalog(), engine, t.showID)
		}

		err = tui.Run(&options)
		_ = p.Close()
		handleErr(err)
	},
}

// Execute runs the command tree.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
