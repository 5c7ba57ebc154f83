package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/reel-cli/reel/color"
	"github.com/reel-cli/reel/history"
	"github.com/reel-cli/reel/icon"
	"github.com/reel-cli/reel/key"
	"github.com/reel-cli/reel/navigation"
	"github.com/reel-cli/reel/player"
	"github.com/reel-cli/reel/resolution"
	"github.com/reel-cli/reel/style"
	"github.com/reel-cli/reel/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON array of seasons")
	showCmd.Flags().BoolP("pick", "p", false, "Pick an episode with a prompt and play it")
	showCmd.MarkFlagsMutuallyExclusive("json", "pick")

	showCmd.SetOut(os.Stdout)
}

// episodeOption pairs a prompt label with its episode.
type episodeOption struct {
	label   string
	episode *navigation.Episode
}

func episodeOptions(seasons []*navigation.Season) []episodeOption {
	var options []episodeOption
	for _, season := range seasons {
		for _, episode := range season.Episodes {
			options = append(options, episodeOption{
				label:   fmt.Sprintf("%s / %s", season.Name, episode),
				episode: episode,
			})
		}
	}
	return options
}

// showCmd lists the seasons of a show.
var showCmd = &cobra.Command{
	Use:   "show <show-id>",
	Short: "List the seasons and episodes of a show",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		showID := args[0]
		seasons, err := newCatalog().Seasons(ctx, showID)
		handleErr(err)

		options := episodeOptions(seasons)
		if len(options) == 0 {
			handleErr(navigation.ErrEmptyCatalog)
		}

		switch {
		case lo.Must(cmd.Flags().GetBool("json")):
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(seasons))
		case lo.Must(cmd.Flags().GetBool("pick")):
			handleErr(pickAndPlay(ctx, showID, options))
		default:
			printSeasons(cmd, seasons)
		}
	},
}

func printSeasons(cmd *cobra.Command, seasons []*navigation.Season) {
	header := style.New().Bold(true).Foreground(color.HiPurple).Render

	for i, season := range seasons {
		cmd.Printf("%s %s\n", header(season.Name), style.Faint(util.Quantify(len(season.Episodes), "episode", "episodes")))
		for _, episode := range season.Episodes {
			cmd.Printf("  %s %s %s\n", icon.Get(icon.Episode), style.Fg(color.Yellow)(episode.ID.String()), episode)
		}

		if i < len(seasons)-1 {
			cmd.Println()
		}
	}
}

func pickAndPlay(ctx context.Context, showID string, options []episodeOption) error {
	var index int
	prompt := &survey.Select{
		Message:  "Episode",
		Options:  lo.Map(options, func(o episodeOption, _ int) string { return o.label }),
		PageSize: 15,
	}
	if err := survey.AskOne(prompt, &index); err != nil {
		return err
	}

	episode := options[index].episode

	p, err := player.New(viper.GetString(key.Player))
	if err != nil {
		return err
	}
	CheckDependencies()

	engine := newEngine()
	defer engine.Close()

	erase := util.PrintErasable(fmt.Sprintf("%s Resolving %s...", icon.Get(icon.Progress), episode.Title))
	snapshot, err := resolveSource(ctx, engine, episode.ID)
	erase()
	if err != nil {
		return err
	}

	state := snapshot.State
	if state.Phase != resolution.Ready {
		return state.Err
	}

	entry := &history.Entry{
		Source:  episode.ID,
		ShowID:  showID,
		Title:   episode.Title,
		Quality: snapshot.Selection.Quality.String(),
	}
	if track, ok := snapshot.Selection.Caption.Get(); ok {
		entry.Caption = track.Language
	}
	if err = history.Save(entry, time.Now()); err != nil {
		return err
	}

	if err = p.Play(player.NewMedia(episode.Title, state.Descriptor, snapshot.Selection)); err != nil {
		return err
	}
	defer util.Ignore(p.Close)

	fmt.Printf("%s Playing %s\n", style.Fg(color.Green)(icon.Get(icon.Stream)), style.Bold(episode.Title))

	select {
	case <-p.Wait():
	case <-ctx.Done():
	}
	return nil
}
