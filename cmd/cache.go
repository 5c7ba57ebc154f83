package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/reel-cli/reel/cache"
	"github.com/reel-cli/reel/color"
	"github.com/reel-cli/reel/config"
	"github.com/reel-cli/reel/icon"
	"github.com/reel-cli/reel/key"
	"github.com/reel-cli/reel/style"
	"github.com/reel-cli/reel/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(cacheCmd)
}

// cacheCmd groups commands over the resolved stream cache.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clear the resolved stream cache",
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheListCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON array")
	cacheListCmd.Flags().BoolP("fresh", "f", false, "Only list entries that would be served without resolving")

	cacheListCmd.SetOut(os.Stdout)
}

type cacheListing struct {
	Source     string    `json:"source_id"`
	Stream     string    `json:"stream_id"`
	Playlist   string    `json:"playlist"`
	Captions   int       `json:"captions"`
	CapturedAt time.Time `json:"captured_at"`
	Fresh      bool      `json:"fresh"`
}

func listCache(entries []*cache.Entry, now time.Time, ttl time.Duration, freshOnly bool) []cacheListing {
	slices.SortFunc(entries, func(a, b *cache.Entry) int {
		return b.CapturedAt.Compare(a.CapturedAt)
	})

	listing := lo.Map(entries, func(e *cache.Entry, _ int) cacheListing {
		return cacheListing{
			Source:     e.Source.String(),
			Stream:     e.Descriptor.ID,
			Playlist:   e.Descriptor.Playlist,
			Captions:   len(e.Descriptor.Captions),
			CapturedAt: e.CapturedAt,
			Fresh:      e.Fresh(now, ttl),
		}
	})

	if freshOnly {
		listing = lo.Filter(listing, func(l cacheListing, _ int) bool {
			return l.Fresh
		})
	}

	return listing
}

// cacheListCmd prints cached streams, most recent first.
var cacheListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List cached streams with their capture time",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := newStreamCache().Entries()
		handleErr(err)

		listing := listCache(entries, time.Now(), config.Seconds(key.CacheTTL), lo.Must(cmd.Flags().GetBool("fresh")))

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(listing))
			return
		}

		if len(listing) == 0 {
			cmd.Println(style.Faint("cache is empty"))
			return
		}

		for _, l := range listing {
			state := style.Fg(color.Red)("stale")
			if l.Fresh {
				state = style.Fg(color.Green)("fresh")
			}

			cmd.Printf(
				"%s %s %s %s %s\n",
				icon.Get(icon.Cache),
				style.Fg(color.Purple)(l.Source),
				state,
				style.Faint(l.CapturedAt.Format(time.DateTime)),
				style.Faint(util.Quantify(l.Captions, "caption", "captions")),
			)
		}
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}

// cacheClearCmd drops every cached stream.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached stream",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(newStreamCache().Clear())
		fmt.Printf("%s stream cache cleared\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}
