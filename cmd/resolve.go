package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/reel-cli/reel/color"
	"github.com/reel-cli/reel/icon"
	"github.com/reel-cli/reel/resolution"
	"github.com/reel-cli/reel/resolver"
	"github.com/reel-cli/reel/selection"
	"github.com/reel-cli/reel/stream"
	"github.com/reel-cli/reel/style"
	"github.com/reel-cli/reel/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

// resolveOutput is the structured result of `reel resolve --json`.
type resolveOutput struct {
	Source    stream.SourceID    `json:"source_id"`
	Stream    *stream.Descriptor `json:"stream,omitempty"`
	Quality   selection.Quality  `json:"quality,omitempty"`
	Caption   string             `json:"caption,omitempty"`
	Error     string             `json:"error,omitempty"`
	Reason    string             `json:"reason,omitempty"`
	Retryable bool               `json:"retryable,omitempty"`
}

func newResolveOutput(snapshot resolution.Snapshot) *resolveOutput {
	state := snapshot.State
	out := &resolveOutput{
		Source:  state.Source,
		Stream:  state.Descriptor,
		Quality: snapshot.Selection.Quality,
	}

	if track, ok := snapshot.Selection.Caption.Get(); ok {
		out.Caption = track.ID
	}

	if state.Err != nil {
		out.Error = state.Err.Error()
		out.Reason = state.Reason().String()
		out.Retryable = state.CanRetry()
	}

	return out
}

// resolveSource drives one engine request to completion.
func resolveSource(ctx context.Context, engine *resolution.Engine, id stream.SourceID) (resolution.Snapshot, error) {
	engine.Request(id)
	if _, err := engine.Settled(ctx); err != nil {
		return engine.Snapshot(), err
	}
	return engine.Snapshot(), nil
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON object")
	resolveCmd.Flags().StringP("quality", "q", "", "Preferred quality to report (auto, 240p ... 1080p)")
	lo.Must0(resolveCmd.RegisterFlagCompletionFunc("quality", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(selection.Qualities(), func(q selection.Quality, _ int) string {
			return q.String()
		}), cobra.ShellCompDirectiveNoFileComp
	}))

	resolveCmd.SetOut(os.Stdout)
}

// resolveCmd resolves a single source identifier without the interface.
var resolveCmd = &cobra.Command{
	Use:   "resolve <source-id>",
	Short: "Resolve a source identifier into a playable stream",
	Long: `Resolve a source identifier into a playable stream.

A fresh entry from the local stream cache is returned without contacting the resolver.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		engine := newEngine()
		defer engine.Close()

		erase := func() {}
		asJson := lo.Must(cmd.Flags().GetBool("json"))
		if !asJson {
			erase = util.PrintErasable(fmt.Sprintf("%s Resolving %s...", icon.Get(icon.Progress), args[0]))
		}

		snapshot, err := resolveSource(ctx, engine, stream.SourceID(args[0]))
		erase()
		handleErr(err)

		if raw := lo.Must(cmd.Flags().GetString("quality")); raw != "" {
			q, err := selection.ParseQuality(raw)
			handleErr(err)
			if snapshot.State.Phase == resolution.Ready {
				handleErr(engine.SetQuality(q))
				snapshot = engine.Snapshot()
			}
		}

		if asJson {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(newResolveOutput(snapshot)))
			if snapshot.State.Phase == resolution.Failed {
				os.Exit(1)
			}
			return
		}

		if snapshot.State.Phase == resolution.Failed {
			handleErr(snapshot.State.Err)
		}

		printDescriptor(cmd, snapshot)
	},
}

func printDescriptor(cmd *cobra.Command, snapshot resolution.Snapshot) {
	var (
		d      = snapshot.State.Descriptor
		header = style.New().Bold(true).Foreground(color.HiPurple).Render
		label  = style.Fg(color.Yellow)
	)

	cmd.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), header(snapshot.State.Source.String()))
	cmd.Printf("%s %s\n", label("Stream  "), d.ID)
	cmd.Printf("%s %s\n", label("Type    "), d.Kind)
	cmd.Printf("%s %s\n", label("Playlist"), d.Playlist)
	cmd.Printf("%s %s\n", label("Quality "), snapshot.Selection.Quality)

	names := lo.Keys(d.Headers)
	slices.Sort(names)
	for _, name := range names {
		cmd.Printf("%s %s: %s\n", label("Header  "), name, d.Headers[name])
	}

	for _, track := range d.Captions {
		marker := " "
		if selected, ok := snapshot.Selection.Caption.Get(); ok && selected.ID == track.ID {
			marker = "*"
		}
		cmd.Printf("%s %s %s %s\n", label("Caption "), marker, style.Bold(track.Language), style.Faint(track.URL))
	}
}

func init() {
	resolveCmd.AddCommand(resolveSchemaCmd)
	resolveSchemaCmd.Flags().BoolP("response", "r", false, "Print the schema of the resolver response instead")
}

// resolveSchemaCmd prints JSON schemas for structured resolve output.
var resolveSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON schemas for structured resolve output",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			return t.Name()
		}

		var schema *jsonschema.Schema
		switch {
		case lo.Must(cmd.Flags().GetBool("response")):
			schema = reflector.Reflect(&resolver.Response{})
		default:
			schema = reflector.Reflect(&resolveOutput{})
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}
