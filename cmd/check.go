package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/reel-cli/reel/icon"
	"github.com/reel-cli/reel/key"
	"github.com/reel-cli/reel/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// installHints maps a player binary to its install command per platform.
var installHints = map[string]map[string]string{
	"mpv": {
		"darwin":  "brew install mpv",
		"linux":   "sudo apt install mpv",
		"windows": "scoop install mpv",
	},
	"iina": {
		"darwin": "brew install --cask iina",
	},
}

// playerBinary is the executable looked up for the configured player.
func playerBinary() string {
	switch viper.GetString(key.Player) {
	case "iina":
		return "iina"
	default:
		return "mpv"
	}
}

// CheckDependencies exits when the configured player is not in PATH.
func CheckDependencies() {
	dep := playerBinary()
	if _, err := exec.LookPath(dep); err != nil {
		printMissingDependencyError(dep)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the configured media player is installed",
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()
		fmt.Printf("%s %s found\n", style.Fg(style.Green)(icon.Get(icon.Success)), style.Bold(playerBinary()))
	},
}

func printMissingDependencyError(dep string) {
	installCmd := installHints[dep][runtime.GOOS]

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
