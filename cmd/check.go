// Package cmd implements the command-line interface for hlsget.
package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/hlsget-cli/hlsget/color"
	"github.com/hlsget-cli/hlsget/icon"
	"github.com/hlsget-cli/hlsget/key"
	"github.com/hlsget-cli/hlsget/style"
	"github.com/spf13/viper"
)

// CheckDependencies verifies the availability of required system dependencies.
// The current implementation validates the presence of ffmpeg at the
// configured path.
func CheckDependencies() {
	ffmpeg := viper.GetString(key.FFmpegPath)
	_, err := exec.LookPath(ffmpeg)
	if err != nil {
		printMissingDependencyError(ffmpeg)
		os.Exit(1)
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case "darwin":
		installCmd = "brew install ffmpeg"
	case "linux":
		installCmd = "sudo apt install ffmpeg" // Generic, maybe check distro
	case "windows":
		installCmd = "scoop install ffmpeg"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(color.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(color.White).Render(fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(color.HiCyan).Bold(true).Render(installCmd))
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
