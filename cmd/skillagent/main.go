package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "skillagent",
	Short: "Personal learning roadmaps, resources and mentoring",
	Long: `SkillAgent keeps a learner profile on this machine, turns it into a
step-by-step learning roadmap, finds tutorials, courses and jobs for each
step, and answers questions as an AI mentor.

Run "skillagent start" to launch the local daemon, then use the other
commands to talk to it.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if os.Getenv("NO_COLOR") != "" {
			noColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(roadmapCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(resourcesCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(interactionsCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}
