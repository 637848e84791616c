package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/palearn-backend/internal/app"
	domain "github.com/yungbote/palearn-backend/internal/domain/planning"
	"github.com/yungbote/palearn-backend/internal/modules/planning"
	"github.com/yungbote/palearn-backend/internal/modules/planning/generator"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
	"github.com/yungbote/palearn-backend/internal/platform/shutdown"
)

var rootCmd = &cobra.Command{
	Use:           "palearn",
	Short:         "Learning plan service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var planFlags struct {
	course string
	skill  string
	level  string
	hours  float64
	start  string
	rest   []string
}

// planCmd builds one plan offline and prints it
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build a plan from a course file or a skill and print it as JSON",
	Long: `Build a learning plan without the HTTP service or the plan store.

With --course the plan follows the course curriculum; without it the plan
covers the skill alone. Generator and search credentials are read from the
environment; without them the deterministic scheduler and fallback
materials are used.`,
	Example: `  palearn plan --course course.json --skill Go --hours 2 --start 2024-01-01 --rest 토,일`,
	RunE:    runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planFlags.course, "course", "", "path to a course JSON file")
	planCmd.Flags().StringVar(&planFlags.skill, "skill", "", "skill being learned")
	planCmd.Flags().StringVar(&planFlags.level, "level", "초급", "learner level")
	planCmd.Flags().Float64Var(&planFlags.hours, "hours", 2, "study hours per day")
	planCmd.Flags().StringVar(&planFlags.start, "start", "", "start date (YYYY-MM-DD); today when empty")
	planCmd.Flags().StringSliceVar(&planFlags.rest, "rest", nil, "rest days, e.g. 토,일 or Saturday,Sunday")

	rootCmd.AddCommand(serveCmd, planCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer a.Close()

	a.Start()
	if err := a.Run(ctx); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	if planFlags.course == "" && strings.TrimSpace(planFlags.skill) == "" {
		return fmt.Errorf("one of --course or --skill is required")
	}
	ctx, stop := shutdown.NotifyContext(cmd.Context())
	defer stop()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	svc := app.NewOffline(ctx, log)
	obs := generator.ObserverFunc(func(s generator.Status) {
		log.Debug("generation status", "model", s.Model, "status", s.Phase)
	})

	var out planning.PlanOutput
	if planFlags.course != "" {
		course, err := readCourse(planFlags.course)
		if err != nil {
			return err
		}
		out = svc.Planning.ApplyRecommendation(ctx, planning.ApplyInput{
			Course:      course,
			Skill:       planFlags.skill,
			Level:       planFlags.level,
			HoursPerDay: planFlags.hours,
			StartDate:   planFlags.start,
			RestDays:    planFlags.rest,
			Observer:    obs,
		})
	} else {
		out = svc.Planning.GeneratePlan(ctx, planning.GenerateInput{
			Skill:       planFlags.skill,
			Level:       planFlags.level,
			HoursPerDay: planFlags.hours,
			StartDate:   planFlags.start,
			RestDays:    planFlags.rest,
			Observer:    obs,
		})
	}
	if !out.Success {
		return fmt.Errorf("%s", out.Message)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out.Plan)
}

func readCourse(path string) (domain.Course, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Course{}, fmt.Errorf("read course: %w", err)
	}
	var course domain.Course
	if err := json.Unmarshal(raw, &course); err != nil {
		return domain.Course{}, fmt.Errorf("parse course: %w", err)
	}
	return course, nil
}
