// Package focus holds the one-shot commands that mirror the popup actions.
package focus

import (
	"fmt"
	"strings"

	"github.com/julianstephens/dailyfocus/internal/cli"
	"github.com/julianstephens/dailyfocus/internal/popup"
)

type SetCmd struct {
	Task []string `arg:"" help:"Today's focus task."`
}

func (c *SetCmd) Run(ctx *cli.Context) error {
	ctrl := ctx.Controller()
	st, err := ctrl.Open(ctx.Context())
	if err != nil {
		return err
	}
	st, err = ctrl.SetTask(ctx.Context(), st, strings.Join(c.Task, " "))
	if err != nil {
		return err
	}
	fmt.Printf("✓ Today's focus: %s\n", st.Record.TaskText())
	return nil
}

type SkipCmd struct{}

func (c *SkipCmd) Run(ctx *cli.Context) error {
	ctrl := ctx.Controller()
	st, err := ctrl.Open(ctx.Context())
	if err != nil {
		return err
	}
	if _, err := ctrl.Skip(ctx.Context(), st); err != nil {
		return err
	}
	fmt.Println("Skipped today. Reminders are off until tomorrow.")
	return nil
}

type DoneCmd struct{}

func (c *DoneCmd) Run(ctx *cli.Context) error {
	ctrl := ctx.Controller()
	st, err := ctrl.Open(ctx.Context())
	if err != nil {
		return err
	}
	if st.Record != nil && st.Record.Skipped {
		return fmt.Errorf("today was skipped, nothing to complete")
	}
	st, err = ctrl.Complete(ctx.Context(), st)
	if err != nil {
		return err
	}
	task, status := popup.CompletedSummary(st.Record)
	fmt.Printf("%s: %s\n", status, task)
	fmt.Printf("🔥 Streak: %d\n", st.Streak)
	return nil
}

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	st, err := ctx.Controller().Open(ctx.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Date: %s\n", st.Today)
	switch st.View {
	case popup.ViewMorning:
		fmt.Println("No focus set yet. Use 'dailyfocus set <task>' or 'dailyfocus skip'.")
	case popup.ViewTodayTask:
		fmt.Printf("Today's focus: %s\n", st.Record.TaskText())
	case popup.ViewEvening:
		fmt.Printf("Today's focus: %s\n", st.Record.TaskText())
		fmt.Println("Did you complete it? Use 'dailyfocus done'.")
	case popup.ViewTodayCompleted:
		task, status := popup.CompletedSummary(st.Record)
		fmt.Printf("%s: %s\n", status, task)
	}
	fmt.Printf("🔥 Streak: %d\n", st.Streak)
	return nil
}

type StreakCmd struct{}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	st, err := ctx.Controller().Open(ctx.Context())
	if err != nil {
		return err
	}
	fmt.Println(st.Streak)
	return nil
}

type HistoryCmd struct {
	Limit int `help:"Number of past days to show." default:"20"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	st, err := ctx.Controller().ShowHistory(ctx.Context(), popup.AppState{})
	if err != nil {
		return err
	}
	if len(st.History) == 0 {
		fmt.Println("No history yet. Complete some daily tasks!")
		return nil
	}

	entries := st.History
	if c.Limit > 0 && c.Limit < len(entries) {
		entries = entries[:c.Limit]
	}
	fmt.Printf("History (streak: %d):\n", st.Streak)
	for _, e := range entries {
		fmt.Printf("  %s  %-14s %s\n", e.Date, e.Status, e.Task)
	}
	return nil
}
