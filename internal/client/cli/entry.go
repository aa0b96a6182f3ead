package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goodnightlabs/goodnight/internal/client/models"
	"github.com/goodnightlabs/goodnight/internal/client/services"
	"github.com/goodnightlabs/goodnight/internal/timex"
)

// entryForArgs resolves an optional day argument, defaulting to today.
func (a *App) entryForArgs(ctx context.Context, args []string) (*models.Entry, error) {
	if len(args) == 0 {
		return a.journal.Today(ctx)
	}
	if _, err := timex.ParseDayKey(args[0], time.Local); err != nil {
		return nil, fmt.Errorf("invalid day %q, expected yyyy-mm-dd", args[0])
	}
	entry, err := a.journal.Entry(ctx, args[0])
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("no entry for %s", args[0])
	}
	return entry, nil
}

// Write opens today's entry for editing and saves the result as a draft.
func (a *App) Write(ctx context.Context) error {
	entry, err := a.journal.Today(ctx)
	if err != nil {
		return err
	}
	if entry.IsCompleted {
		printlnFn("Today's entry is already completed.")
		return nil
	}

	printlnFn("Current entry:")
	printlnFn(services.ComposeEntryText(entry.Letters, entry.JournalContent))

	text, err := GetMultiline(a.reader, "Rewrite the entry:", os.Stdout)
	if err != nil {
		return err
	}
	if text == "" {
		printlnFn("Nothing entered, draft unchanged.")
		return nil
	}

	if err := a.journal.SaveDraft(ctx, entry, text); err != nil {
		return err
	}
	printlnFn("Draft saved.")
	return nil
}

// Submit finalizes today's entry. Once completed it can no longer be edited.
func (a *App) Submit(ctx context.Context) error {
	entry, err := a.journal.Today(ctx)
	if err != nil {
		return err
	}
	if err := a.journal.Submit(ctx, entry); err != nil {
		return err
	}
	printlnFn("Entry completed. Sleep well!")
	return nil
}

// Show prints the entry for the given day (default today).
func (a *App) Show(ctx context.Context, args []string) error {
	entry, err := a.entryForArgs(ctx, args)
	if err != nil {
		return err
	}

	state := "draft"
	if entry.IsCompleted {
		state = "completed"
	}
	if entry.NeedsSync {
		state += ", pending sync"
	}
	printlnFn(fmt.Sprintf("%s (%s)", entry.DayKey(), state))
	printlnFn(services.ComposeEntryText(entry.Letters, entry.JournalContent))
	return nil
}

// Month lists entry days for a calendar month (default the current one).
func (a *App) Month(ctx context.Context, args []string) error {
	now := time.Now()
	year, month := now.Year(), now.Month()
	if len(args) > 0 {
		t, err := time.Parse("2006-01", args[0])
		if err != nil {
			return fmt.Errorf("invalid month %q, expected yyyy-mm", args[0])
		}
		year, month = t.Year(), t.Month()
	}

	list, err := a.journal.Month(ctx, year, month)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		printlnFn("No entries.")
		return nil
	}
	for _, entry := range list {
		marker := " "
		if entry.IsCompleted {
			marker = "*"
		}
		preview := entry.JournalContent
		if r := []rune(preview); len(r) > 40 {
			preview = string(r[:40]) + "..."
		}
		printlnFn(fmt.Sprintf("%s %s  %s", marker, entry.DayKey(), strings.ReplaceAll(preview, "\n", " ")))
	}
	return nil
}

// Delete removes the entry for the given day (default today) after an
// explicit confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	entry, err := a.entryForArgs(ctx, args)
	if err != nil {
		return err
	}

	answer, err := GetSimpleText(a.reader, "Delete entry for "+entry.DayKey()+"? (yes/no)", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		printlnFn("Kept.")
		return nil
	}

	if err := a.journal.Delete(ctx, entry); err != nil {
		return err
	}
	printlnFn("Deleted.")
	return nil
}
