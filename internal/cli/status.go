// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Line status board for the terminal.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/tubechat/internal/config"
	"github.com/morganforge/tubechat/internal/tfl"
	"github.com/morganforge/tubechat/internal/ui/styles"
	"github.com/morganforge/tubechat/internal/util"
)

// runStatus prints the network status board. Live data comes from the TfL
// API; when that fails, the last snapshot from the local cache is shown
// with its age.
func runStatus(args *Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client := tfl.NewClientWithConfig(&tfl.ClientConfig{BaseURL: cfg.TFL.BaseURL})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	statuses, fetchErr := client.GetTubeStatus(ctx)
	fetchedAt := time.Now()
	stale := false

	var cache *tfl.Cache
	if cfg.TFL.CacheEnabled {
		cachePath, pathErr := cfg.CachePath()
		if pathErr == nil {
			cache, pathErr = tfl.NewCache(cachePath)
		}
		if pathErr != nil {
			slog.Warn("status cache unavailable", "error", pathErr)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	if fetchErr != nil {
		if cache == nil {
			return fetchErr
		}
		cached, at, ok, cacheErr := cache.Get()
		if cacheErr != nil || !ok {
			return fetchErr
		}
		statuses, fetchedAt, stale = cached, at, true
	} else if cache != nil {
		if err := cache.Put(statuses, fetchedAt); err != nil {
			slog.Warn("status cache write failed", "error", err)
		}
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(statuses)
	}

	printStatusBoard(statuses, fetchedAt, stale, args.Verbose)
	return nil
}

func printStatusBoard(statuses []tfl.LineStatus, fetchedAt time.Time, stale, verbose bool) {
	theme := styles.NewTheme()

	fmt.Println(theme.BoardTitle.Render("London Underground"))
	if stale {
		age := time.Since(fetchedAt).Round(time.Minute)
		fmt.Println(theme.BoardStale.Render(
			fmt.Sprintf("[!] TfL unreachable - showing cached status from %s ago", age)))
	}
	fmt.Println()

	nameWidth := 0
	for _, s := range statuses {
		if len(s.Name) > nameWidth {
			nameWidth = len(s.Name)
		}
	}

	for _, s := range statuses {
		service := tfl.ClassifyStatus(s.Status)
		swatch := styles.LineSwatch(s.ID).Render(util.PadRight(s.Name, nameWidth))
		glyph := lipgloss.NewStyle().
			Foreground(styles.StatusColor(service.Level)).
			Bold(true).
			Render(styles.StatusGlyph(service.Level))

		fmt.Printf("  %s  %s %s\n", swatch, glyph, s.Status)
		if verbose && s.Reason != "" {
			fmt.Println(theme.BoardReason.Render(util.TruncateWidth(s.Reason, TerminalWidth()-4)))
		}
	}

	fmt.Println()
	fmt.Println(theme.ShortcutDesc.Render("Updated " + fetchedAt.Format("15:04")))
}

// runLine prints the status and reference facts for one line.
func runLine(args *Args) error {
	tag := tfl.NormalizeTag(args.LineTag)
	if !tfl.IsKnownLine(tag) {
		return fmt.Errorf("unknown line %q (try: tubechat status)", args.LineTag)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	client := tfl.NewClientWithConfig(&tfl.ClientConfig{BaseURL: cfg.TFL.BaseURL})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	status, err := client.GetLineStatus(ctx, tag)
	if err != nil {
		return err
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(status)
	}

	theme := styles.NewTheme()
	info := tfl.GetLineInfo(tag)
	service := tfl.ClassifyStatus(status.Status)

	fmt.Println(styles.LineSwatch(tag).Render(info.Icon + " " + info.Name))
	fmt.Println()
	fmt.Printf("  Status:  %s %s\n",
		lipgloss.NewStyle().Foreground(styles.StatusColor(service.Level)).Bold(true).
			Render(styles.StatusGlyph(service.Level)),
		status.Status)
	if status.Reason != "" {
		fmt.Println(theme.BoardReason.Render(status.Reason))
	}
	fmt.Printf("  Zones:   %s\n", strings.Join(info.Zones, ", "))
	fmt.Printf("  Termini: %s\n", strings.Join(info.Termini, " - "))
	fmt.Printf("  %s\n", theme.ShortcutDesc.Render(info.Description))
	return nil
}
