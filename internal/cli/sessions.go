// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions.go - Saved conversation management.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/morganforge/tubechat/internal/config"
	"github.com/morganforge/tubechat/internal/storage"
	"github.com/morganforge/tubechat/internal/ui/styles"
	"github.com/morganforge/tubechat/internal/util"
)

// runSessions handles "tubechat sessions [list|clear|delete <id>]".
func runSessions(args *Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	snapshotDir, err := cfg.SnapshotDir()
	if err != nil {
		return err
	}
	snapshots, err := storage.NewSnapshotStoreWithDir(snapshotDir)
	if err != nil {
		return err
	}

	switch args.Subcommand {
	case "", "list":
		metas, err := snapshots.List()
		if err != nil {
			return err
		}
		if args.JSON {
			return json.NewEncoder(os.Stdout).Encode(metas)
		}
		printSessionList(metas)
		return nil

	case "clear":
		if err := snapshots.Clear(); err != nil {
			return err
		}
		fmt.Println(styles.RenderSuccess("All saved conversations removed."))
		return nil

	case "delete":
		if len(args.Raw) == 0 {
			return fmt.Errorf("delete requires a thread ID (see: tubechat sessions list)")
		}
		if err := snapshots.Delete(args.Raw[0]); err != nil {
			return err
		}
		fmt.Println(styles.RenderSuccess("Deleted " + args.Raw[0]))
		return nil

	default:
		return fmt.Errorf("unknown sessions subcommand: %s", args.Subcommand)
	}
}

func printSessionList(metas []storage.Meta) {
	if len(metas) == 0 {
		fmt.Println("No saved conversations.")
		return
	}

	now := time.Now()
	for _, meta := range metas {
		age := now.Sub(meta.Timestamp).Round(time.Minute)
		fmt.Printf("  %s  %s\n", meta.ThreadID, formatAge(age))
		if meta.Preview != "" {
			fmt.Printf("    %s\n", util.TruncateRunes(meta.Preview, 70))
		}
		fmt.Printf("    %d messages", meta.MessageCount)
		if meta.ActiveAgent != "" {
			fmt.Printf(", last agent %s", meta.ActiveAgent)
		}
		fmt.Println()
	}
}

func formatAge(age time.Duration) string {
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	}
}
