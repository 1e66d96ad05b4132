// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration inspection and editing.
package cli

import (
	"fmt"

	"github.com/morganforge/tubechat/internal/config"
	"github.com/morganforge/tubechat/internal/ui/styles"
)

// runConfig handles "tubechat config [show|get|set|path]".
func runConfig(args *Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch args.Subcommand {
	case "", "show":
		for _, key := range config.Keys() {
			value, _ := cfg.Get(key)
			fmt.Printf("  %-28s %s\n", key, value)
		}
		return nil

	case "get":
		if args.ConfigKey == "" {
			return fmt.Errorf("get requires a key, e.g. tubechat config get api.base_url")
		}
		value, err := cfg.Get(args.ConfigKey)
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil

	case "set":
		if args.ConfigKey == "" || args.ConfigVal == "" {
			return fmt.Errorf("set requires a key and a value")
		}
		if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(styles.RenderSuccess(args.ConfigKey + " = " + args.ConfigVal))
		return nil

	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil

	default:
		return fmt.Errorf("unknown config subcommand: %s", args.Subcommand)
	}
}
