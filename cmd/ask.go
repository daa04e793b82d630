package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Vovarama1992/whatsapp-health-bot/internal/language"
)

var askLang string

var askCmd = &cobra.Command{
	Use:   "ask <message...>",
	Short: "Resolve a message locally and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		corpus, err := loadCorpus(cfg.Corpus.Path)
		if err != nil {
			return fmt.Errorf("load knowledge corpus: %w", err)
		}
		res, err := buildResolver(corpus, cfg.Providers, logger)
		if err != nil {
			return err
		}

		text := strings.Join(args, " ")
		tag := language.Detect(text)
		if askLang != "" {
			tag = language.Parse(askLang)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.Providers.Timeout.Duration+5*time.Second)
		defer cancel()
		resp := res.Resolve(ctx, text, tag)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "language: %s\n", tag)
		fmt.Fprintf(out, "tier:     %s", resp.Tier)
		if resp.Provider != "" {
			fmt.Fprintf(out, " (%s)", resp.Provider)
		}
		fmt.Fprintf(out, "\nreply:    %s\n", resp.Text)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askLang, "lang", "", "force reply language (en, hi, or)")
}
