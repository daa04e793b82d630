package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Vovarama1992/whatsapp-health-bot/internal/knowledge"
	"github.com/Vovarama1992/whatsapp-health-bot/internal/language"
)

var corpusPath string

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect and edit the knowledge corpus offline",
}

var corpusValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the corpus and report problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCorpus(targetCorpus())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d topics, %d alerts\n", len(c.Questions), len(c.Alerts))
		return nil
	},
}

var addFlags struct {
	topic    string
	keywords []string
	replies  map[string]string
}

var corpusAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a keyword entry to a corpus file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := targetCorpus()
		if path == "" {
			return errors.New("--path or CORPUS_PATH is required to edit a corpus")
		}
		c, err := knowledge.Load(path)
		if err != nil {
			return err
		}

		e := knowledge.Entry{
			Topic:     strings.TrimSpace(addFlags.topic),
			Responses: make(map[language.Tag]string, len(addFlags.replies)),
		}
		for _, k := range addFlags.keywords {
			if k = strings.TrimSpace(k); k != "" {
				e.Keywords = append(e.Keywords, k)
			}
		}
		for lang, text := range addFlags.replies {
			e.Responses[language.Tag(lang)] = strings.TrimSpace(text)
		}

		if err := c.AddEntry(e); err != nil {
			return err
		}
		if err := c.Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added entry %v, corpus now has %d topics\n", e.Keywords, len(c.Questions))
		return nil
	},
}

func targetCorpus() string {
	if corpusPath != "" {
		return corpusPath
	}
	return cfg.Corpus.Path
}

func init() {
	corpusCmd.PersistentFlags().StringVar(&corpusPath, "path", "", "corpus file (JSON or YAML)")

	corpusAddCmd.Flags().StringVar(&addFlags.topic, "topic", "", "topic label")
	corpusAddCmd.Flags().StringSliceVar(&addFlags.keywords, "keywords", nil, "comma-separated keywords")
	corpusAddCmd.Flags().StringToStringVar(&addFlags.replies, "reply", nil, "reply per language, e.g. en=...,hi=...")
	_ = corpusAddCmd.MarkFlagRequired("keywords")
	_ = corpusAddCmd.MarkFlagRequired("reply")

	corpusCmd.AddCommand(corpusValidateCmd, corpusAddCmd)
}
