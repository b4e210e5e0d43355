package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/firebase-memory/internal/tools"
)

func init() {
	cmd := &cobra.Command{
		Use:   "put [content]",
		Short: "Store a memory",
		Long:  "Store a memory. Content can be a positional arg or piped via stdin.",
		RunE:  runPut,
	}

	cmd.Flags().StringP("tags", "t", "", "Comma-separated tags")
	cmd.Flags().IntP("importance", "i", 5, "Importance level (1-10)")
	cmd.Flags().String("type", "general", "Type of memory (fact, conversation, task, etc.)")
	cmd.Flags().String("meta", "", "Extra JSON metadata object")

	RootCmd.AddCommand(cmd)
}

func runPut(cmd *cobra.Command, args []string) error {
	tagsStr, _ := cmd.Flags().GetString("tags")
	importance, _ := cmd.Flags().GetInt("importance")
	kind, _ := cmd.Flags().GetString("type")
	meta, _ := cmd.Flags().GetString("meta")

	// Get content: positional arg first, then check stdin
	var content string
	if len(args) > 0 {
		content = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			content = string(b)
		}
	}

	metadata := map[string]any{}
	if meta != "" {
		if err := json.Unmarshal([]byte(meta), &metadata); err != nil {
			return fmt.Errorf("--meta must be a JSON object: %w", err)
		}
	}

	tags := []any{}
	if tagsStr != "" {
		for _, t := range strings.Split(tagsStr, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				tags = append(tags, t)
			}
		}
	}
	metadata["tags"] = tags
	metadata["importance"] = importance
	metadata["type"] = kind

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	return sess.call(cmd, tools.StoreMemory, map[string]any{
		"content":  content,
		"metadata": metadata,
	})
}
