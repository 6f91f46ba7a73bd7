package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lookbook-labs/stylist-cli/internal/model"
)

var (
	resolvePrompt string
	resolveGender string
	resolveStyle  string
	resolveBudget float64
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve outfits for a single style prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initPipeline(ctx, false)
		if err != nil {
			return err
		}
		defer e.Close()

		req := model.StyleRequest{
			Prompt: resolvePrompt,
			Gender: resolveGender,
			Style:  resolveStyle,
			Budget: resolveBudget,
		}

		resp := e.Pipeline.Run(ctx, req)

		zap.L().Info("resolution complete",
			zap.String("prompt", req.Prompt),
			zap.Int("outfits", len(resp.Outfits)),
			zap.String("status", string(resp.Status)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolvePrompt, "prompt", "", "style prompt, e.g. \"summer wedding guest\" (required)")
	resolveCmd.Flags().StringVar(&resolveGender, "gender", "", "gender presentation for search queries")
	resolveCmd.Flags().StringVar(&resolveStyle, "style", "", "style preference, e.g. \"minimalist\"")
	resolveCmd.Flags().Float64Var(&resolveBudget, "budget", 0, "total outfit budget in USD (0 = no cap)")
	_ = resolveCmd.MarkFlagRequired("prompt")
	rootCmd.AddCommand(resolveCmd)
}
