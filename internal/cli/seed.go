package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"hylehub-store/internal/seed"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the initial catalog into the store",
	Long:  "Upserts site config, categories, social links and products. Uses the embedded catalog unless --file is given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.Close(ctx)

		data := seed.Defaults()
		if seedFile != "" {
			if data, err = seed.LoadFile(seedFile); err != nil {
				return err
			}
		}

		res, err := seed.Apply(ctx, rt.store, data)
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"config":     res.Config,
			"categories": res.Categories,
			"socials":    res.Socials,
			"products":   res.Products,
		}).Info("✅ seed applied")
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML file with config, categories, socials and products")
	rootCmd.AddCommand(seedCmd)
}
