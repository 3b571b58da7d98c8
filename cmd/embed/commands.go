package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"embedding-conn/internal/app"
	"embedding-conn/internal/credentials"
	"embedding-conn/internal/embeddings"
	"embedding-conn/internal/similarity"
)

type buildFunc func(app.Options) (app.Deps, error)

// cli holds flag values shared by every subcommand.
type cli struct {
	build buildFunc
	env   credentials.EnvLookup

	apiKey string
	model  string
	ttl    time.Duration
	tokens bool
	asJSON bool
	rows   int
}

func newRootCmd(build buildFunc, env credentials.EnvLookup) *cobra.Command {
	c := &cli{build: build, env: env}
	root := &cobra.Command{
		Use:           "embed",
		Short:         "Query the OpenAI embeddings endpoint",
		Long:          "Embed texts or token ids, compare texts by cosine distance and inspect tokenization.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.apiKey, "api-key", "", "OpenAI API key (takes precedence over SECRETS_FILE and OPENAI_API_KEY)")
	pf.StringVar(&c.model, "model", "", "Embedding model (defaults to EMBEDDING_MODEL)")
	pf.DurationVar(&c.ttl, "ttl", 0, "Cache window for this query; 0 disables caching (defaults to CACHE_TTL_SECONDS)")
	pf.BoolVar(&c.tokens, "tokens", false, "Tokenize locally and send token ids instead of text")
	pf.BoolVar(&c.asJSON, "json", false, "Print JSON instead of a table")

	root.AddCommand(
		c.textCmd(),
		c.textsCmd(),
		c.similarityCmd(),
		c.tokenizeCmd(),
		c.credentialCmd(),
	)
	return root
}

func (c *cli) textCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text [TEXT...]",
		Short: "Embed one text (arguments are joined; stdin when none)",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = strings.TrimRight(string(b), "\r\n")
			}
			if text == "" {
				return fmt.Errorf("no text given")
			}
			return c.runEmbed(cmd, []string{text}, true)
		},
	}
	cmd.Flags().IntVar(&c.rows, "rows", 8, "Dimensions to print in table mode (0 prints all)")
	return cmd
}

func (c *cli) textsCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "texts [TEXT...]",
		Short: "Embed several texts, one column each (lines of --file or stdin when no arguments)",
		RunE: func(cmd *cobra.Command, args []string) error {
			texts, err := readTexts(cmd, args, file)
			if err != nil {
				return err
			}
			if len(texts) == 0 {
				return fmt.Errorf("no texts given")
			}
			return c.runEmbed(cmd, texts, false)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read texts from a file, one per line")
	cmd.Flags().IntVar(&c.rows, "rows", 8, "Dimensions to print in table mode (0 prints all)")
	return cmd
}

func (c *cli) similarityCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "similarity [TEXT...]",
		Short: "Pairwise cosine distance between texts",
		RunE: func(cmd *cobra.Command, args []string) error {
			texts, err := readTexts(cmd, args, file)
			if err != nil {
				return err
			}
			if len(texts) < 2 {
				return similarity.ErrTooFewInputs
			}

			deps, err := c.connect(cmd)
			if err != nil {
				return err
			}
			defer deps.Close()

			q, err := c.query(deps, texts, false)
			if err != nil {
				return err
			}
			table, err := deps.Embedder.Query(cmd.Context(), q, c.queryOptions(cmd)...)
			if err != nil {
				return err
			}
			hm, err := similarity.NewHeatmap(texts, table.Columns)
			if err != nil {
				return err
			}

			if c.asJSON {
				return writeJSON(cmd.OutOrStdout(), hm)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderHeatmap(hm))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read texts from a file, one per line")
	return cmd
}

func (c *cli) tokenizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize TEXT...",
		Short: "Show the token ids the embedding model sees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := c.connect(cmd)
			if err != nil {
				return err
			}
			defer deps.Close()

			batch, err := deps.Encoder.EncodeAll(args)
			if err != nil {
				return fmt.Errorf("failed to tokenize: %w", err)
			}
			if c.asJSON {
				return writeJSON(cmd.OutOrStdout(), batch)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTokens(args, batch))
			return nil
		},
	}
}

func (c *cli) credentialCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "credential",
		Short: "Show which source supplies the API key without calling the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			secrets, err := credentials.LoadSecrets(cfg.SecretsFile)
			if err != nil {
				return err
			}
			key, src, err := credentials.ResolveWithSource(c.apiKey, secrets, c.env)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), credentials.Describe(key, src))
			return nil
		},
	}
}

func (c *cli) runEmbed(cmd *cobra.Command, texts []string, single bool) error {
	deps, err := c.connect(cmd)
	if err != nil {
		return err
	}
	defer deps.Close()

	q, err := c.query(deps, texts, single)
	if err != nil {
		return err
	}
	table, err := deps.Embedder.Query(cmd.Context(), q, c.queryOptions(cmd)...)
	if err != nil {
		return err
	}

	if c.asJSON {
		return writeJSON(cmd.OutOrStdout(), map[string]any{
			"labels":  texts,
			"columns": table.Columns,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderEmbeddings(texts, table, c.rows))
	return nil
}

// connect builds the dependencies; logs go to stderr so stdout stays clean.
func (c *cli) connect(cmd *cobra.Command) (app.Deps, error) {
	return c.build(app.Options{
		APIKey:    c.apiKey,
		LogWriter: cmd.ErrOrStderr(),
		Env:       c.env,
	})
}

func (c *cli) query(deps app.Deps, texts []string, single bool) (embeddings.Query, error) {
	if !c.tokens {
		if single {
			return embeddings.Text(texts[0]), nil
		}
		return embeddings.Texts(texts...), nil
	}
	batch, err := deps.Encoder.EncodeAll(texts)
	if err != nil {
		return embeddings.Query{}, fmt.Errorf("failed to tokenize: %w", err)
	}
	if single {
		return embeddings.Tokens(batch[0]), nil
	}
	return embeddings.TokenBatch(batch), nil
}

func (c *cli) queryOptions(cmd *cobra.Command) []embeddings.QueryOption {
	var opts []embeddings.QueryOption
	if cmd.Flags().Changed("ttl") {
		opts = append(opts, embeddings.WithTTL(c.ttl))
	}
	if c.model != "" {
		opts = append(opts, embeddings.WithModel(c.model))
	}
	return opts
}

// readTexts takes texts from args, else from the lines of file, else from
// the lines of stdin.
func readTexts(cmd *cobra.Command, args []string, file string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	var (
		b   []byte
		err error
	)
	if file != "" {
		b, err = os.ReadFile(file)
	} else {
		b, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read texts: %w", err)
	}
	return embeddings.TextsFromLines(string(b)).Labels(), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
