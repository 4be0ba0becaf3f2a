package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"logician/pkg/bot"
	"logician/pkg/cache"
	"logician/pkg/colortable"
	"logician/pkg/completion"
	"logician/pkg/config"
	"logician/pkg/media"
	"logician/pkg/roles"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "logician",
		Short:         "Discord bot that manages MBTI type and color roles",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml", "path to config file")

	rootCmd.AddCommand(colorsCmd(), configCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func colorsCmd() *cobra.Command {
	colors := &cobra.Command{
		Use:   "colors",
		Short: "Inspect the color table",
	}
	colors.AddCommand(&cobra.Command{
		Use:   "lookup <name>",
		Short: "Print the hex code a color name resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			table, err := colortable.Load(cfg.ColorFile)
			if err != nil {
				return err
			}
			resolved, err := roles.ResolveColor(table, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resolved.Value)
			return nil
		},
	})
	return colors
}

func configCmd() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the bot configuration",
	}
	cfgCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Load the config and color table and report problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			table, err := colortable.Load(cfg.ColorFile)
			if err != nil {
				return err
			}
			phrases, err := cfg.ForbiddenPhrases()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "type guilds:       %d\n", len(cfg.TypeGuilds))
			fmt.Fprintf(out, "color guilds:      %d\n", len(cfg.ColorGuilds))
			fmt.Fprintf(out, "color positions:   %d\n", len(cfg.ColorPositions))
			fmt.Fprintf(out, "colors:            %d\n", table.Len())
			fmt.Fprintf(out, "forbidden phrases: %d\n", len(phrases))
			for _, guildID := range cfg.ColorGuilds {
				if _, ok := cfg.ColorPositions[guildID]; !ok {
					fmt.Fprintf(out, "warning: color guild %s has no color position\n", guildID)
				}
			}
			return nil
		},
	})
	return cfgCmd
}

func run() error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	secrets, err := config.LoadSecrets()
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	if secrets.DiscordToken == "" {
		return fmt.Errorf("missing required environment variable: DISCORD_TOKEN")
	}

	colors, err := colortable.Load(cfg.ColorFile)
	if err != nil {
		return fmt.Errorf("failed to load color table: %w", err)
	}
	log.Printf("Loaded %d colors from %s", colors.Len(), cfg.ColorFile)

	dg, err := discordgo.New("Bot " + secrets.DiscordToken)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	reconciler := roles.NewReconciler(bot.NewDiscordDirectory(dg), cfg.ColorPositions, cfg.RoleSpacing())

	fetcher := media.NewFetcher(cfg.Petpet.MaxBytes, cfg.PetpetTimeout())
	propaganda, err := media.NewPropagandaRenderer(cfg.Propaganda.Template)
	if err != nil {
		return fmt.Errorf("failed to load propaganda template: %w", err)
	}

	var completer bot.Completer
	if secrets.OpenAIKey != "" {
		phrases, err := cfg.ForbiddenPhrases()
		if err != nil {
			return fmt.Errorf("failed to load forbidden phrases: %w", err)
		}
		completer = completion.NewClient(secrets.OpenAIKey, cfg.OpenAI.Model, cfg.OpenAI.MaxTokens, cfg.OpenAI.Temperature, phrases)
		log.Printf("Text generation enabled (%s)", cfg.OpenAI.Model)
	} else {
		log.Println("OPENAI_API_KEY not set, /prompt disabled")
	}

	var store cache.Store
	if secrets.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(secrets.RedisURL, cfg.Cache.Prefix, cfg.CacheTTL())
		if err != nil {
			log.Printf("Warning: Redis unavailable, falling back to in-memory cache: %v", err)
		} else {
			defer redisCache.Close()
			store = redisCache
			log.Println("Render cache: Redis")
		}
	}
	if store == nil {
		store = cache.NewLRUCache(cfg.Cache.Size, cfg.CacheTTL())
		log.Printf("Render cache: in-memory (%d entries)", cfg.Cache.Size)
	}

	handler := bot.NewHandler(cfg, reconciler, colors, fetcher, media.RenderPetpet, propaganda, completer, store)
	dg.AddHandler(handler.InteractionCreate)
	dg.AddHandler(handler.Ready)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	defer dg.Close()

	registered, err := bot.RegisterSlashCommands(dg, dg.State.User.ID, cfg)
	if err != nil {
		log.Printf("Warning: failed to register slash commands: %v", err)
	}
	defer func() {
		if err := bot.UnregisterSlashCommands(dg, dg.State.User.ID, registered); err != nil {
			log.Printf("Warning: failed to unregister slash commands: %v", err)
		}
	}()

	log.Println("Bot is now running. Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	log.Println("Shutting down...")
	return nil
}
