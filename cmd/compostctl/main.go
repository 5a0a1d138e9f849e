package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	compostmatch "github.com/compostmatch/compostmatch"
)

func main() {
	app := &cli.App{
		Name:  "compostctl",
		Usage: "Command-line client for the compost marketplace",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "redis",
				Usage:   "Redis address",
				Value:   "localhost:6379",
				EnvVars: []string{"COMPOSTMATCH_REDIS_ADDR"},
			},
			&cli.StringFlag{
				Name:    "redis-password",
				Usage:   "Redis password",
				EnvVars: []string{"COMPOSTMATCH_REDIS_PASSWORD"},
			},
			&cli.StringFlag{
				Name:    "model-api-key",
				Usage:   "Generative-model API key (empty: deterministic fallbacks)",
				EnvVars: []string{"COMPOSTMATCH_MODEL_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "model-base-url",
				Usage:   "OpenAI-compatible model endpoint",
				Value:   "https://generativelanguage.googleapis.com/v1beta/openai",
				EnvVars: []string{"COMPOSTMATCH_MODEL_BASE_URL"},
			},
			&cli.StringFlag{
				Name:    "model-name",
				Usage:   "Model name",
				Value:   "gemini-1.5-flash",
				EnvVars: []string{"COMPOSTMATCH_MODEL_NAME"},
			},
			&cli.StringFlag{
				Name:  "key-prefix",
				Usage: "Storage key namespace",
				Value: "compost:",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Usage:  "Load sample offer and want records",
				Action: seedCommand,
			},
			{
				Name:      "search",
				Usage:     "Rank the candidate set against a query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
			},
			{
				Name:      "suggest",
				Usage:     "Show query-completion suggestions",
				ArgsUsage: "[query]",
				Action:    suggestCommand,
			},
			{
				Name:   "live",
				Usage:  "Interactive search with keystroke debouncing",
				Action: liveCommand,
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "debounce",
						Usage: "Quiet period before a search dispatches",
						Value: 800 * time.Millisecond,
					},
				},
			},
			{
				Name:   "chat",
				Usage:  "Talk to CompostBot",
				Action: chatCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newClient(c *cli.Context, extra ...compostmatch.Option) (*compostmatch.Client, error) {
	opts := []compostmatch.Option{
		compostmatch.WithRedis(c.String("redis"), c.String("redis-password")),
		compostmatch.WithKeyPrefix(c.String("key-prefix")),
	}
	if key := c.String("model-api-key"); key != "" {
		opts = append(opts, compostmatch.WithModel(key, c.String("model-base-url"), c.String("model-name")))
	}
	opts = append(opts, extra...)
	return compostmatch.New(opts...)
}

func seedCommand(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	defer client.Close()
	ctx := c.Context

	offers := []compostmatch.OfferRecord{
		{
			CompostType:        "Fruit & Veg Scraps",
			RestaurantName:     "Cafe Verde",
			PickupAvailability: "pickup",
			Amount:             "3 kg/week",
			Location:           "2.5 km",
			UserID:             "seed",
		},
		{
			CompostType:        "Coffee Grounds",
			RestaurantName:     "Daily Grind",
			PickupAvailability: "delivery",
			Amount:             "1.5 kg/week",
			Location:           "1.1 km",
			UserID:             "seed",
		},
		{
			CompostType:        "Eggshells",
			RestaurantName:     "Sunrise Diner",
			PickupAvailability: "pickup",
			Amount:             "0.5 kg/week",
			Location:           "3.9 km",
			UserID:             "seed",
		},
	}
	for _, rec := range offers {
		created, err := client.CreateOffer(ctx, rec)
		if err != nil {
			return fmt.Errorf("seed offer %q: %w", rec.CompostType, err)
		}
		fmt.Printf("offer %s  %s (%s)\n", created.ID, created.CompostType, created.RestaurantName)
	}

	want := compostmatch.WantRecord{
		GardenName:       "Sunny Patch Community Garden",
		ContactName:      "Alex",
		CompostType:      "Vegetable Scraps",
		AvailabilityType: "both",
		AvailableDates:   []string{"Monday", "Thursday"},
		Amount:           "5 kg/week",
		UserID:           "seed",
	}
	created, err := client.CreateWant(ctx, want)
	if err != nil {
		return fmt.Errorf("seed want: %w", err)
	}
	fmt.Printf("want  %s  %s (%s)\n", created.ID, created.CompostType, created.GardenName)
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return cli.Exit("usage: compostctl search <query>", 2)
	}

	client, err := newClient(c)
	if err != nil {
		return err
	}
	defer client.Close()

	results, source, err := client.Search(c.Context, query)
	if err != nil {
		return err
	}

	printResults(results, source)
	return nil
}

func suggestCommand(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	defer client.Close()

	query := strings.Join(c.Args().Slice(), " ")
	for _, s := range client.Suggest(c.Context, query) {
		fmt.Println(" ", s)
	}
	return nil
}

func liveCommand(c *cli.Context) error {
	client, err := newClient(c, compostmatch.WithDebounce(c.Duration("debounce")))
	if err != nil {
		return err
	}
	defer client.Close()

	dim := color.New(color.Faint).SprintFunc()
	sess, err := client.NewSession(c.Context, func(results []compostmatch.SearchResult, source compostmatch.Source) {
		fmt.Println()
		printResults(results, source)
		fmt.Print(dim("query> "))
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	fmt.Println("Type to search; an empty line clears, 'exit' quits.")
	fmt.Print(dim("query> "))

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case "exit":
			return nil
		case "":
			sess.Clear()
			fmt.Print(dim("query> "))
		default:
			// Input, not Commit, so rapid lines coalesce per --debounce.
			sess.Input(line)
		}
	}
	return scanner.Err()
}

func chatCommand(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	defer client.Close()

	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Println(boldGreen("CompostBot"))
	fmt.Println("Ask about composting. Type 'exit' or Ctrl+D to quit.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(boldGreen("You: "))
		if !scanner.Scan() {
			break
		}
		msg := scanner.Text()
		if strings.ToLower(strings.TrimSpace(msg)) == "exit" {
			break
		}
		reply := client.Chat(context.Background(), msg)
		fmt.Println(cyan("Bot:"), reply)
		fmt.Println()
	}
	return scanner.Err()
}

func printResults(results []compostmatch.SearchResult, source compostmatch.Source) {
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	if len(results) == 0 {
		fmt.Println("no matches", yellow("("+string(source)+")"))
		return
	}
	fmt.Printf("%d results %s\n", len(results), yellow("("+string(source)+")"))
	for _, r := range results {
		fmt.Printf("  %s  score %s  %s\n", r.ID, green(fmt.Sprint(r.RelevanceScore)), r.Explanation)
		if len(r.MatchedFields) > 0 {
			fmt.Printf("      fields: %s\n", strings.Join(r.MatchedFields, ", "))
		}
	}
}
