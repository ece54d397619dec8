// Copyright 2025 Vitalsign Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/vitalsign/healthqa"
	"github.com/vitalsign/healthqa/ai"
	"github.com/vitalsign/healthqa/core"
	"github.com/vitalsign/healthqa/semantic"
)

func main() {
	app := &cli.App{
		Name:  "healthqa",
		Usage: "Answer free-text health questions from a curated corpus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ask",
				Usage:     "Resolve a single question",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags:     serviceFlags(),
			},
			{
				Name:   "chat",
				Usage:  "Interactive session with follow-up support",
				Action: chatCommand,
				Flags:  serviceFlags(),
			},
			{
				Name:   "build-index",
				Usage:  "Embed the corpus and write the semantic index artifacts",
				Action: buildIndexCommand,
				Flags: append(serviceFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Questions embedded per request",
						Value: semantic.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent embedding workers (0 = half the CPUs)",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "corpus",
			Aliases:  []string{"c"},
			Usage:    "Path to the corpus CSV dataset",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "cache",
			Usage: "Answer cache directory (empty = in-memory)",
		},
		&cli.StringFlag{
			Name:  "index",
			Usage: "Semantic index vector file",
			Value: "index.vec",
		},
		&cli.StringFlag{
			Name:  "index-meta",
			Usage: "Semantic index metadata file",
			Value: "index.meta",
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "OpenAI-compatible model service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "classifier-model",
			Usage: "Classifier model name",
			Value: "qwen2.5:3b",
		},
	}
}

func newService(c *cli.Context, withIndex bool) (*healthqa.Service, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithClassifierModel(c.String("classifier-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model configuration: %w", err)
	}

	opts := []healthqa.ServiceOption{
		healthqa.WithAIConfig(aiConfig),
		healthqa.WithCachePath(c.String("cache")),
	}
	if withIndex {
		opts = append(opts, healthqa.WithIndexPaths(c.String("index"), c.String("index-meta")))
	}
	return healthqa.NewService(c.String("corpus"), opts...)
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	service, err := newService(c, true)
	if err != nil {
		return err
	}
	defer service.Close()

	res, err := service.Ask(context.Background(), question)
	if err != nil {
		return err
	}
	fmt.Println(res.Answer)
	slog.Debug("resolved", "stage", res.Stage.String(), "label", res.Label)
	return nil
}

func chatCommand(c *cli.Context) error {
	service, err := newService(c, true)
	if err != nil {
		return err
	}
	defer service.Close()

	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	var history []core.Turn

	fmt.Println("Ask a health question (empty line to quit).")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			break
		}

		res, err := service.AskWithHistory(ctx, question, history)
		if err != nil {
			return err
		}
		fmt.Println(res.Answer)

		history = append(history,
			core.Turn{Sender: core.SenderUser, Message: question},
			core.Turn{Sender: core.SenderBot, Message: res.Answer},
		)
	}
	return scanner.Err()
}

func buildIndexCommand(c *cli.Context) error {
	service, err := newService(c, false)
	if err != nil {
		return err
	}
	defer service.Close()

	buildOpts := []semantic.BuilderOption{
		semantic.WithBatchSize(c.Int("batch-size")),
	}
	if workers := c.Int("workers"); workers > 0 {
		buildOpts = append(buildOpts, semantic.WithPoolSize(workers))
	}

	vectorPath := c.String("index")
	metaPath := c.String("index-meta")
	if err := service.BuildIndex(context.Background(), vectorPath, metaPath, buildOpts...); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Indexed %d entries to %s / %s\n", service.Store().Len(), vectorPath, metaPath)
	return nil
}

func setupLogger(c *cli.Context) error {
	var level slog.Level
	switch strings.ToLower(c.String("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", c.String("log-level"))
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}
