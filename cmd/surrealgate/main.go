package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/hatlonely/surrealgate/app"
	"github.com/pkg/errors"
)

// Version 构建时通过 -ldflags "-X main.Version=..." 注入
var Version = "dev"

var CLI struct {
	Config string `name:"config" short:"c" default:"app.yaml" help:"Config file (json, yaml, toml, ini)" type:"path"`

	Serve        ServeCmd        `cmd:"" default:"1" help:"Serve table operations over HTTP"`
	CreateTables CreateTablesCmd `cmd:"" help:"Execute definition statements of all tables"`
	Definitions  DefinitionsCmd  `cmd:"" help:"Print definition statements"`
	Version      VersionCmd      `cmd:"" help:"Print version information"`
}

type ServeCmd struct{}

func (c *ServeCmd) Run() error {
	a, err := app.Load(CLI.Config)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.Run(ctx)
}

type CreateTablesCmd struct{}

func (c *CreateTablesCmd) Run() error {
	a, err := app.Load(CLI.Config)
	if err != nil {
		return err
	}
	defer a.Close()

	report := a.Router().CreateTables(context.Background())
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return errors.Wrap(err, "encode report failed")
	}
	if report.Failed > 0 {
		return errors.Errorf("%d statements failed", report.Failed)
	}
	return nil
}

type DefinitionsCmd struct {
	Tables []string `arg:"" optional:"" help:"Tables to print, all tables when empty"`
}

func (c *DefinitionsCmd) Run() error {
	a, err := app.Load(CLI.Config)
	if err != nil {
		return err
	}
	defer a.Close()

	tables := c.Tables
	if len(tables) == 0 {
		for _, table := range a.Registry().All() {
			tables = append(tables, table.Name())
		}
	}

	for _, table := range tables {
		statements, err := a.Router().Definitions(table)
		if err != nil {
			return err
		}
		for _, stmt := range statements {
			fmt.Println(stmt.Text)
		}
	}
	return nil
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println("surrealgate " + Version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("surrealgate"),
		kong.Description("Schema driven HTTP gateway for SurrealDB"),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
