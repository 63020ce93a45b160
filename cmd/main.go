package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"tradingplatform/sdk"
	"tradingplatform/src/database"
	"tradingplatform/src/server"
)

func main() {
	app := cli.NewApp()
	app.Name = "Trading Platform CMD"
	app.Usage = "The trading platform command line interface"

	app.Commands = []cli.Command{
		serverCMD,
		seedCMD,
		demoCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	serverCMD = cli.Command{
		Name:        "server",
		Usage:       "run the REST API server",
		Action:      serverAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Initialize the database, seed the instrument catalog and serve the API`,
	}
	seedCMD = cli.Command{
		Name:        "seed",
		Usage:       "seed the instrument catalog",
		Action:      seedAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Load the sample instruments into the database and exit`,
	}
	demoCMD = cli.Command{
		Name:      "demo",
		Usage:     "run a demo trading session against a running server",
		Action:    demoAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "base-url",
				Value: "http://localhost:9898",
				Usage: "base URL of the running server",
			},
		},
		Description: `Place a few orders through the SDK and print the resulting portfolio`,
	}
)

func serverAction(_ *cli.Context) error {
	logrus.Info("Starting server CMD")

	if err := database.InitMainDB(); err != nil {
		return err
	}
	if err := database.SeedInstruments(database.MainDB); err != nil {
		return err
	}

	server.StartServer(server.GetConfig().Port)
	return nil
}

func seedAction(_ *cli.Context) error {
	logrus.Info("Starting seed CMD")

	if err := database.InitMainDB(); err != nil {
		return err
	}
	return database.SeedInstruments(database.MainDB)
}

// demoAction mirrors a basic trading session: buy, sell, inspect.
func demoAction(c *cli.Context) error {
	ctx := context.Background()
	client := sdk.NewClient(c.String("base-url"))

	instruments, err := client.Instruments(ctx, true)
	if err != nil {
		return err
	}
	logrus.WithField("count", len(instruments)).Info("instruments listed")

	buy, err := client.BuyMarket(ctx, "AAPL", 10)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"order_id": buy.Order.ID,
		"status":   buy.Order.Status,
	}).Info("market buy placed")

	sell, err := client.SellLimit(ctx, "AAPL", 4, 190.00)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"order_id": sell.Order.ID,
		"status":   sell.Order.Status,
	}).Info("limit sell placed")

	pf, err := client.Portfolio(ctx)
	if err != nil {
		return err
	}
	for _, holding := range pf.Holdings {
		logrus.WithFields(logrus.Fields{
			"symbol":   holding.Symbol,
			"quantity": holding.Quantity,
			"avg":      holding.AveragePrice,
			"pnl":      holding.ProfitLoss,
		}).Info("holding")
	}
	logrus.WithFields(logrus.Fields{
		"invested": pf.TotalInvested,
		"current":  pf.TotalCurrentValue,
		"pnl":      pf.TotalProfitLoss,
	}).Info("portfolio totals")

	return nil
}
