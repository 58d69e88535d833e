package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"oddslens/src/connectors"
	"oddslens/src/controller"
	"oddslens/src/database"
	"oddslens/src/mapper"
	"oddslens/src/repository"
	"oddslens/src/transactions"
	"oddslens/src/utils"
)

var Version string

func main() {
	app := cli.NewApp()
	app.Name = "OddsLens CMD"
	app.Usage = "The OddsLens command line interface"

	app.Commands = []cli.Command{
		portfolioCMD,
		historyCMD,
		pnlCMD,
		claimCMD,
		closeCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	walletFlag = cli.StringFlag{
		Name:     "wallet",
		Usage:    "wallet public key",
		Required: true,
	}
	positionFlag = cli.StringFlag{
		Name:     "position",
		Usage:    "position public key",
		Required: true,
	}
	keypairFlag = cli.StringFlag{
		Name:  "keypair",
		Usage: "path to the signing keypair file",
	}
	rpcFlag = cli.StringFlag{
		Name:   "rpc-url",
		Usage:  "Solana RPC endpoint",
		EnvVar: "SOLANA_RPC_URL",
		Value:  rpc.MainNetBeta_RPC,
	}

	portfolioCMD = cli.Command{
		Name:        "portfolio",
		Usage:       "show a wallet's positions and profile",
		Action:      portfolioAction,
		Flags:       []cli.Flag{walletFlag},
		Description: `Fetch and bucket the wallet's portfolio`,
	}
	historyCMD = cli.Command{
		Name:        "history",
		Usage:       "show a wallet's activity log",
		Action:      historyAction,
		Flags:       []cli.Flag{walletFlag},
		Description: `Fetch the wallet's trade and settlement history`,
	}
	pnlCMD = cli.Command{
		Name:   "pnl",
		Usage:  "show a wallet's realized PnL series",
		Action: pnlAction,
		Flags: []cli.Flag{
			walletFlag,
			cli.StringFlag{Name: "interval", Usage: "24h, 1w or 1m", Value: "24h"},
		},
		Description: `Fetch the realized PnL time series`,
	}
	claimCMD = cli.Command{
		Name:        "claim",
		Usage:       "claim a settled position's payout",
		Action:      claimAction,
		Flags:       []cli.Flag{walletFlag, positionFlag, keypairFlag, rpcFlag},
		Description: `Build, sign and submit a payout claim transaction`,
	}
	closeCMD = cli.Command{
		Name:        "close",
		Usage:       "close an open position",
		Action:      closeAction,
		Flags:       []cli.Flag{walletFlag, positionFlag, keypairFlag, rpcFlag},
		Description: `Build, sign and submit a close-position transaction`,
	}
)

func portfolioAction(c *cli.Context) error {
	wallet := c.String("wallet")
	logrus.WithField("wallet", wallet).Info("Fetching portfolio")

	client := connectors.NewMarketClientFromEnv()
	raw, err := client.Positions(context.Background(), wallet)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch positions")
		return err
	}

	buckets := controller.BucketPositions(mapper.MapPositionsToModel(raw))

	fmt.Printf("claimable (%d):\n", len(buckets.Claimable))
	for _, p := range buckets.Claimable {
		fmt.Printf("  %s  %s  payout %s\n", utils.TruncateAddress(p.Pubkey), p.MarketTitle, utils.FormatUsd(p.Payout))
	}
	fmt.Printf("active (%d):\n", len(buckets.Active))
	for _, p := range buckets.Active {
		fmt.Printf("  %s  %s  value %s  pnl %s (%s)\n",
			utils.TruncateAddress(p.Pubkey), p.MarketTitle,
			utils.FormatUsd(p.Value), utils.FormatUsd(p.Pnl), utils.FormatPercent(p.PnlPercent))
	}
	fmt.Printf("settled (%d):\n", len(buckets.Settled))
	for _, p := range buckets.Settled {
		fmt.Printf("  %s  %s  realized %s\n",
			utils.TruncateAddress(p.Pubkey), p.MarketTitle, utils.FormatUsd(p.RealizedPnl))
	}

	return nil
}

func historyAction(c *cli.Context) error {
	wallet := c.String("wallet")
	logrus.WithField("wallet", wallet).Info("Fetching history")

	client := connectors.NewMarketClientFromEnv()
	events, err := client.History(context.Background(), wallet)
	if err != nil {
		if connectors.IsNotFound(err) {
			fmt.Println("no activity yet")
			return nil
		}
		logrus.WithError(err).Error("Failed to fetch history")
		return err
	}

	for _, e := range mapper.MapHistoryToModel(events) {
		fmt.Printf("%s  %-18s  %s  %s\n", e.Timestamp, e.EventType, e.MarketTitle, utils.FormatUsd(e.TotalCost))
	}

	return nil
}

func pnlAction(c *cli.Context) error {
	wallet := c.String("wallet")
	interval := c.String("interval")
	logrus.WithFields(map[string]interface{}{
		"wallet":   wallet,
		"interval": interval,
	}).Info("Fetching PnL history")

	client := connectors.NewMarketClientFromEnv()
	points, err := client.PnlHistory(context.Background(), wallet, interval, 100)
	if err != nil {
		if connectors.IsNotFound(err) {
			fmt.Println("no pnl history yet")
			return nil
		}
		logrus.WithError(err).Error("Failed to fetch PnL history")
		return err
	}

	for _, p := range mapper.MapPnlPointsToModel(points) {
		fmt.Printf("%s  %s\n", p.Timestamp, utils.FormatUsd(p.RealizedPnl))
	}

	return nil
}

func claimAction(c *cli.Context) error {
	return submitAction(c, "claim")
}

func closeAction(c *cli.Context) error {
	return submitAction(c, "close")
}

func submitAction(c *cli.Context, action string) error {
	wallet := c.String("wallet")
	position := c.String("position")
	keypairPath := c.String("keypair")
	if keypairPath == "" {
		return fmt.Errorf("--keypair is required to sign the %s transaction", action)
	}

	key, err := solana.PrivateKeyFromSolanaKeygenFile(keypairPath)
	if err != nil {
		logrus.WithError(err).Error("Failed to load keypair")
		return err
	}

	if database.GetConfig().EnableDB {
		if err := database.Init(); err != nil {
			logrus.WithError(err).Error("Failed to initialize database")
			return err
		}
	}

	client := connectors.NewMarketClientFromEnv()
	ctx := context.Background()

	var encoded string
	if action == "claim" {
		encoded, err = client.BuildClaimTransaction(ctx, position, wallet)
	} else {
		encoded, err = client.BuildCloseTransaction(ctx, position, wallet)
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to build transaction")
		return fmt.Errorf("%s", transactions.FriendlyMessage(err))
	}

	sig, err := controller.SubmitWithAudit(
		ctx,
		rpc.New(c.String("rpc-url")),
		transactions.NewKeypairSigner(key),
		repository.NewTransactionRecordRepository(),
		wallet,
		position,
		action,
		encoded,
		transactions.WithStateFunc(func(st transactions.Status) {
			logrus.WithField("state", string(st)).Info("Transaction progress")
		}),
	)
	if err != nil {
		return fmt.Errorf("%s", transactions.FriendlyMessage(err))
	}

	fmt.Printf("confirmed: %s\n", utils.SolscanURL(sig.String()))
	return nil
}
