package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"signet/config"
	"signet/core"
	"signet/observability/logging"
	"signet/rpc"
	"signet/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("SIGNET_ENV"))

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger := logging.Setup("signet", env, cfg.LogFile)

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		panic(fmt.Sprintf("Failed to open database: %v", err))
	}
	defer db.Close()

	var genesis *core.GenesisSpec
	if strings.TrimSpace(cfg.GenesisFile) != "" {
		genesis, err = core.LoadGenesisSpec(cfg.GenesisFile)
		if err != nil {
			panic(fmt.Sprintf("Failed to load genesis spec: %v", err))
		}
	}

	node, err := core.NewNode(storage.NewLedgerSnapshots(db), genesis, logger)
	if err != nil {
		panic(fmt.Sprintf("Failed to build node: %v", err))
	}
	node.Start()
	defer node.Close()

	server := rpc.NewServer(node, rpc.CORSConfig{AllowedOrigins: cfg.AllowedOrigins})
	logger.Info("starting JSON-RPC server",
		slog.String("network", cfg.NetworkName),
		slog.String("address", cfg.RPCAddress))
	if err := server.Start(cfg.RPCAddress); err != nil {
		logger.Error("RPC server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
