// Command baucuad serves the Bau Cua Tom Ca game over a local HTTP API.
// It reads chain state through a Sui fullnode, delegates signing to the
// wallet bridge, and caches play history in SQLite.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/zalando/go-keyring"

	"github.com/baucualabs/baucua-go/internal/api"
	"github.com/baucualabs/baucua-go/internal/contract"
	"github.com/baucualabs/baucua-go/internal/history"
	"github.com/baucualabs/baucua-go/internal/store"
	"github.com/baucualabs/baucua-go/internal/sui"
	"github.com/baucualabs/baucua-go/internal/wallet"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	var (
		listenAddr    = flag.String("listen", envOr("BAUCUA_LISTEN", "127.0.0.1:8090"), "HTTP listen address")
		rpcURL        = flag.String("rpc-url", envOr("BAUCUA_RPC_URL", "https://fullnode.testnet.sui.io:443"), "Sui JSON-RPC endpoint")
		bridgeURL     = flag.String("bridge-url", envOr("BAUCUA_BRIDGE_URL", "http://127.0.0.1:9327"), "wallet bridge endpoint")
		bridgeProfile = flag.String("bridge-profile", envOr("BAUCUA_BRIDGE_PROFILE", "default"), "keyring profile for the bridge token")
		packageID     = flag.String("package-id", envOr("BAUCUA_PACKAGE_ID", ""), "contract package id (default: testnet deployment)")
		bankID        = flag.String("bank-id", envOr("BAUCUA_BANK_ID", ""), "bank object id (default: testnet deployment)")
		dbPath        = flag.String("db", envOr("BAUCUA_DB", defaultDBPath()), "activity cache path, empty disables persistence")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[baucuad] ", log.LstdFlags)

	tokens := wallet.NewTokenStore("", "")
	token, err := tokens.GetToken(*bridgeProfile)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		logger.Printf("bridge_token_load_failed profile=%s err=%q", *bridgeProfile, err)
	}

	bridge := wallet.NewBridge(wallet.Config{URL: *bridgeURL, Token: token})
	chain := sui.NewClient(sui.Config{URL: *rpcURL})

	var st *store.Store
	if *dbPath != "" {
		if dir := filepath.Dir(*dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				logger.Fatalf("store_dir_failed path=%s err=%q", dir, err)
			}
		}
		st, err = store.Open(*dbPath)
		if err != nil {
			logger.Fatalf("store_open_failed path=%s err=%q", *dbPath, err)
		}
		defer st.Close()
	}

	pkg := *packageID
	if pkg == "" {
		pkg = contract.DefaultPackageID
	}

	var sink history.ActivitySink
	if st != nil {
		sink = st
	}
	poller := history.New(history.Config{
		Filter: sui.MoveFunctionFilter{
			Package:  pkg,
			Module:   contract.ModuleName,
			Function: contract.PlayFunction,
		},
		Logger: logger,
	}, chain, sink)

	game := contract.New(contract.Config{
		PackageID: *packageID,
		BankID:    *bankID,
		Logger:    logger,
	}, chain, bridge, bridge, poller)

	server := api.NewServer(game, bridge, poller, st, logger)

	httpServer := &http.Server{
		Addr:    *listenAddr,
		Handler: server.Routes(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := bridge.WaitForBridge(ctx, 10*time.Second); err != nil {
			logger.Printf("bridge_unreachable url=%s err=%q", *bridgeURL, err)
		} else {
			logger.Printf("bridge_connected url=%s", *bridgeURL)
		}
	}()

	go func() {
		logger.Printf("listening addr=%s rpc=%s", *listenAddr, *rpcURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server_failed err=%q", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Printf("shutdown_error err=%q", err)
	}
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "baucua.db"
	}
	return filepath.Join(dir, "baucua", "activities.db")
}
