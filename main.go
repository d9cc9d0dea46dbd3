package main

import (
	"context"
	"net/http"

	"namestory-backend/config"
	"namestory-backend/controllers/authentication"
	"namestory-backend/controllers/explore"
	"namestory-backend/controllers/httpCors"
	"namestory-backend/controllers/pairs"
	"namestory-backend/controllers/stories"
	walletctl "namestory-backend/controllers/wallet"
	"namestory-backend/models/pair"
	"namestory-backend/models/story"
	"namestory-backend/models/users"
	"namestory-backend/pkg/logger"
	"namestory-backend/services"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	var (
		storyStore  services.StoryStore
		pairStore   services.PairStore
		walletStore services.WalletStore
	)

	if cfg.HasDatabase() {
		db, err := config.InitDB(cfg)
		if err != nil {
			log.Fatal("database init failed", "error", err)
		}

		err = db.AutoMigrate(
			&story.Story{},
			&story.Comment{},
			&story.Notification{},
			&pair.PairedAsset{},
			&pair.Trade{},
			&users.WalletAccount{},
			&users.Follow{},
			&users.PlatformLink{},
		)
		if err != nil {
			log.Fatal("database migration failed", "error", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal("database handle unavailable", "error", err)
		}
		if err := sqlDB.Ping(); err != nil {
			log.Fatal("database unreachable", "error", err)
		}
		log.Info("database connected", "host", cfg.DBHost)

		storyStore = services.NewGormStoryStore(db)
		pairStore = services.NewGormPairStore(db)
		walletStore = services.NewGormWalletStore(db)
	} else {
		log.Info("no database configured, using in-memory stores")
		storyStore = services.NewMemoryStoryStore()
		pairStore = services.NewMemoryPairStore()
		walletStore = services.NewMemoryWalletStore()

		if cfg.SeedDemo {
			if err := services.SeedStories(context.Background(), storyStore); err != nil {
				log.Warn("demo seed failed", "error", err)
			}
		}
	}

	wallet := services.NewWallet(walletStore, cfg, log)
	if cfg.SettlementEndpoint != "" {
		wallet = wallet.WithSettlement(services.NewSettlementClient(cfg.SettlementEndpoint, cfg.SettlementAPIKey))
	}

	ledger := services.NewStoryLedger(storyStore, cfg, log).WithWallet(wallet)
	feed := services.NewFeed(storyStore)
	pairing := services.NewPairing(pairStore, cfg, log)

	authHandler := authentication.NewHandler(cfg, wallet, log)
	identity := authHandler.IdentityProvider()

	storyHandler := stories.NewHandler(ledger, feed, identity, log)
	exploreHandler := explore.NewHandler(feed, wallet, identity, log)
	pairHandler := pairs.NewHandler(pairing, identity, cfg, log)
	walletHandler := walletctl.NewHandler(wallet, identity, cfg, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/auth/connect", authHandler.Connect)
	mux.HandleFunc("/auth/disconnect", authHandler.Disconnect)
	mux.HandleFunc("/auth/profile", authHandler.Profile)
	mux.HandleFunc("/login/platform", authHandler.PlatformLogin)
	mux.HandleFunc("/callback/platform", authHandler.PlatformCallback)

	mux.HandleFunc("/wallet/balance", walletHandler.Balance)
	mux.HandleFunc("/wallet/withdraw", walletHandler.Withdraw)

	mux.HandleFunc("/stories", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			storyHandler.CreateStory(w, r)
			return
		}
		storyHandler.ListStories(w, r)
	})
	mux.HandleFunc("/stories/view", storyHandler.ViewStory)
	mux.HandleFunc("/stories/value", storyHandler.ValueStory)
	mux.HandleFunc("/stories/share", storyHandler.ShareStory)
	mux.HandleFunc("/stories/like", storyHandler.ToggleLike)
	mux.HandleFunc("/stories/comments", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			storyHandler.CreateComment(w, r)
			return
		}
		storyHandler.GetComments(w, r)
	})
	mux.HandleFunc("/notifications", storyHandler.GetNotifications)
	mux.HandleFunc("/notifications/read", storyHandler.MarkNotificationAsRead)

	mux.HandleFunc("/explore/users", exploreHandler.ListUsers)
	mux.HandleFunc("/explore/follow", exploreHandler.ToggleFollow)

	mux.HandleFunc("/pairs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			pairHandler.CreatePair(w, r)
			return
		}
		pairHandler.ListPairs(w, r)
	})
	mux.HandleFunc("/pairs/view", pairHandler.ViewPair)
	mux.HandleFunc("/pairs/trade", pairHandler.Trade)
	mux.HandleFunc("/pairs/ticker", pairHandler.Ticker)

	handler := httpCors.CorsSettings(cfg).Handler(mux)

	log.Info("server listening", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}
